package webln

import (
	"testing"
	"time"

	"github.com/lnbridge/go-webln/metrics"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	counters  []string
	latencies []string
}

func (r *countingRecorder) IncCounter(name string, labels map[string]string) {
	r.counters = append(r.counters, name+":"+labels["outcome"])
}

func (r *countingRecorder) ObserveLatency(name string, _ time.Duration, labels map[string]string) {
	r.latencies = append(r.latencies, name+":"+labels["outcome"])
}

func TestClientDefaults(t *testing.T) {
	o := clientDefaults()
	require.Equal(t, logrus.StandardLogger(), o.logger)
	require.Equal(t, metrics.NoopRecorder{}, o.metrics)
}

func TestWithLogger(t *testing.T) {
	logger, _ := test.NewNullLogger()
	o := clientDefaults()
	WithLogger(logger)(&o)
	require.Equal(t, logger, o.logger)

	WithLogger(nil)(&o)
	require.Equal(t, logger, o.logger, "nil logger must not replace the configured one")
}

func TestWithMetrics(t *testing.T) {
	rec := &countingRecorder{}
	o := clientDefaults()
	WithMetrics(rec)(&o)
	require.Equal(t, rec, o.metrics)
}

func TestStartDefaults(t *testing.T) {
	o := startDefaults()
	require.Empty(t, o.sentryDSN)
	require.Equal(t, "production", o.environment)
	require.Equal(t, logrus.InfoLevel, o.level)

	WithSentryDSN("https://key@sentry.example/1")(&o)
	WithRelease("v0.1.0")(&o)
	WithEnvironment("staging")(&o)
	WithLogLevel(logrus.DebugLevel)(&o)
	require.Equal(t, "https://key@sentry.example/1", o.sentryDSN)
	require.Equal(t, "v0.1.0", o.release)
	require.Equal(t, "staging", o.environment)
	require.Equal(t, logrus.DebugLevel, o.level)
}
