package webln

import (
	"github.com/lnbridge/go-webln/metrics"
	"github.com/sirupsen/logrus"
)

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	logger  logrus.FieldLogger
	metrics metrics.Recorder
}

func clientDefaults() clientOptions {
	return clientOptions{
		logger:  logrus.StandardLogger(),
		metrics: metrics.NoopRecorder{},
	}
}

// WithLogger sets the logger used for per-operation debug logs.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *clientOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the recorder that receives one event per operation.
func WithMetrics(r metrics.Recorder) Option {
	return func(o *clientOptions) {
		if r != nil {
			o.metrics = r
		}
	}
}

// StartOption configures the process-wide diagnostics installed by Start.
type StartOption func(*startOptions)

type startOptions struct {
	sentryDSN   string
	release     string
	environment string
	level       logrus.Level
}

func startDefaults() startOptions {
	return startOptions{
		environment: "production",
		level:       logrus.InfoLevel,
	}
}

// WithSentryDSN enables panic and error reporting to Sentry.
func WithSentryDSN(dsn string) StartOption {
	return func(o *startOptions) {
		o.sentryDSN = dsn
	}
}

// WithRelease tags Sentry events with a release name.
func WithRelease(release string) StartOption {
	return func(o *startOptions) {
		o.release = release
	}
}

// WithEnvironment tags Sentry events with an environment name.
func WithEnvironment(env string) StartOption {
	return func(o *startOptions) {
		o.environment = env
	}
}

// WithLogLevel sets the standard logrus logger level.
func WithLogLevel(level logrus.Level) StartOption {
	return func(o *startOptions) {
		o.level = level
	}
}
