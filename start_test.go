package webln

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestStart_Idempotent(t *testing.T) {
	require.NoError(t, Start(WithLogLevel(logrus.WarnLevel)))
	require.True(t, Started())
	require.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	// later calls are no-ops, even with different options
	require.NoError(t, Start(WithLogLevel(logrus.TraceLevel), WithSentryDSN("not a dsn")))
	require.Equal(t, logrus.WarnLevel, logrus.GetLevel())
}

func TestReportPanic(t *testing.T) {
	err := ReportPanic("sendPayment", errors.New("nil map"))
	require.EqualError(t, err, "panic in sendPayment: nil map")

	err = ReportPanic("getInfo", "index out of range")
	require.EqualError(t, err, "panic in getInfo: index out of range")
}

func TestFlush_WithoutSentry(t *testing.T) {
	require.NotPanics(t, func() { Flush(10 * time.Millisecond) })
}
