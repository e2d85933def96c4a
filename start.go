package webln

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	sentrylogrus "github.com/getsentry/sentry-go/logrus"
	log "github.com/sirupsen/logrus"
)

var (
	startOnce  sync.Once
	startErr   error
	started    atomic.Bool
	sentryHook atomic.Pointer[sentrylogrus.Hook]
)

// Start installs process-wide diagnostics: logrus formatting and level and,
// when a Sentry DSN is given, Sentry error and panic reporting. Only the
// first call has an effect; later calls return the first call's result.
//
// Clients work without Start; panics and errors are then only logged.
func Start(opts ...StartOption) error {
	startOnce.Do(func() {
		o := startDefaults()
		for _, opt := range opts {
			opt(&o)
		}
		startErr = start(o)
		started.Store(true)
	})
	return startErr
}

func start(o startOptions) error {
	log.SetLevel(o.level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if o.sentryDSN == "" {
		return nil
	}

	clientOpts := sentry.ClientOptions{
		Dsn:              o.sentryDSN,
		Environment:      o.environment,
		Release:          o.release,
		AttachStacktrace: true,
	}
	if err := sentry.Init(clientOpts); err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}

	sentryLevels := []log.Level{log.ErrorLevel, log.FatalLevel, log.PanicLevel}
	hook, err := sentrylogrus.New(sentryLevels, clientOpts)
	if err != nil {
		return fmt.Errorf("init sentry logrus hook: %w", err)
	}
	log.AddHook(hook)
	sentryHook.Store(hook)

	return nil
}

// Started reports whether Start has run.
func Started() bool {
	return started.Load()
}

// ReportPanic records a recovered panic value r raised while running op and
// returns an error describing it, so that the panic can be surfaced to the
// caller instead of aborting the host runtime.
func ReportPanic(op string, r any) error {
	errValue := fmt.Errorf("panic in %s: %v", op, r)

	log.WithError(errValue).WithFields(log.Fields{
		"operation":   op,
		"panic":       r,
		"stack_trace": string(debug.Stack()),
	}).Error("panic recovered in webln operation")

	if hook := sentryHook.Load(); hook != nil {
		hook.Flush(2 * time.Second)
	}
	return errValue
}

// Flush waits up to timeout for queued Sentry events to be delivered. It is a
// no-op when Start ran without a DSN.
func Flush(timeout time.Duration) {
	if hook := sentryHook.Load(); hook != nil {
		hook.Flush(timeout)
	}
}
