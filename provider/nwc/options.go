package nwc

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Option configures a wallet connection.
type Option func(*options)

type options struct {
	logger         logrus.FieldLogger
	requestTimeout time.Duration
	dialAttempts   int
	dialInterval   time.Duration
	dial           dialFunc
}

func defaults() options {
	return options{
		logger:         logrus.StandardLogger(),
		requestTimeout: 60 * time.Second,
		dialAttempts:   3,
		dialInterval:   250 * time.Millisecond,
		dial:           dialNostr,
	}
}

// WithLogger sets the logger for request logs.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRequestTimeout bounds how long one request waits for the wallet's
// response when the caller's context has no earlier deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.requestTimeout = d
		}
	}
}

// WithDialAttempts sets how many times each relay is dialed before giving up.
func WithDialAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.dialAttempts = n
		}
	}
}

func withDialer(d dialFunc) Option {
	return func(o *options) {
		o.dial = d
	}
}

// withDialInterval sets the first wait between dial attempts.
func withDialInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.dialInterval = d
		}
	}
}
