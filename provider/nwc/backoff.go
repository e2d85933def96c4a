package nwc

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxDialInterval = 5 * time.Second

// dialBackOff paces the dial attempts against a single relay: attempts tries
// in total, spaced exponentially from initial and capped at maxDialInterval.
// It stops as soon as ctx ends.
func dialBackOff(ctx context.Context, initial time.Duration, attempts int) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = initial
	exp.MaxInterval = maxDialInterval
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0

	retries := uint64(0)
	if attempts > 1 {
		retries = uint64(attempts - 1)
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, retries), ctx)
}
