// Package retry provides the bounded exponential backoff policy shared by
// the pipeline's external calls.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes bounded retries with exponential backoff. The first
// retry waits InitialInterval and each later wait is multiplied by
// Multiplier. MaxAttempts counts the initial try.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
}

// Default matches the search API's historical retry behavior: three
// attempts with 1s and 2s waits between them.
func Default() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: time.Second,
		Multiplier:      2,
	}
}

// Permanent marks err as non-retryable. Do stops immediately and returns
// the wrapped error.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op, retrying failures under the policy until the attempt budget
// is spent or ctx is done. notify, when non-nil, is called before each
// wait with the failure and the coming delay.
func (p Policy) Do(ctx context.Context, op func() error, notify func(err error, next time.Duration)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0 // bounded by attempts, not wall clock

	retries := p.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	wrapped := backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)

	if notify == nil {
		return backoff.Retry(op, wrapped)
	}
	return backoff.RetryNotify(op, wrapped, backoff.Notify(notify))
}
