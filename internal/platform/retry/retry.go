// Package retry implements a small fixed-delay retry policy used around
// connection establishment for slow-starting collaborators.
package retry

import (
	"context"
	"time"
)

// Policy retries an operation a bounded number of times with a fixed delay
// between attempts. Retryable decides whether a given failure is worth
// another attempt; a nil predicate retries every error.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

// Do runs op until it succeeds, a non-retryable error occurs, the attempt
// budget is exhausted, or the context is cancelled. The last error is
// returned on failure.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay):
		}
	}
	return err
}
