package utils

import (
	"context"
	"time"
)

// Backoff retries a function with exponential delays. Used while waiting for
// the database to accept connections at startup.
type Backoff struct {
	base       time.Duration
	maxRetries int
}

func NewBackoff(base time.Duration, maxRetries int) Backoff {
	return Backoff{base: base, maxRetries: maxRetries}
}

// Do runs fn until it succeeds, the retries are exhausted, or ctx is done.
func (b Backoff) Do(ctx context.Context, fn func(i int) error) error {
	var err error
	for i := 0; i <= b.maxRetries; i++ {
		err = fn(i)
		if err == nil {
			return nil
		}
		if i == b.maxRetries {
			break
		}
		t := time.Duration(1<<i) * b.base
		select {
		case <-time.After(t):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
