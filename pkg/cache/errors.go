package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports a remote cache backend that cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// RetryableError marks a transient failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable marks err as transient. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or an error it wraps, is a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryPolicy bounds how often a cache operation is attempted.
type RetryPolicy struct {
	Attempts int           // total attempts, at least 1
	Delay    time.Duration // wait before the second attempt, doubled after each
}

// DefaultRetry makes three attempts, 100ms then 200ms apart. Lookups sit on
// the request path, so it gives up quickly.
var DefaultRetry = RetryPolicy{Attempts: 3, Delay: 100 * time.Millisecond}

// Do calls fn until it succeeds, fails with an error not marked
// [Retryable], or the attempts run out. Cancelling ctx aborts the wait
// between attempts and returns ctx.Err().
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
