package utils

import (
	"context"
	"errors"
	"time"
)

// BackoffFunc returns the wait after the given failed attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// LinearBackoff waits base*attempt.
func LinearBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration { return base * time.Duration(attempt) }
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err so WithRetry returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// RetryHook is called after every failed attempt that will be retried.
type RetryHook func(attempt int, wait time.Duration, err error)

// WithRetry runs op up to maxAttempts times. It stops early on success, on a
// Permanent error (returned unwrapped), or when ctx is done while waiting.
// The last error is returned when attempts run out.
func WithRetry(ctx context.Context, maxAttempts int, backoff BackoffFunc, onRetry RetryHook, op func(attempt int) error) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = op(attempt)
		if err == nil {
			return nil
		}
		var p *permanentError
		if errors.As(err, &p) {
			return p.err
		}
		if attempt == maxAttempts {
			break
		}

		var wait time.Duration
		if backoff != nil {
			wait = backoff(attempt)
		}
		if onRetry != nil {
			onRetry(attempt, wait, err)
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}
