// File: internal/provider/retry.go
// Purpose: Shared retry/backoff policy for all three protocol adapters
// Problem: Transient 5xx and network errors should retry; a 4xx is the caller's fault, not worth retrying
// Role: withRetry wraps a single HTTP-ish attempt with bounded exponential backoff
// Usage: err := withRetry(ctx, func() error { ... })
// Design choices: 3 attempts, doubling backoff starting at 250ms, grounded on the teacher's
//                 updater.go retry loop around GitHub release downloads

package provider

import (
	"context"
	"errors"
	"time"

	"github.com/rkinnovate/foreman/internal/foreman"
)

const (
	maxAttempts  = 3
	baseBackoff  = 250 * time.Millisecond
)

// retryableError marks an error as transient (network failure or 5xx).
// Adapters wrap errors this way to opt into withRetry's backoff loop.
type retryableError struct{ err error }

func (r retryableError) Error() string { return r.err.Error() }
func (r retryableError) Unwrap() error { return r.err }

func retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryableError{err: err}
}

func isRetryable(err error) bool {
	var re retryableError
	return errors.As(err, &re)
}

// withRetry calls attempt up to maxAttempts times, backing off
// exponentially between attempts, but only when attempt's error was
// wrapped with retryable(). A non-retryable error returns immediately.
func withRetry(ctx context.Context, attempt func() error) error {
	var lastErr error
	backoff := baseBackoff

	for i := 0; i < maxAttempts; i++ {
		lastErr = attempt()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return foreman.Wrap(foreman.KindTransport, "", lastErr)
		}
		if i == maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return foreman.Wrap(foreman.KindTransport, "", lastErr)
}
