package dukeapi

import (
	"context"
	"crypto/rand"
	"errors"
	"math"
	"math/big"
	"time"
)

// permanentError marks an error that must not be retried (4xx responses,
// malformed requests). retryWithBackoff unwraps it before returning.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}

// retryWithBackoff retries fn with full-jitter exponential backoff.
// Stops immediately on a permanentError or context cancellation.
//
// maxRetries: maximum number of retry attempts (0 = no retry, just try once)
//
// Backoff formula: delay = random(0, min(maxDelay, initialDelay * 2^attempt))
func retryWithBackoff(ctx context.Context, maxRetries int, initialDelay, maxDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var permErr *permanentError
		if errors.As(err, &permErr) {
			return permErr.Unwrap()
		}

		// Don't delay after the last attempt
		if attempt == maxRetries {
			break
		}

		ceiling := time.Duration(float64(initialDelay) * math.Pow(2, float64(attempt)))
		if ceiling > maxDelay {
			ceiling = maxDelay
		}
		if ceiling <= 0 {
			ceiling = time.Millisecond
		}

		// Full jitter: uniform random in [0, ceiling)
		jitterBig, randErr := rand.Int(rand.Reader, big.NewInt(int64(ceiling)))
		if randErr != nil {
			// Fallback to the full ceiling on crypto failure (extremely rare)
			jitterBig = big.NewInt(int64(ceiling))
		}
		delay := time.Duration(jitterBig.Int64())

		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Unwrap a permanent marker that slipped through on the final attempt
	var permErr *permanentError
	if errors.As(lastErr, &permErr) {
		return permErr.Unwrap()
	}
	return lastErr
}
