package retry

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"time"
)

// ErrQuotaExceeded is returned when a rate-limited call is still failing
// after all retry attempts have been used.
var ErrQuotaExceeded = errors.New("quota exceeded: the API rate limit was hit repeatedly, please wait a moment and try again")

const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = 1 * time.Second

	maxJitter = 500 * time.Millisecond
)

type Options struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// DefaultOptions returns the standard retry policy for provider calls.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
	}
}

// IsRateLimit reports whether err looks like a rate-limit/quota error from
// the provider. Provider errors carry the HTTP status in their text, so the
// classification is substring-based.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "status 429") ||
		strings.Contains(msg, "status: 429") ||
		strings.Contains(msg, "quota exceeded")
}

// Do executes op, retrying rate-limited failures with exponential backoff
// plus jitter. Non-rate-limit errors propagate unchanged and immediately.
// Exhausting all attempts on a rate-limit error yields ErrQuotaExceeded.
func Do(ctx context.Context, name string, op func() error, opts Options) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultInitialDelay
	}

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !IsRateLimit(err) {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return ErrQuotaExceeded
		}

		delay := opts.InitialDelay<<(attempt-1) + time.Duration(rand.Int63n(int64(maxJitter)))
		log.Printf("%s: rate limited (attempt %d/%d), retrying in %v", name, attempt, opts.MaxAttempts, delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Value is Do for operations that return a result.
func Value[T any](ctx context.Context, name string, op func() (T, error), opts Options) (T, error) {
	var result T
	err := Do(ctx, name, func() error {
		var err error
		result, err = op()
		return err
	}, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
