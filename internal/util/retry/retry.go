// Package retry provides utilities for retrying operations at a fixed interval.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultDelay is the fixed wait between attempts.
const DefaultDelay = 10 * time.Second

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc. It returns ctx.Err() if the context ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Config holds retry configuration.
type Config struct {
	// MaxAttempts bounds the total number of attempts. Zero means unbounded.
	MaxAttempts int
	Delay       time.Duration
	Sleep       SleepFunc
	// OnRetry is called after a failed attempt, before sleeping.
	OnRetry func(attempt int, err error)
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// Do executes the operation, retrying after a fixed delay on any error that
// is not wrapped with Fatal(). Context cancellation is respected between attempts.
func Do(ctx context.Context, operation func(ctx context.Context) error, opts ...Option) error {
	cfg := &Config{
		Delay: DefaultDelay,
		Sleep: Sleep,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	for attempt := 1; ; attempt++ {
		err := operation(ctx)
		if err == nil {
			return nil
		}

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return fmt.Errorf("operation failed after %d attempts: %w", attempt, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}

		if err := cfg.Sleep(ctx, cfg.Delay); err != nil {
			return fmt.Errorf("context cancelled after %d attempts: %w", attempt, err)
		}
	}
}

// WithMaxAttempts sets the maximum number of attempts. Zero means unbounded.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithDelay sets the delay between attempts.
func WithDelay(d time.Duration) Option {
	return func(c *Config) {
		c.Delay = d
	}
}

// WithSleep replaces the sleep function, typically in tests.
func WithSleep(fn SleepFunc) Option {
	return func(c *Config) {
		if fn != nil {
			c.Sleep = fn
		}
	}
}

// WithOnRetry registers a callback invoked after each failed attempt that will be retried.
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(c *Config) {
		c.OnRetry = fn
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
// Operations that encounter fatal errors will not be retried.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
