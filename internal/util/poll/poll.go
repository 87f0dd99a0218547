package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/orgbaseline/internal/util/retry"
)

// DefaultInterval is the fixed wait between polls.
const DefaultInterval = 10 * time.Second

// Status classifies an observation.
type Status int

const (
	// Pending means the operation has not reached a terminal state.
	Pending Status = iota
	// Succeeded is a terminal success.
	Succeeded
	// Failed is a terminal failure.
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ErrWorkflowFailed is matched by every FailedError.
var ErrWorkflowFailed = errors.New("workflow failed")

// FailedError reports a terminal failure classification.
// Observation holds the last observation for diagnostics.
type FailedError struct {
	Operation   string
	Attempts    int
	Observation any
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%s reached a failed state after %d attempts", e.Operation, e.Attempts)
}

// Is reports whether target is ErrWorkflowFailed.
func (e *FailedError) Is(target error) bool {
	return target == ErrWorkflowFailed
}

// Operation describes a start-then-poll lifecycle.
type Operation[T any] struct {
	// Name identifies the operation in errors and attempt reports.
	Name string
	// Start produces the initial observation. If nil, Poll is used.
	Start func(ctx context.Context) (T, error)
	// Poll produces a fresh observation.
	Poll func(ctx context.Context) (T, error)
	// Classify maps an observation to a Status. It must not block.
	Classify func(T) Status
}

// Attempt is reported to the OnAttempt hook after every classification.
type Attempt[T any] struct {
	Number      int
	Status      Status
	Observation T
	Err         error
}

// Config holds poll configuration.
type Config[T any] struct {
	Interval time.Duration
	// MaxAttempts bounds the number of observations. Zero means unbounded.
	MaxAttempts int
	Sleep       retry.SleepFunc
	// Retryable reports whether an error from Start or Poll should be treated
	// as a pending observation instead of aborting.
	Retryable func(error) bool
	OnAttempt func(Attempt[T])
}

// Option is a functional option for poll configuration.
type Option[T any] func(*Config[T])

// ErrMaxAttempts is returned when the attempt ceiling is reached while pending.
var ErrMaxAttempts = errors.New("maximum poll attempts reached")

// Until runs op to a terminal state and returns the final observation on success.
// A Failed classification returns a *FailedError.
func Until[T any](ctx context.Context, op Operation[T], opts ...Option[T]) (T, error) {
	cfg := &Config[T]{
		Interval: DefaultInterval,
		Sleep:    retry.Sleep,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var zero T
	observe := op.Start
	if observe == nil {
		observe = op.Poll
	}

	for attempt := 1; ; attempt++ {
		obs, err := observe(ctx)
		observe = op.Poll

		status := Pending
		if err != nil {
			if cfg.Retryable == nil || !cfg.Retryable(err) {
				return zero, fmt.Errorf("%s: %w", op.Name, err)
			}
		} else {
			status = op.Classify(obs)
		}

		if cfg.OnAttempt != nil {
			cfg.OnAttempt(Attempt[T]{Number: attempt, Status: status, Observation: obs, Err: err})
		}

		switch status {
		case Succeeded:
			return obs, nil
		case Failed:
			return obs, &FailedError{Operation: op.Name, Attempts: attempt, Observation: obs}
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return zero, fmt.Errorf("%s: %w (%d)", op.Name, ErrMaxAttempts, attempt)
		}

		if err := cfg.Sleep(ctx, cfg.Interval); err != nil {
			return zero, fmt.Errorf("%s: cancelled after %d attempts: %w", op.Name, attempt, err)
		}
	}
}

// WithInterval sets the fixed interval between polls.
func WithInterval[T any](d time.Duration) Option[T] {
	return func(c *Config[T]) {
		c.Interval = d
	}
}

// WithMaxAttempts sets an attempt ceiling. Zero means unbounded.
func WithMaxAttempts[T any](n int) Option[T] {
	return func(c *Config[T]) {
		c.MaxAttempts = n
	}
}

// WithSleep replaces the sleep function, typically in tests.
func WithSleep[T any](fn retry.SleepFunc) Option[T] {
	return func(c *Config[T]) {
		if fn != nil {
			c.Sleep = fn
		}
	}
}

// WithRetryable sets the predicate for errors that count as pending.
func WithRetryable[T any](fn func(error) bool) Option[T] {
	return func(c *Config[T]) {
		c.Retryable = fn
	}
}

// WithOnAttempt registers a hook called after each observation.
func WithOnAttempt[T any](fn func(Attempt[T])) Option[T] {
	return func(c *Config[T]) {
		c.OnAttempt = fn
	}
}
