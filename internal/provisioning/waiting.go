package provisioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/util/poll"
	"github.com/imamik/orgbaseline/internal/util/retry"
)

// PollOptions returns the poll options shared by every phase: the configured
// interval and attempt ceiling, the context's sleep function, and an attempt
// hook that records metrics and narrates waits.
func PollOptions[T any](ctx *Context, phase, operation string) []poll.Option[T] {
	return []poll.Option[T]{
		poll.WithInterval[T](ctx.Timeouts.PollInterval),
		poll.WithMaxAttempts[T](ctx.Timeouts.MaxPollAttempts),
		poll.WithSleep[T](ctx.Sleep),
		poll.WithOnAttempt(func(a poll.Attempt[T]) {
			ctx.Metrics.RecordPollAttempt(operation, a.Status.String())
			if a.Status != poll.Pending {
				return
			}
			if a.Err != nil {
				ctx.Observer.Printf("[%s] %s: transient error, retrying: %v", phase, operation, a.Err)
			}
			LogWaiting(ctx.Observer, phase, operation, a.Number, ctx.Timeouts.PollInterval)
		}),
	}
}

// RetryOptions returns the submission retry options: the configured interval
// and attempt ceiling, the context's sleep function, and a retry hook that
// records metrics and narrates the failure.
func RetryOptions(ctx *Context, phase, operation string) []retry.Option {
	return []retry.Option{
		retry.WithDelay(ctx.Timeouts.SubmitRetryInterval),
		retry.WithMaxAttempts(ctx.Timeouts.MaxSubmitAttempts),
		retry.WithSleep(ctx.Sleep),
		retry.WithOnRetry(func(attempt int, err error) {
			ctx.Metrics.RecordSubmitRetry(operation)
			ctx.Observer.Event(Event{
				Type:    EventResourceFailed,
				Phase:   phase,
				Message: fmt.Sprintf("%s failed, retrying in %v: %v", operation, ctx.Timeouts.SubmitRetryInterval, err),
				Fields: map[string]string{
					"attempt": fmt.Sprintf("%d", attempt),
				},
			})
		}),
	}
}

// RetryTransient calls fn, retrying throttling and other transient service
// errors with RetryOptions. A transient error that survives every attempt is
// wrapped in ErrTransient. Any other error is returned unchanged.
func RetryTransient[T any](ctx *Context, phase, operation string, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := retry.Do(ctx, func(c context.Context) error {
		var err error
		result, err = fn(c)
		if err != nil && !aws.IsTransient(err) {
			return retry.Fatal(err)
		}
		return err
	}, RetryOptions(ctx, phase, operation)...)

	var fatal *retry.FatalError
	if errors.As(err, &fatal) {
		return result, fatal.Err
	}
	if err != nil && aws.IsTransient(err) {
		return result, fmt.Errorf("%w: %s: %w", ErrTransient, operation, err)
	}
	return result, err
}
