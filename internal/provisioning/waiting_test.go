package provisioning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/imamik/orgbaseline/internal/util/poll"
	"github.com/imamik/orgbaseline/internal/util/retry"

	"github.com/aws/smithy-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingSleep(slept *[]time.Duration) retry.SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestPollOptions(t *testing.T) {
	t.Parallel()
	ctx, observer := newTestContext()
	var slept []time.Duration
	ctx.Sleep = recordingSleep(&slept)
	ctx.Timeouts.PollInterval = 7 * time.Second

	observations := []string{"", "", "o-abc"}
	calls := 0
	got, err := poll.Until(ctx, poll.Operation[string]{
		Name: "describe organization",
		Poll: func(context.Context) (string, error) {
			obs := observations[calls]
			calls++
			return obs, nil
		},
		Classify: func(id string) poll.Status {
			if id == "" {
				return poll.Pending
			}
			return poll.Succeeded
		},
	}, PollOptions[string](ctx, "organization", "describe organization")...)

	require.NoError(t, err)
	assert.Equal(t, "o-abc", got)
	assert.Equal(t, []time.Duration{7 * time.Second, 7 * time.Second}, slept)
	assert.Equal(t, 2.0, testutil.ToFloat64(ctx.Metrics.pollAttempts.WithLabelValues("describe organization", "pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ctx.Metrics.pollAttempts.WithLabelValues("describe organization", "succeeded")))
	assert.Equal(t, []EventType{EventWaiting, EventWaiting}, observer.eventTypes())
}

func TestPollOptions_MaxAttempts(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext()
	var slept []time.Duration
	ctx.Sleep = recordingSleep(&slept)
	ctx.Timeouts.MaxPollAttempts = 3

	_, err := poll.Until(ctx, poll.Operation[string]{
		Name:     "describe organization",
		Poll:     func(context.Context) (string, error) { return "", nil },
		Classify: func(string) poll.Status { return poll.Pending },
	}, PollOptions[string](ctx, "organization", "describe organization")...)

	require.Error(t, err)
	assert.ErrorIs(t, err, poll.ErrMaxAttempts)
	assert.Len(t, slept, 2)
}

func TestRetryOptions(t *testing.T) {
	t.Parallel()
	ctx, observer := newTestContext()
	var slept []time.Duration
	ctx.Sleep = recordingSleep(&slept)
	ctx.Timeouts.SubmitRetryInterval = 10 * time.Second

	attempts := 0
	err := retry.Do(ctx, func(context.Context) error {
		attempts++
		if attempts < 4 {
			return errors.New("throttled")
		}
		return nil
	}, RetryOptions(ctx, "stack", "create stack")...)

	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second, 10 * time.Second}, slept)
	assert.Equal(t, 3.0, testutil.ToFloat64(ctx.Metrics.submitRetries.WithLabelValues("create stack")))
	assert.Len(t, observer.eventTypes(), 3)
}

func TestRetryTransient(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext()
	var slept []time.Duration
	ctx.Sleep = recordingSleep(&slept)

	throttled := &smithy.GenericAPIError{Code: "TooManyRequestsException", Message: "slow down"}
	calls := 0
	got, err := RetryTransient(ctx, "organization", "list roots", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", throttled
		}
		return "r-abc1", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "r-abc1", got)
	assert.Len(t, slept, 2)
}

func TestRetryTransient_ExhaustedIsTransient(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext()
	var slept []time.Duration
	ctx.Sleep = recordingSleep(&slept)
	ctx.Timeouts.MaxSubmitAttempts = 3

	throttled := &smithy.GenericAPIError{Code: "ThrottlingException", Message: "rate exceeded"}
	calls := 0
	_, err := RetryTransient(ctx, "policy", "list policies", func(context.Context) ([]string, error) {
		calls++
		return nil, throttled
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, throttled)
	assert.NotErrorIs(t, err, ErrTerminalFailure)
	assert.Contains(t, err.Error(), "list policies")
}

func TestRetryTransient_OtherErrorsReturnUnchanged(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext()
	denied := &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "denied"}

	calls := 0
	_, err := RetryTransient(ctx, "organization", "list roots", func(context.Context) (string, error) {
		calls++
		return "", denied
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Same(t, denied, err)
}
