package provisioning

import (
	"context"
	"testing"
	"time"

	"github.com/imamik/orgbaseline/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Timeouts.PollInterval = 3 * time.Second

	ctx := NewContext(context.Background(), cfg, nil, nil)

	require.NotNil(t, ctx)
	assert.Equal(t, cfg, ctx.Config)
	assert.NotNil(t, ctx.State)
	assert.NotNil(t, ctx.Observer)
	assert.NotNil(t, ctx.Metrics)
	assert.NotNil(t, ctx.Sleep)
	assert.Equal(t, 3*time.Second, ctx.Timeouts.PollInterval)
}

func TestNewContext_NilConfigUsesDefaultTimeouts(t *testing.T) {
	t.Parallel()
	ctx := NewContext(context.Background(), nil, nil, nil)

	assert.Equal(t, config.DefaultTimeouts(), ctx.Timeouts)
}

func TestContext_Wait(t *testing.T) {
	t.Parallel()
	ctx := NewContext(context.Background(), nil, nil, nil)

	var slept []time.Duration
	ctx.Sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	require.NoError(t, ctx.Wait(10*time.Second))
	assert.Equal(t, []time.Duration{10 * time.Second}, slept)
}

func TestContext_WaitCancelled(t *testing.T) {
	t.Parallel()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := NewContext(cancelled, nil, nil, nil)

	err := ctx.Wait(time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
}
