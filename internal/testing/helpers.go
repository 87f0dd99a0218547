package testing

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NoSleep returns immediately unless the context is already done.
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// SleepRecorder is a sleep function that records requested durations without waiting.
type SleepRecorder struct {
	mu    sync.Mutex
	slept []time.Duration
}

// Sleep records d and returns immediately unless the context is already done.
func (r *SleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.slept = append(r.slept, d)
	r.mu.Unlock()
	return ctx.Err()
}

// Durations returns the recorded durations in call order.
func (r *SleepRecorder) Durations() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.slept...)
}

// Count returns the number of recorded sleeps.
func (r *SleepRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slept)
}
