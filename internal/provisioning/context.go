package provisioning

import (
	"context"
	"time"

	"github.com/imamik/orgbaseline/internal/config"
	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/util/retry"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Orgs     aws.OrganizationManager
	Stacks   aws.StackManager
	Identity aws.IdentityResolver
	Observer Observer
	Metrics  *Metrics
	Timeouts config.Timeouts

	// Sleep is used for every poll, retry and settle wait.
	Sleep retry.SleepFunc
}

// NewContext creates a new provisioning context with a console observer,
// fresh metrics and the real sleep function.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	orgs aws.OrganizationManager,
	stacks aws.StackManager,
) *Context {
	timeouts := config.DefaultTimeouts()
	if cfg != nil {
		timeouts = cfg.Timeouts
	}
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Orgs:     orgs,
		Stacks:   stacks,
		Observer: NewConsoleObserver(),
		Metrics:  NewMetrics(),
		Timeouts: timeouts,
		Sleep:    retry.Sleep,
	}
}

// Wait blocks for d using the context's sleep function.
func (c *Context) Wait(d time.Duration) error {
	return c.Sleep(c.Context, d)
}
