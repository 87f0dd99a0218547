package stack

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/provisioning"
	"github.com/imamik/orgbaseline/internal/util/poll"
	"github.com/imamik/orgbaseline/internal/util/retry"
)

const phase = "stack"

// Template parameters set by the run.
const (
	ParamOrgAdminPassword     = "OrgAdminPassword"
	ParamPartnerAdminPassword = "PartnerAdminPassword"
	ParamProtectedSCPArn      = "ProtectedSCPArn"
)

// Tags applied to the stack.
const (
	TagManagedResource = "ManagedResource"
	TagDeployDate      = "DeployDate"

	deployDateLayout = "02/01/2006"
)

// Provisioner handles stack provisioning.
type Provisioner struct {
	templateBody string
	now          func() time.Time
	newToken     func() string
}

// NewProvisioner creates a stack provisioner for the given template body.
func NewProvisioner(templateBody string) *Provisioner {
	return &Provisioner{
		templateBody: templateBody,
		now:          time.Now,
		newToken:     uuid.NewString,
	}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	if cfg == nil {
		return fmt.Errorf("%w: stack configuration is required", provisioning.ErrPreconditionViolation)
	}

	parameters := maps.Clone(cfg.Stack.Parameters)
	if parameters == nil {
		parameters = make(map[string]string)
	}
	parameters[ParamOrgAdminPassword] = cfg.Credentials.OrgAdminPassword
	parameters[ParamPartnerAdminPassword] = cfg.Credentials.PartnerAdminPassword
	parameters[ParamProtectedSCPArn] = ctx.State.PolicyARN

	_, err := p.DeployStack(ctx, p.templateBody, cfg.Stack.Name, cfg.Stack.Region, parameters)
	return err
}

// DeployStack submits the stack, waits for it to finish, and returns its
// description. The result is also written to ctx.State.
func (p *Provisioner) DeployStack(ctx *provisioning.Context, templateBody, stackName, region string, parameters map[string]string) (*aws.Stack, error) {
	if len(templateBody) > aws.MaxTemplateBodySize {
		return nil, fmt.Errorf("%w: template body is %d bytes, the limit is %d",
			provisioning.ErrTerminalFailure, len(templateBody), aws.MaxTemplateBodySize)
	}
	ctx.State.StackName = stackName

	req := aws.StackRequest{
		Name:         stackName,
		TemplateBody: templateBody,
		Parameters:   parameters,
		Capabilities: []string{aws.CapabilityNamedIAM},
		OnFailure:    aws.OnFailureRollback,
		Tags: map[string]string{
			TagManagedResource: "True",
			TagDeployDate:      p.now().Format(deployDateLayout),
		},
		ClientRequestToken: p.newToken(),
	}

	ctx.Observer.Printf("[%s] Creating stack %s in %s", phase, stackName, region)
	stackID, err := p.submit(ctx, req)
	if err != nil {
		return nil, err
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "stack", stackName, stackID)

	if err := p.waitForCompletion(ctx, stackName); err != nil {
		return nil, err
	}

	stack, err := provisioning.RetryTransient(ctx, phase, "describe stack", func(c context.Context) (*aws.Stack, error) {
		return ctx.Stacks.DescribeStack(c, stackName)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe stack: %w", err)
	}
	ctx.State.Stack = stack
	return stack, nil
}

// submit calls CreateStack until it is accepted. The request, including its
// client request token, is identical on every attempt.
func (p *Provisioner) submit(ctx *provisioning.Context, req aws.StackRequest) (string, error) {
	provisioning.LogResourceCreating(ctx.Observer, phase, "stack", req.Name)

	var stackID string
	err := retry.Do(ctx, func(c context.Context) error {
		id, err := ctx.Stacks.CreateStack(c, req)
		if err != nil {
			if submitFailureAction(err) == actionAbort {
				return retry.Fatal(fmt.Errorf("%w: %s: %w", provisioning.ErrStackAlreadyExists, req.Name, err))
			}
			return err
		}
		stackID = id
		return nil
	}, provisioning.RetryOptions(ctx, phase, "create stack")...)

	var fatal *retry.FatalError
	if errors.As(err, &fatal) {
		return "", fatal.Err
	}
	if err != nil {
		return "", fmt.Errorf("failed to create stack: %w", err)
	}
	return stackID, nil
}

// waitForCompletion polls the stack events until the stack reaches a
// terminal state.
func (p *Provisioner) waitForCompletion(ctx *provisioning.Context, stackName string) error {
	ctx.Observer.Printf("[%s] Stack creation in process...", phase)
	narrator := newEventNarrator(ctx.Observer)

	opts := append(provisioning.PollOptions[[]aws.StackEvent](ctx, phase, "stack events"),
		poll.WithRetryable[[]aws.StackEvent](aws.IsTransient))

	events, err := poll.Until(ctx, poll.Operation[[]aws.StackEvent]{
		Name: "stack events",
		Poll: func(c context.Context) ([]aws.StackEvent, error) {
			events, err := ctx.Stacks.DescribeStackEvents(c, stackName)
			if err == nil {
				narrator.narrate(events)
			}
			return events, err
		},
		Classify: classifyEvents,
	}, opts...)

	if errors.Is(err, poll.ErrWorkflowFailed) {
		status := ""
		if len(events) > 0 {
			status = events[0].ResourceStatus
		}
		if reason := narrator.firstFailure(); reason != "" {
			return fmt.Errorf("%w: stack %s finished in %s (first failure: %s): %w",
				provisioning.ErrTerminalFailure, stackName, status, reason, err)
		}
		return fmt.Errorf("%w: stack %s finished in %s: %w", provisioning.ErrTerminalFailure, stackName, status, err)
	}
	if err != nil {
		return fmt.Errorf("failed to wait for stack %s: %w", stackName, err)
	}

	ctx.Observer.Printf("[%s] Stack construction complete.", phase)
	return nil
}
