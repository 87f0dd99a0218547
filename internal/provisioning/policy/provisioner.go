package policy

import (
	"context"
	"fmt"

	"github.com/imamik/orgbaseline/internal/config"
	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/policydoc"
	"github.com/imamik/orgbaseline/internal/provisioning"
)

const phase = "policy"

// listPageSize bounds each ListPolicies page.
const listPageSize int32 = 20

// Provisioner handles guardrail policy provisioning.
type Provisioner struct {
	document policydoc.Document
}

// NewProvisioner creates a policy provisioner for the given document.
func NewProvisioner(document policydoc.Document) *Provisioner {
	return &Provisioner{document: document}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	content, err := p.document.JSON()
	if err != nil {
		return err
	}

	name, description := config.DefaultPolicyName, config.DefaultPolicyDescription
	if ctx.Config != nil {
		name, description = ctx.Config.Policy.Name, ctx.Config.Policy.Description
	}

	_, _, err = p.EnsurePolicy(ctx, name, description, content, ctx.State.RootID)
	return err
}

// EnsurePolicy creates the named service control policy if needed, resolves
// its ID by name, and attaches it to rootID. Results are also written to
// ctx.State.
func (p *Provisioner) EnsurePolicy(ctx *provisioning.Context, name, description, content, rootID string) (policyID, policyARN string, err error) {
	p.create(ctx, aws.PolicyRequest{
		Name:        name,
		Description: description,
		Type:        aws.PolicyTypeServiceControl,
		Content:     content,
	})

	policy, err := p.findByName(ctx, name)
	if err != nil {
		return "", "", err
	}
	ctx.State.PolicyID = policy.ID
	ctx.State.PolicyARN = policy.ARN
	ctx.Observer.Printf("[%s] Using policy %s (%s)", phase, policy.ID, policy.ARN)

	p.attach(ctx, policy.ID, rootID)

	return policy.ID, policy.ARN, nil
}

// create submits CreatePolicy. Every failure is narrated and tolerated.
func (p *Provisioner) create(ctx *provisioning.Context, req aws.PolicyRequest) {
	const resource = "service control policy"

	provisioning.LogResourceCreating(ctx.Observer, phase, resource, req.Name)
	policy, err := ctx.Orgs.CreatePolicy(ctx, req)
	if err == nil {
		provisioning.LogResourceCreated(ctx.Observer, phase, resource, req.Name, policy.ID)
		return
	}

	switch createFailureAction(err) {
	case actionAdopt:
		provisioning.LogResourceExists(ctx.Observer, phase, resource, req.Name, "")
	default:
		provisioning.LogResourceFailed(ctx.Observer, phase, resource, req.Name, err)
	}
}

// findByName walks every page of service control policies and returns the
// first whose name matches exactly.
func (p *Provisioner) findByName(ctx *provisioning.Context, name string) (aws.Policy, error) {
	policies, err := provisioning.RetryTransient(ctx, phase, "list policies", func(c context.Context) ([]aws.Policy, error) {
		return ctx.Orgs.ListPolicies(c, aws.PolicyTypeServiceControl, listPageSize)
	})
	if err != nil {
		return aws.Policy{}, fmt.Errorf("failed to list policies: %w", err)
	}

	for _, policy := range policies {
		if policy.Name == name {
			return policy, nil
		}
	}
	return aws.Policy{}, fmt.Errorf("%w: no service control policy named %q among %d policies", provisioning.ErrReconciliation, name, len(policies))
}

// attach attaches the policy to the root. Every failure is narrated and tolerated.
func (p *Provisioner) attach(ctx *provisioning.Context, policyID, rootID string) {
	const resource = "policy attachment"

	provisioning.LogResourceCreating(ctx.Observer, phase, resource, rootID)
	err := ctx.Orgs.AttachPolicy(ctx, policyID, rootID)
	if err == nil {
		provisioning.LogResourceCreated(ctx.Observer, phase, resource, rootID, policyID)
		return
	}

	switch attachFailureAction(err) {
	case actionAdopt:
		provisioning.LogResourceExists(ctx.Observer, phase, resource, rootID, policyID)
	default:
		provisioning.LogResourceFailed(ctx.Observer, phase, resource, rootID, err)
	}
}
