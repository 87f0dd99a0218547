package organization

import (
	"fmt"

	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/provisioning"
	"github.com/imamik/orgbaseline/internal/util/poll"
)

const phase = "organization"

// Provisioner handles organization provisioning.
type Provisioner struct{}

// NewProvisioner creates a new organization provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	featureSet := aws.FeatureSetAll
	if ctx.Config != nil && ctx.Config.FeatureSet != "" {
		featureSet = aws.FeatureSet(ctx.Config.FeatureSet)
	}

	_, _, err := p.EnsureOrganization(ctx, featureSet)
	return err
}

// EnsureOrganization creates the organization or adopts the existing one,
// and returns its ID and the ID of its first root. Results are also written
// to ctx.State.
func (p *Provisioner) EnsureOrganization(ctx *provisioning.Context, featureSet aws.FeatureSet) (orgID, rootID string, err error) {
	created := p.create(ctx, featureSet)

	org, err := p.waitForOrganization(ctx, created)
	if err != nil {
		return "", "", err
	}
	ctx.State.OrganizationID = org.ID
	ctx.State.FeatureSet = org.FeatureSet

	if org.FeatureSet == aws.FeatureSetConsolidatedBilling {
		provisioning.LogWarning(ctx.Observer, phase,
			fmt.Sprintf("organization %s uses feature set %s; service control policies require %s",
				org.ID, aws.FeatureSetConsolidatedBilling, aws.FeatureSetAll))
	}

	root, err := p.firstRoot(ctx, org.ID)
	if err != nil {
		return org.ID, "", err
	}
	ctx.State.RootID = root.ID

	p.enableServiceControlPolicies(ctx, root)

	if err := ctx.Wait(ctx.Timeouts.SettleTime); err != nil {
		return org.ID, root.ID, fmt.Errorf("interrupted while waiting for policy type to settle: %w", err)
	}

	return org.ID, root.ID, nil
}

// create submits CreateOrganization and narrates the outcome. It reports
// whether the organization was newly created.
func (p *Provisioner) create(ctx *provisioning.Context, featureSet aws.FeatureSet) bool {
	provisioning.LogResourceCreating(ctx.Observer, phase, "organization", string(featureSet))

	org, err := ctx.Orgs.CreateOrganization(ctx, featureSet)
	if err == nil {
		provisioning.LogResourceCreated(ctx.Observer, phase, "organization", string(featureSet), org.ID)
		return true
	}

	switch createFailureAction(err) {
	case actionAdopt:
		provisioning.LogResourceExists(ctx.Observer, phase, "organization", "", "")
		ctx.Observer.Printf("[%s] Adopting existing organization", phase)
	default:
		provisioning.LogResourceFailed(ctx.Observer, phase, "organization", string(featureSet), err)
	}
	return false
}

// waitForOrganization describes the organization until it reports an ID.
func (p *Provisioner) waitForOrganization(ctx *provisioning.Context, created bool) (*aws.Organization, error) {
	retryable := aws.IsTransient
	if created {
		// A new organization can briefly describe as not in use.
		retryable = func(err error) bool {
			return aws.IsTransient(err) || aws.IsOrganizationNotInUse(err)
		}
	}

	opts := append(provisioning.PollOptions[*aws.Organization](ctx, phase, "describe organization"),
		poll.WithRetryable[*aws.Organization](retryable))

	org, err := poll.Until(ctx, poll.Operation[*aws.Organization]{
		Name:     "describe organization",
		Poll:     ctx.Orgs.DescribeOrganization,
		Classify: classifyOrganization,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to describe organization: %w", err)
	}

	ctx.Observer.Printf("[%s] Organization %s is available (feature set %s)", phase, org.ID, org.FeatureSet)
	return org, nil
}

// firstRoot returns the first root of the organization.
func (p *Provisioner) firstRoot(ctx *provisioning.Context, orgID string) (aws.Root, error) {
	roots, err := provisioning.RetryTransient(ctx, phase, "list roots", ctx.Orgs.ListRoots)
	if err != nil {
		return aws.Root{}, fmt.Errorf("failed to list roots: %w", err)
	}
	if len(roots) == 0 {
		return aws.Root{}, fmt.Errorf("%w: organization %s has no root", provisioning.ErrPreconditionViolation, orgID)
	}
	ctx.Observer.Printf("[%s] Using root %s", phase, roots[0].ID)
	return roots[0], nil
}

// enableServiceControlPolicies enables the SCP policy type on the root.
// Failures are narrated and swallowed.
func (p *Provisioner) enableServiceControlPolicies(ctx *provisioning.Context, root aws.Root) {
	const resource = "service control policy type"

	if root.HasPolicyType(aws.PolicyTypeServiceControl) {
		provisioning.LogResourceExists(ctx.Observer, phase, resource, root.ID, "")
		return
	}

	provisioning.LogResourceCreating(ctx.Observer, phase, resource, root.ID)
	err := ctx.Orgs.EnablePolicyType(ctx, root.ID, aws.PolicyTypeServiceControl)
	if err == nil {
		provisioning.LogResourceCreated(ctx.Observer, phase, resource, root.ID, aws.PolicyTypeServiceControl)
		return
	}

	switch enableFailureAction(err) {
	case actionAdopt:
		provisioning.LogResourceExists(ctx.Observer, phase, resource, root.ID, "")
	default:
		provisioning.LogResourceFailed(ctx.Observer, phase, resource, root.ID, err)
	}
}

// classifyOrganization succeeds once the organization reports an ID.
func classifyOrganization(org *aws.Organization) poll.Status {
	if org != nil && org.ID != "" {
		return poll.Succeeded
	}
	return poll.Pending
}
