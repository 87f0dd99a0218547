package testing

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/imamik/orgbaseline/internal/platform/aws"
)

// Fixture identifiers.
const (
	FixtureAccountID      = "123456789012"
	FixtureOrganizationID = "o-abc"
	FixtureRootID         = "r-abc1"
	FixtureStackRegion    = "us-east-1"
)

// maskedValue is what the service returns for NoEcho parameters.
const maskedValue = "****"

// FakeCloud is an in-memory Organizations and CloudFormation service.
// It implements aws.OrganizationManager and aws.StackManager. Any *Func
// field overrides the corresponding method.
type FakeCloud struct {
	mu sync.Mutex

	Organization *aws.Organization
	Roots        []aws.Root
	Policies     []aws.Policy
	Attachments  map[string][]string
	Stacks       map[string]*aws.Stack

	// StackEvents is returned by successive DescribeStackEvents calls, most
	// recent event first. The last entry repeats once the script is exhausted.
	// An empty script completes the stack on the first poll.
	StackEvents [][]aws.StackEvent

	// NoEchoParameters are masked by DescribeStack.
	NoEchoParameters []string

	// Calls records every method invocation in order.
	Calls []string

	CreateOrganizationFunc  func(ctx context.Context, featureSet aws.FeatureSet) (*aws.Organization, error)
	EnablePolicyTypeFunc    func(ctx context.Context, rootID, policyType string) error
	CreatePolicyFunc        func(ctx context.Context, req aws.PolicyRequest) (*aws.Policy, error)
	AttachPolicyFunc        func(ctx context.Context, policyID, targetID string) error
	CreateStackFunc         func(ctx context.Context, req aws.StackRequest) (string, error)
	DescribeStackEventsFunc func(ctx context.Context, stackName string) ([]aws.StackEvent, error)

	eventCalls int
}

// NewFakeCloud returns a fake account that is not yet in an organization.
func NewFakeCloud() *FakeCloud {
	return &FakeCloud{
		Attachments:      make(map[string][]string),
		Stacks:           make(map[string]*aws.Stack),
		NoEchoParameters: []string{"OrgAdminPassword", "PartnerAdminPassword"},
	}
}

func (f *FakeCloud) record(call string) {
	f.Calls = append(f.Calls, call)
}

// CallCount returns how many times the named method was invoked.
func (f *FakeCloud) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == method {
			n++
		}
	}
	return n
}

// CreateOrganization implements aws.OrganizationManager.
func (f *FakeCloud) CreateOrganization(ctx context.Context, featureSet aws.FeatureSet) (*aws.Organization, error) {
	f.mu.Lock()
	f.record("CreateOrganization")
	override := f.CreateOrganizationFunc
	f.mu.Unlock()
	if override != nil {
		return override(ctx, featureSet)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Organization != nil {
		return nil, &orgtypes.AlreadyInOrganizationException{
			Message: sdkaws.String("The AWS account is already a member of an organization."),
		}
	}
	f.Organization = &aws.Organization{
		ID:              FixtureOrganizationID,
		ARN:             fmt.Sprintf("arn:aws:organizations::%s:organization/%s", FixtureAccountID, FixtureOrganizationID),
		FeatureSet:      featureSet,
		MasterAccountID: FixtureAccountID,
	}
	f.Roots = []aws.Root{{
		ID:   FixtureRootID,
		ARN:  fmt.Sprintf("arn:aws:organizations::%s:root/%s/%s", FixtureAccountID, FixtureOrganizationID, FixtureRootID),
		Name: "Root",
	}}
	org := *f.Organization
	return &org, nil
}

// DescribeOrganization implements aws.OrganizationManager.
func (f *FakeCloud) DescribeOrganization(_ context.Context) (*aws.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DescribeOrganization")
	if f.Organization == nil {
		return nil, &orgtypes.AWSOrganizationsNotInUseException{
			Message: sdkaws.String("Your account is not a member of an organization."),
		}
	}
	org := *f.Organization
	return &org, nil
}

// ListRoots implements aws.OrganizationManager.
func (f *FakeCloud) ListRoots(_ context.Context) ([]aws.Root, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListRoots")
	roots := make([]aws.Root, len(f.Roots))
	copy(roots, f.Roots)
	return roots, nil
}

// EnablePolicyType implements aws.OrganizationManager.
func (f *FakeCloud) EnablePolicyType(ctx context.Context, rootID, policyType string) error {
	f.mu.Lock()
	f.record("EnablePolicyType")
	override := f.EnablePolicyTypeFunc
	f.mu.Unlock()
	if override != nil {
		return override(ctx, rootID, policyType)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Roots {
		if f.Roots[i].ID != rootID {
			continue
		}
		if f.Roots[i].HasPolicyType(policyType) {
			return &orgtypes.PolicyTypeAlreadyEnabledException{
				Message: sdkaws.String("The specified policy type is already enabled."),
			}
		}
		f.Roots[i].EnabledPolicyTypes = append(f.Roots[i].EnabledPolicyTypes, policyType)
		return nil
	}
	return &orgtypes.RootNotFoundException{Message: sdkaws.String("root not found")}
}

// CreatePolicy implements aws.OrganizationManager.
func (f *FakeCloud) CreatePolicy(ctx context.Context, req aws.PolicyRequest) (*aws.Policy, error) {
	f.mu.Lock()
	f.record("CreatePolicy")
	override := f.CreatePolicyFunc
	f.mu.Unlock()
	if override != nil {
		return override(ctx, req)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Policies {
		if p.Name == req.Name {
			return nil, &orgtypes.DuplicatePolicyException{
				Message: sdkaws.String("A policy with the same name already exists."),
			}
		}
	}
	policy := f.addPolicy(req.Name, req.Description, req.Type)
	return &policy, nil
}

// AddPolicy seeds an existing customer-managed SCP and returns it.
func (f *FakeCloud) AddPolicy(name, description string) aws.Policy {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addPolicy(name, description, aws.PolicyTypeServiceControl)
}

func (f *FakeCloud) addPolicy(name, description, policyType string) aws.Policy {
	id := fmt.Sprintf("p-%d", 123+len(f.Policies))
	policy := aws.Policy{
		ID:          id,
		ARN:         "arn:aws:organizations::policy/" + id,
		Name:        name,
		Description: description,
		Type:        policyType,
	}
	f.Policies = append(f.Policies, policy)
	return policy
}

// ListPolicies implements aws.OrganizationManager.
func (f *FakeCloud) ListPolicies(_ context.Context, policyType string, _ int32) ([]aws.Policy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListPolicies")
	var policies []aws.Policy
	for _, p := range f.Policies {
		if p.Type == policyType {
			policies = append(policies, p)
		}
	}
	return policies, nil
}

// AttachPolicy implements aws.OrganizationManager.
func (f *FakeCloud) AttachPolicy(ctx context.Context, policyID, targetID string) error {
	f.mu.Lock()
	f.record("AttachPolicy")
	override := f.AttachPolicyFunc
	f.mu.Unlock()
	if override != nil {
		return override(ctx, policyID, targetID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.Attachments[targetID] {
		if id == policyID {
			return &orgtypes.DuplicatePolicyAttachmentException{
				Message: sdkaws.String("The selected policy is already attached to the specified target."),
			}
		}
	}
	f.Attachments[targetID] = append(f.Attachments[targetID], policyID)
	return nil
}

// CreateStack implements aws.StackManager.
func (f *FakeCloud) CreateStack(ctx context.Context, req aws.StackRequest) (string, error) {
	f.mu.Lock()
	f.record("CreateStack")
	override := f.CreateStackFunc
	f.mu.Unlock()
	if override != nil {
		return override(ctx, req)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putStack(req)
}

// AddStack seeds an existing stack.
func (f *FakeCloud) AddStack(req aws.StackRequest) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := f.putStack(req)
	return id
}

func (f *FakeCloud) putStack(req aws.StackRequest) (string, error) {
	if _, exists := f.Stacks[req.Name]; exists {
		return "", &cftypes.AlreadyExistsException{
			Message: sdkaws.String(fmt.Sprintf("Stack [%s] already exists", req.Name)),
		}
	}
	id := fmt.Sprintf("arn:aws:cloudformation:%s:%s:stack/%s/1a2b3c4d", FixtureStackRegion, FixtureAccountID, req.Name)
	f.Stacks[req.Name] = &aws.Stack{
		ID:         id,
		Name:       req.Name,
		Status:     "CREATE_IN_PROGRESS",
		Parameters: maps.Clone(req.Parameters),
		Tags:       maps.Clone(req.Tags),
		CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	return id, nil
}

// DescribeStackEvents implements aws.StackManager.
func (f *FakeCloud) DescribeStackEvents(ctx context.Context, stackName string) ([]aws.StackEvent, error) {
	f.mu.Lock()
	f.record("DescribeStackEvents")
	override := f.DescribeStackEventsFunc
	f.mu.Unlock()
	if override != nil {
		return override(ctx, stackName)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	stack, ok := f.Stacks[stackName]
	if !ok {
		return nil, fmt.Errorf("stack %s does not exist", stackName)
	}

	var events []aws.StackEvent
	switch {
	case len(f.StackEvents) == 0:
		events = []aws.StackEvent{StackLevelEvent(stackName, aws.StatusCreateComplete)}
	case f.eventCalls < len(f.StackEvents):
		events = f.StackEvents[f.eventCalls]
	default:
		events = f.StackEvents[len(f.StackEvents)-1]
	}
	f.eventCalls++

	if len(events) > 0 && events[0].ResourceType == aws.ResourceTypeStack && events[0].LogicalResourceID == events[0].StackName {
		stack.Status = events[0].ResourceStatus
		if stack.Status == aws.StatusCreateComplete {
			stack.Outputs = []aws.StackOutput{{
				Key:         "OrgAdminGroupArn",
				Value:       fmt.Sprintf("arn:aws:iam::%s:group/OrgAdmins", FixtureAccountID),
				Description: "Organization administrators group",
			}}
		}
	}
	return append([]aws.StackEvent(nil), events...), nil
}

// DescribeStack implements aws.StackManager.
func (f *FakeCloud) DescribeStack(_ context.Context, stackName string) (*aws.Stack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DescribeStack")
	stack, ok := f.Stacks[stackName]
	if !ok {
		return nil, fmt.Errorf("stack %s not found", stackName)
	}
	out := *stack
	out.Parameters = maps.Clone(stack.Parameters)
	for _, key := range f.NoEchoParameters {
		if _, ok := out.Parameters[key]; ok {
			out.Parameters[key] = maskedValue
		}
	}
	return &out, nil
}

// StackLevelEvent returns an event for the stack resource itself.
func StackLevelEvent(stackName, status string) aws.StackEvent {
	return aws.StackEvent{
		StackName:         stackName,
		LogicalResourceID: stackName,
		ResourceType:      aws.ResourceTypeStack,
		ResourceStatus:    status,
		Timestamp:         time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC),
		EventID:           stackName + "-" + status,
	}
}

// ResourceEvent returns an event for a resource inside the stack.
func ResourceEvent(stackName, logicalID, resourceType, status, reason string) aws.StackEvent {
	return aws.StackEvent{
		StackName:         stackName,
		LogicalResourceID: logicalID,
		ResourceType:      resourceType,
		ResourceStatus:    status,
		StatusReason:      reason,
		Timestamp:         time.Date(2024, 5, 1, 12, 1, 0, 0, time.UTC),
		EventID:           logicalID + "-" + status,
	}
}

// CloudFixture provides a pre-configured FakeCloud for common test scenarios.
type CloudFixture struct {
	cloud *FakeCloud
}

// NewCloudFixture creates a new cloud fixture around a fresh account.
func NewCloudFixture() *CloudFixture {
	return &CloudFixture{cloud: NewFakeCloud()}
}

// Cloud returns the underlying FakeCloud for custom configuration.
func (f *CloudFixture) Cloud() *FakeCloud {
	return f.cloud
}

// SuccessfulBaseline configures a fresh account whose stack goes
// pending, pending, then CREATE_COMPLETE.
func (f *CloudFixture) SuccessfulBaseline(stackName string) *FakeCloud {
	f.cloud.StackEvents = [][]aws.StackEvent{
		{ResourceEvent(stackName, "OrgAdminGroup", "AWS::IAM::Group", "CREATE_IN_PROGRESS", "")},
		{ResourceEvent(stackName, "OrgAdminUser", "AWS::IAM::User", "CREATE_IN_PROGRESS", "Resource creation Initiated")},
		{StackLevelEvent(stackName, aws.StatusCreateComplete)},
	}
	return f.cloud
}

// ExistingOrganization configures an account that already manages an
// organization with the given feature set and SCPs enabled on its root.
func (f *CloudFixture) ExistingOrganization(featureSet aws.FeatureSet) *FakeCloud {
	f.cloud.Organization = &aws.Organization{
		ID:              FixtureOrganizationID,
		FeatureSet:      featureSet,
		MasterAccountID: FixtureAccountID,
	}
	root := aws.Root{ID: FixtureRootID, Name: "Root"}
	if featureSet == aws.FeatureSetAll {
		root.EnabledPolicyTypes = []string{aws.PolicyTypeServiceControl}
	}
	f.cloud.Roots = []aws.Root{root}
	return f.cloud
}

// ExistingStack configures an account that already has a stack with the given name.
func (f *CloudFixture) ExistingStack(stackName string) *FakeCloud {
	f.cloud.AddStack(aws.StackRequest{Name: stackName})
	return f.cloud
}

// RolledBackStack configures a stack deployment that rolls back.
func (f *CloudFixture) RolledBackStack(stackName string) *FakeCloud {
	f.cloud.StackEvents = [][]aws.StackEvent{
		{ResourceEvent(stackName, "OrgAdminUser", "AWS::IAM::User", "CREATE_FAILED", "Password does not conform to policy")},
		{StackLevelEvent(stackName, "ROLLBACK_IN_PROGRESS")},
		{StackLevelEvent(stackName, aws.StatusRollbackComplete)},
	}
	return f.cloud
}
