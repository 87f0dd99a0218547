package testing

import (
	"context"

	"github.com/imamik/orgbaseline/internal/platform/aws"

	"github.com/stretchr/testify/mock"
)

// MockOrganizationManager is a mock implementation of aws.OrganizationManager.
type MockOrganizationManager struct {
	mock.Mock
}

// CreateOrganization creates a mock organization.
func (m *MockOrganizationManager) CreateOrganization(ctx context.Context, featureSet aws.FeatureSet) (*aws.Organization, error) {
	args := m.Called(ctx, featureSet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aws.Organization), args.Error(1)
}

// DescribeOrganization describes the mock organization.
func (m *MockOrganizationManager) DescribeOrganization(ctx context.Context) (*aws.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aws.Organization), args.Error(1)
}

// ListRoots lists the mock roots.
func (m *MockOrganizationManager) ListRoots(ctx context.Context) ([]aws.Root, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]aws.Root), args.Error(1)
}

// EnablePolicyType enables a mock policy type.
func (m *MockOrganizationManager) EnablePolicyType(ctx context.Context, rootID, policyType string) error {
	args := m.Called(ctx, rootID, policyType)
	return args.Error(0)
}

// CreatePolicy creates a mock policy.
func (m *MockOrganizationManager) CreatePolicy(ctx context.Context, req aws.PolicyRequest) (*aws.Policy, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aws.Policy), args.Error(1)
}

// ListPolicies lists the mock policies.
func (m *MockOrganizationManager) ListPolicies(ctx context.Context, policyType string, pageSize int32) ([]aws.Policy, error) {
	args := m.Called(ctx, policyType, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]aws.Policy), args.Error(1)
}

// AttachPolicy attaches a mock policy.
func (m *MockOrganizationManager) AttachPolicy(ctx context.Context, policyID, targetID string) error {
	args := m.Called(ctx, policyID, targetID)
	return args.Error(0)
}

// MockStackManager is a mock implementation of aws.StackManager.
type MockStackManager struct {
	mock.Mock
}

// CreateStack submits a mock stack.
func (m *MockStackManager) CreateStack(ctx context.Context, req aws.StackRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// DescribeStackEvents returns mock stack events.
func (m *MockStackManager) DescribeStackEvents(ctx context.Context, stackName string) ([]aws.StackEvent, error) {
	args := m.Called(ctx, stackName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]aws.StackEvent), args.Error(1)
}

// DescribeStack describes a mock stack.
func (m *MockStackManager) DescribeStack(ctx context.Context, stackName string) (*aws.Stack, error) {
	args := m.Called(ctx, stackName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aws.Stack), args.Error(1)
}

// MockIdentityResolver is a mock implementation of aws.IdentityResolver.
type MockIdentityResolver struct {
	mock.Mock
}

// CallerIdentity returns the mock caller identity.
func (m *MockIdentityResolver) CallerIdentity(ctx context.Context) (*aws.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aws.Identity), args.Error(1)
}
