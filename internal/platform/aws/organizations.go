package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
)

// CreateOrganization creates an organization with the given feature set.
func (c *Client) CreateOrganization(ctx context.Context, featureSet FeatureSet) (*Organization, error) {
	out, err := c.orgs.CreateOrganization(ctx, &organizations.CreateOrganizationInput{
		FeatureSet: orgtypes.OrganizationFeatureSet(featureSet),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return toOrganization(out.Organization), nil
}

// DescribeOrganization returns the organization the caller belongs to.
func (c *Client) DescribeOrganization(ctx context.Context) (*Organization, error) {
	out, err := c.orgs.DescribeOrganization(ctx, &organizations.DescribeOrganizationInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe organization: %w", err)
	}
	return toOrganization(out.Organization), nil
}

// ListRoots returns the organization roots in service order.
func (c *Client) ListRoots(ctx context.Context) ([]Root, error) {
	var roots []Root
	paginator := organizations.NewListRootsPaginator(c.orgs, &organizations.ListRootsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list roots: %w", err)
		}
		for _, r := range page.Roots {
			root := Root{
				ID:   sdkaws.ToString(r.Id),
				ARN:  sdkaws.ToString(r.Arn),
				Name: sdkaws.ToString(r.Name),
			}
			for _, pt := range r.PolicyTypes {
				if pt.Status == orgtypes.PolicyTypeStatusEnabled {
					root.EnabledPolicyTypes = append(root.EnabledPolicyTypes, string(pt.Type))
				}
			}
			roots = append(roots, root)
		}
	}
	return roots, nil
}

// EnablePolicyType enables a policy type on a root.
func (c *Client) EnablePolicyType(ctx context.Context, rootID, policyType string) error {
	_, err := c.orgs.EnablePolicyType(ctx, &organizations.EnablePolicyTypeInput{
		RootId:     sdkaws.String(rootID),
		PolicyType: orgtypes.PolicyType(policyType),
	})
	if err != nil {
		return fmt.Errorf("failed to enable policy type %s on %s: %w", policyType, rootID, err)
	}
	return nil
}

// CreatePolicy creates a policy document.
func (c *Client) CreatePolicy(ctx context.Context, req PolicyRequest) (*Policy, error) {
	out, err := c.orgs.CreatePolicy(ctx, &organizations.CreatePolicyInput{
		Name:        sdkaws.String(req.Name),
		Description: sdkaws.String(req.Description),
		Type:        orgtypes.PolicyType(req.Type),
		Content:     sdkaws.String(req.Content),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create policy %s: %w", req.Name, err)
	}
	if out.Policy == nil || out.Policy.PolicySummary == nil {
		return &Policy{Name: req.Name, Description: req.Description, Type: req.Type}, nil
	}
	p := toPolicy(*out.Policy.PolicySummary)
	return &p, nil
}

// ListPolicies returns every policy of policyType, walking all pages.
func (c *Client) ListPolicies(ctx context.Context, policyType string, pageSize int32) ([]Policy, error) {
	input := &organizations.ListPoliciesInput{
		Filter: orgtypes.PolicyType(policyType),
	}
	paginator := organizations.NewListPoliciesPaginator(c.orgs, input, func(o *organizations.ListPoliciesPaginatorOptions) {
		if pageSize > 0 {
			o.Limit = pageSize
		}
	})

	var policies []Policy
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list policies: %w", err)
		}
		for _, s := range page.Policies {
			policies = append(policies, toPolicy(s))
		}
	}
	return policies, nil
}

// AttachPolicy attaches a policy to a root, OU or account.
func (c *Client) AttachPolicy(ctx context.Context, policyID, targetID string) error {
	_, err := c.orgs.AttachPolicy(ctx, &organizations.AttachPolicyInput{
		PolicyId: sdkaws.String(policyID),
		TargetId: sdkaws.String(targetID),
	})
	if err != nil {
		return fmt.Errorf("failed to attach policy %s to %s: %w", policyID, targetID, err)
	}
	return nil
}

func toOrganization(o *orgtypes.Organization) *Organization {
	if o == nil {
		return &Organization{}
	}
	return &Organization{
		ID:              sdkaws.ToString(o.Id),
		ARN:             sdkaws.ToString(o.Arn),
		FeatureSet:      FeatureSet(o.FeatureSet),
		MasterAccountID: sdkaws.ToString(o.MasterAccountId),
	}
}

func toPolicy(s orgtypes.PolicySummary) Policy {
	return Policy{
		ID:          sdkaws.ToString(s.Id),
		ARN:         sdkaws.ToString(s.Arn),
		Name:        sdkaws.ToString(s.Name),
		Description: sdkaws.ToString(s.Description),
		Type:        string(s.Type),
		AWSManaged:  s.AwsManaged,
	}
}
