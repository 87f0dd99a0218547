package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// OrganizationsRegion pins the Organizations endpoint. The service is global
// and only served from us-east-1.
const OrganizationsRegion = "us-east-1"

// OrganizationManager defines the Organization Service operations.
type OrganizationManager interface {
	CreateOrganization(ctx context.Context, featureSet FeatureSet) (*Organization, error)
	DescribeOrganization(ctx context.Context) (*Organization, error)
	ListRoots(ctx context.Context) ([]Root, error)
	EnablePolicyType(ctx context.Context, rootID, policyType string) error
	CreatePolicy(ctx context.Context, req PolicyRequest) (*Policy, error)
	// ListPolicies returns policies of the given type, fetched pageSize at a time.
	ListPolicies(ctx context.Context, policyType string, pageSize int32) ([]Policy, error)
	AttachPolicy(ctx context.Context, policyID, targetID string) error
}

// StackManager defines the Stack Deployment Service operations.
type StackManager interface {
	// CreateStack submits a stack and returns its ID.
	CreateStack(ctx context.Context, req StackRequest) (string, error)
	// DescribeStackEvents returns the event log, most recent first.
	DescribeStackEvents(ctx context.Context, stackName string) ([]StackEvent, error)
	DescribeStack(ctx context.Context, stackName string) (*Stack, error)
}

// IdentityResolver resolves the identity behind the active credentials.
type IdentityResolver interface {
	CallerIdentity(ctx context.Context) (*Identity, error)
}

// organizationsAPI is the subset of *organizations.Client used here.
type organizationsAPI interface {
	CreateOrganization(ctx context.Context, params *organizations.CreateOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.CreateOrganizationOutput, error)
	DescribeOrganization(ctx context.Context, params *organizations.DescribeOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error)
	ListRoots(ctx context.Context, params *organizations.ListRootsInput, optFns ...func(*organizations.Options)) (*organizations.ListRootsOutput, error)
	EnablePolicyType(ctx context.Context, params *organizations.EnablePolicyTypeInput, optFns ...func(*organizations.Options)) (*organizations.EnablePolicyTypeOutput, error)
	CreatePolicy(ctx context.Context, params *organizations.CreatePolicyInput, optFns ...func(*organizations.Options)) (*organizations.CreatePolicyOutput, error)
	ListPolicies(ctx context.Context, params *organizations.ListPoliciesInput, optFns ...func(*organizations.Options)) (*organizations.ListPoliciesOutput, error)
	AttachPolicy(ctx context.Context, params *organizations.AttachPolicyInput, optFns ...func(*organizations.Options)) (*organizations.AttachPolicyOutput, error)
}

// cloudFormationAPI is the subset of *cloudformation.Client used here.
type cloudFormationAPI interface {
	CreateStack(ctx context.Context, params *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	DescribeStackEvents(ctx context.Context, params *cloudformation.DescribeStackEventsInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackEventsOutput, error)
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// stsAPI is the subset of *sts.Client used here.
type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Options configures client construction.
type Options struct {
	// StackRegion is the region CloudFormation stacks are deployed to.
	StackRegion string
	// Profile selects a shared config profile. Empty uses the default chain.
	Profile string
	// Static credentials. Used only when AccessKeyID is set.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Client implements OrganizationManager, StackManager and IdentityResolver.
type Client struct {
	orgs   organizationsAPI
	cfn    cloudFormationAPI
	sts    stsAPI
	config sdkaws.Config
}

var (
	_ OrganizationManager = (*Client)(nil)
	_ StackManager        = (*Client)(nil)
	_ IdentityResolver    = (*Client)(nil)
)

// NewClient loads the AWS configuration and creates one handle per service.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	cfg, err := LoadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &Client{
		orgs: organizations.NewFromConfig(cfg, func(o *organizations.Options) {
			o.Region = OrganizationsRegion
		}),
		cfn:    cloudformation.NewFromConfig(cfg),
		sts:    sts.NewFromConfig(cfg),
		config: cfg,
	}, nil
}

// LoadConfig resolves the shared AWS configuration for opts.
func LoadConfig(ctx context.Context, opts Options) (sdkaws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.StackRegion),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return sdkaws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// Config returns the resolved AWS configuration, for constructing other service clients.
func (c *Client) Config() sdkaws.Config {
	return c.config
}

// newClientFromAPIs builds a Client around pre-built service APIs.
func newClientFromAPIs(orgs organizationsAPI, cfn cloudFormationAPI, stsClient stsAPI) *Client {
	return &Client{orgs: orgs, cfn: cfn, sts: stsClient}
}

// CallerIdentity implements IdentityResolver.
func (c *Client) CallerIdentity(ctx context.Context) (*Identity, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get caller identity: %w", err)
	}
	return &Identity{
		Account: sdkaws.ToString(out.Account),
		ARN:     sdkaws.ToString(out.Arn),
		UserID:  sdkaws.ToString(out.UserId),
	}, nil
}
