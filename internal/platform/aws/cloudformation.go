package aws

import (
	"context"
	"fmt"
	"sort"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// CloudFormation constants used by the stack deployer.
const (
	ResourceTypeStack      = "AWS::CloudFormation::Stack"
	CapabilityNamedIAM     = "CAPABILITY_NAMED_IAM"
	OnFailureRollback      = "ROLLBACK"
	StatusCreateComplete   = "CREATE_COMPLETE"
	StatusCreateFailed     = "CREATE_FAILED"
	StatusRollbackComplete = "ROLLBACK_COMPLETE"
	StatusRollbackFailed   = "ROLLBACK_FAILED"
)

// MaxTemplateBodySize is the largest inline template body CreateStack accepts, in bytes.
const MaxTemplateBodySize = 51200

// CreateStack submits a create-stack request and returns the stack ID.
func (c *Client) CreateStack(ctx context.Context, req StackRequest) (string, error) {
	input := &cloudformation.CreateStackInput{
		StackName:    sdkaws.String(req.Name),
		TemplateBody: sdkaws.String(req.TemplateBody),
		Parameters:   toParameters(req.Parameters),
		Tags:         toTags(req.Tags),
		OnFailure:    cftypes.OnFailure(req.OnFailure),
	}
	for _, capability := range req.Capabilities {
		input.Capabilities = append(input.Capabilities, cftypes.Capability(capability))
	}
	if req.ClientRequestToken != "" {
		input.ClientRequestToken = sdkaws.String(req.ClientRequestToken)
	}

	out, err := c.cfn.CreateStack(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to create stack %s: %w", req.Name, err)
	}
	return sdkaws.ToString(out.StackId), nil
}

// DescribeStackEvents returns the first page of stack events, most recent first.
// Only the head of the log is needed to classify progress.
func (c *Client) DescribeStackEvents(ctx context.Context, stackName string) ([]StackEvent, error) {
	out, err := c.cfn.DescribeStackEvents(ctx, &cloudformation.DescribeStackEventsInput{
		StackName: sdkaws.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe events for stack %s: %w", stackName, err)
	}

	events := make([]StackEvent, 0, len(out.StackEvents))
	for _, e := range out.StackEvents {
		events = append(events, StackEvent{
			StackName:         sdkaws.ToString(e.StackName),
			LogicalResourceID: sdkaws.ToString(e.LogicalResourceId),
			ResourceType:      sdkaws.ToString(e.ResourceType),
			ResourceStatus:    string(e.ResourceStatus),
			StatusReason:      sdkaws.ToString(e.ResourceStatusReason),
			Timestamp:         sdkaws.ToTime(e.Timestamp),
			EventID:           sdkaws.ToString(e.EventId),
		})
	}
	return events, nil
}

// DescribeStack returns the full description of a stack.
func (c *Client) DescribeStack(ctx context.Context, stackName string) (*Stack, error) {
	out, err := c.cfn.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: sdkaws.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}
	if len(out.Stacks) == 0 {
		return nil, fmt.Errorf("stack %s not found", stackName)
	}

	s := out.Stacks[0]
	stack := &Stack{
		ID:           sdkaws.ToString(s.StackId),
		Name:         sdkaws.ToString(s.StackName),
		Status:       string(s.StackStatus),
		StatusReason: sdkaws.ToString(s.StackStatusReason),
		Parameters:   make(map[string]string, len(s.Parameters)),
		Tags:         make(map[string]string, len(s.Tags)),
		CreatedAt:    sdkaws.ToTime(s.CreationTime),
	}
	for _, p := range s.Parameters {
		stack.Parameters[sdkaws.ToString(p.ParameterKey)] = sdkaws.ToString(p.ParameterValue)
	}
	for _, t := range s.Tags {
		stack.Tags[sdkaws.ToString(t.Key)] = sdkaws.ToString(t.Value)
	}
	for _, o := range s.Outputs {
		stack.Outputs = append(stack.Outputs, StackOutput{
			Key:         sdkaws.ToString(o.OutputKey),
			Value:       sdkaws.ToString(o.OutputValue),
			Description: sdkaws.ToString(o.Description),
		})
	}
	return stack, nil
}

// toParameters converts a parameter map, sorted by key for deterministic requests.
func toParameters(params map[string]string) []cftypes.Parameter {
	keys := sortedKeys(params)
	out := make([]cftypes.Parameter, 0, len(keys))
	for _, k := range keys {
		out = append(out, cftypes.Parameter{
			ParameterKey:   sdkaws.String(k),
			ParameterValue: sdkaws.String(params[k]),
		})
	}
	return out
}

func toTags(tags map[string]string) []cftypes.Tag {
	keys := sortedKeys(tags)
	out := make([]cftypes.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, cftypes.Tag{
			Key:   sdkaws.String(k),
			Value: sdkaws.String(tags[k]),
		})
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
