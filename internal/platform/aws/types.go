package aws

import "time"

// FeatureSet is the organization feature-set mode. Immutable once created.
type FeatureSet string

const (
	// FeatureSetAll enables all features, including service control policies.
	FeatureSetAll FeatureSet = "ALL"
	// FeatureSetConsolidatedBilling enables consolidated billing only.
	FeatureSetConsolidatedBilling FeatureSet = "CONSOLIDATED_BILLING"
)

// Valid reports whether f is a known feature set.
func (f FeatureSet) Valid() bool {
	return f == FeatureSetAll || f == FeatureSetConsolidatedBilling
}

// PolicyTypeServiceControl is the only policy type this tool manages.
const PolicyTypeServiceControl = "SERVICE_CONTROL_POLICY"

// Organization is the top-level multi-account entity.
type Organization struct {
	ID              string
	ARN             string
	FeatureSet      FeatureSet
	MasterAccountID string
}

// Root is the top node of an organization's hierarchy.
type Root struct {
	ID   string
	ARN  string
	Name string
	// EnabledPolicyTypes lists policy types with status ENABLED on this root.
	EnabledPolicyTypes []string
}

// HasPolicyType reports whether policyType is enabled on the root.
func (r Root) HasPolicyType(policyType string) bool {
	for _, t := range r.EnabledPolicyTypes {
		if t == policyType {
			return true
		}
	}
	return false
}

// Policy is an organization policy summary.
type Policy struct {
	ID          string
	ARN         string
	Name        string
	Description string
	Type        string
	AWSManaged  bool
}

// PolicyRequest holds the inputs for CreatePolicy.
type PolicyRequest struct {
	Name        string
	Description string
	Type        string
	Content     string
}

// StackRequest holds the inputs for CreateStack.
type StackRequest struct {
	Name               string
	TemplateBody       string
	Parameters         map[string]string
	Capabilities       []string
	OnFailure          string
	Tags               map[string]string
	ClientRequestToken string
}

// StackEvent is one entry of a stack's event log.
type StackEvent struct {
	StackName         string
	LogicalResourceID string
	ResourceType      string
	ResourceStatus    string
	StatusReason      string
	Timestamp         time.Time
	EventID           string
}

// StackOutput is a named stack output value.
type StackOutput struct {
	Key         string
	Value       string
	Description string
}

// Stack is the description of a deployed stack.
type Stack struct {
	ID           string
	Name         string
	Status       string
	StatusReason string
	Parameters   map[string]string
	Outputs      []StackOutput
	Tags         map[string]string
	CreatedAt    time.Time
}

// Identity is the caller identity of the active credentials.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}
