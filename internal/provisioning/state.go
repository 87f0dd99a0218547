package provisioning

import "github.com/imamik/orgbaseline/internal/platform/aws"

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Preflight results
	Identity *aws.Identity

	// Organization results (populated by the organization phase)
	OrganizationID string
	RootID         string
	FeatureSet     aws.FeatureSet

	// Policy results (populated by the policy phase)
	PolicyID  string
	PolicyARN string

	// Stack results (populated by the stack phase)
	StackName string
	Stack     *aws.Stack
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}
