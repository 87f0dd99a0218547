package policy

import "github.com/imamik/orgbaseline/internal/platform/aws"

// failureAction is how a tolerated failure is narrated. Neither aborts the phase.
type failureAction int

const (
	// actionAdopt narrates the resource as already present.
	actionAdopt failureAction = iota
	// actionContinue narrates the failure and continues.
	actionContinue
)

// createFailureAction classifies CreatePolicy failures. Every failure falls
// through to the lookup by name.
func createFailureAction(err error) failureAction {
	if aws.IsDuplicatePolicy(err) {
		return actionAdopt
	}
	return actionContinue
}

// attachFailureAction classifies AttachPolicy failures.
func attachFailureAction(err error) failureAction {
	if aws.IsDuplicatePolicyAttachment(err) {
		return actionAdopt
	}
	return actionContinue
}
