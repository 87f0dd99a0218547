package stack

import "github.com/imamik/orgbaseline/internal/platform/aws"

// failureAction is what a CreateStack failure does to the submission loop.
type failureAction int

const (
	// actionRetry waits the submission interval and resubmits.
	actionRetry failureAction = iota
	// actionAbort stops the workflow without retrying.
	actionAbort
)

// submitFailureAction classifies CreateStack failures. Only an existing stack
// with the same name aborts; everything else is resubmitted.
func submitFailureAction(err error) failureAction {
	if aws.IsStackAlreadyExists(err) {
		return actionAbort
	}
	return actionRetry
}
