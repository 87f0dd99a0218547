package organization

import "github.com/imamik/orgbaseline/internal/platform/aws"

// failureAction is how a tolerated failure is narrated. Neither aborts the phase.
type failureAction int

const (
	// actionAdopt narrates the resource as already present.
	actionAdopt failureAction = iota
	// actionContinue narrates the failure and continues.
	actionContinue
)

// createFailureAction classifies CreateOrganization failures. Every failure
// falls through to describing the organization.
func createFailureAction(err error) failureAction {
	if aws.IsAlreadyInOrganization(err) {
		return actionAdopt
	}
	return actionContinue
}

// enableFailureAction classifies EnablePolicyType failures.
func enableFailureAction(err error) failureAction {
	if aws.IsPolicyTypeAlreadyEnabled(err) {
		return actionAdopt
	}
	return actionContinue
}
