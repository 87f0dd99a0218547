package provisioning

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes for provisioning failures.
var (
	// ErrTransient marks throttling and concurrent-modification failures that
	// outlived the submission retry budget.
	ErrTransient = errors.New("transient failure")

	// ErrConflict marks "already exists" outcomes of create-style calls that
	// cannot be adopted.
	ErrConflict = errors.New("resource already exists")

	// ErrTerminalFailure marks failures that abort the workflow.
	ErrTerminalFailure = errors.New("terminal failure")

	// ErrPreconditionViolation is returned when the organization has no root.
	ErrPreconditionViolation = fmt.Errorf("%w: precondition violated", ErrTerminalFailure)

	// ErrReconciliation is returned when the guardrail policy cannot be found by name.
	ErrReconciliation = fmt.Errorf("%w: reconciliation failed", ErrTerminalFailure)

	// ErrStackAlreadyExists is returned when a stack with the requested name exists.
	ErrStackAlreadyExists = fmt.Errorf("%w: stack %w", ErrTerminalFailure, ErrConflict)
)

// StepError reports the step that failed and the identifiers known at that point.
type StepError struct {
	Step           string
	OrganizationID string
	RootID         string
	PolicyID       string
	PolicyARN      string
	StackName      string
	Err            error
}

func (e *StepError) Error() string {
	var known []string
	for _, kv := range [][2]string{
		{"organization", e.OrganizationID},
		{"root", e.RootID},
		{"policy", e.PolicyID},
		{"stack", e.StackName},
	} {
		if kv[1] != "" {
			known = append(known, kv[0]+"="+kv[1])
		}
	}
	if len(known) == 0 {
		return fmt.Sprintf("%s phase failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s phase failed (%s): %v", e.Step, strings.Join(known, ", "), e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// newStepError snapshots state into a StepError for the failed step.
func newStepError(step string, state *State, err error) *StepError {
	se := &StepError{Step: step, Err: err}
	if state != nil {
		se.OrganizationID = state.OrganizationID
		se.RootID = state.RootID
		se.PolicyID = state.PolicyID
		se.PolicyARN = state.PolicyARN
		se.StackName = state.StackName
	}
	return se
}
