package provisioning

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorHierarchy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err      error
		conflict bool
	}{
		{ErrPreconditionViolation, false},
		{ErrReconciliation, false},
		{ErrStackAlreadyExists, true},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, ErrTerminalFailure) {
			t.Errorf("%v should match ErrTerminalFailure", tt.err)
		}
		if got := errors.Is(tt.err, ErrConflict); got != tt.conflict {
			t.Errorf("errors.Is(%v, ErrConflict) = %v, want %v", tt.err, got, tt.conflict)
		}
		if errors.Is(tt.err, ErrTransient) {
			t.Errorf("%v should not match ErrTransient", tt.err)
		}
	}
}

func TestStepError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  *StepError
		want string
	}{
		{
			name: "no identifiers",
			err:  &StepError{Step: "organization", Err: errors.New("access denied")},
			want: "organization phase failed: access denied",
		},
		{
			name: "known identifiers",
			err: &StepError{
				Step:           "stack",
				OrganizationID: "o-abc",
				RootID:         "r-abc1",
				PolicyID:       "p-123",
				PolicyARN:      "arn:aws:organizations::policy/p-123",
				StackName:      "master-payer-resources",
				Err:            ErrStackAlreadyExists,
			},
			want: "stack phase failed (organization=o-abc, root=r-abc1, policy=p-123, stack=master-payer-resources): terminal failure: stack resource already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStepError_Unwrap(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("run: %w", newStepError("stack", &State{StackName: "baseline"}, ErrStackAlreadyExists))

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatal("expected StepError")
	}
	if stepErr.StackName != "baseline" {
		t.Errorf("StackName = %q, want baseline", stepErr.StackName)
	}
	if !errors.Is(err, ErrTerminalFailure) {
		t.Error("expected ErrTerminalFailure through StepError")
	}
}
