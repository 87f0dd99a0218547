package provisioning

import (
	"fmt"
	"strings"

	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/policydoc"
)

// Severity levels of a ValidationError.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a preflight validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == SeverityError
}

// PreflightPhase checks the inputs and resolves the caller identity before
// anything is created.
type PreflightPhase struct {
	templateBody string
	policyBody   string
}

// NewPreflightPhase creates a preflight phase for the given template and policy bodies.
func NewPreflightPhase(templateBody, policyBody string) *PreflightPhase {
	return &PreflightPhase{templateBody: templateBody, policyBody: policyBody}
}

// Name implements the Phase interface.
func (p *PreflightPhase) Name() string {
	return "preflight"
}

// Provision implements the Phase interface.
func (p *PreflightPhase) Provision(ctx *Context) error {
	var errs []string
	for _, ve := range p.validate(ctx) {
		if ve.IsError() {
			ctx.Observer.Event(Event{Type: EventValidationError, Phase: p.Name(), Message: ve.Message, Resource: ve.Field})
			errs = append(errs, ve.Error())
			continue
		}
		LogWarning(ctx.Observer, p.Name(), ve.Message)
	}
	if len(errs) > 0 {
		return fmt.Errorf("preflight validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	if ctx.Identity == nil {
		return nil
	}

	identity, err := ctx.Identity.CallerIdentity(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve caller identity: %w", err)
	}
	ctx.State.Identity = identity
	ctx.Observer.Printf("[%s] Bootstrapping account %s as %s", p.Name(), identity.Account, identity.ARN)

	if strings.HasSuffix(identity.ARN, ":root") {
		LogWarning(ctx.Observer, p.Name(), "running with the account root user credentials")
	}
	return nil
}

// validate runs all input checks and returns any errors or warnings.
func (p *PreflightPhase) validate(ctx *Context) []ValidationError {
	var errs []ValidationError

	if p.templateBody == "" {
		errs = append(errs, ValidationError{
			Field:    "TemplateFile",
			Message:  "template is empty",
			Severity: SeverityError,
		})
	} else if len(p.templateBody) > aws.MaxTemplateBodySize {
		errs = append(errs, ValidationError{
			Field:    "TemplateFile",
			Message:  fmt.Sprintf("template is %d bytes, the inline limit is %d", len(p.templateBody), aws.MaxTemplateBodySize),
			Severity: SeverityError,
		})
	}

	if len(p.policyBody) > policydoc.MaxSCPSize {
		errs = append(errs, ValidationError{
			Field:    "Policy",
			Message:  fmt.Sprintf("policy document is %d characters, the limit is %d", len(p.policyBody), policydoc.MaxSCPSize),
			Severity: SeverityError,
		})
	}

	cfg := ctx.Config
	if cfg == nil {
		return errs
	}

	if aws.FeatureSet(cfg.FeatureSet) == aws.FeatureSetConsolidatedBilling {
		errs = append(errs, ValidationError{
			Field:    "FeatureSet",
			Message:  "service control policies require feature set ALL; a new organization created with CONSOLIDATED_BILLING cannot attach the guardrail",
			Severity: SeverityWarning,
		})
	}

	return errs
}
