package orchestration

import (
	"context"
	"fmt"

	"github.com/imamik/orgbaseline/internal/config"
	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/policydoc"
	"github.com/imamik/orgbaseline/internal/provisioning"
	"github.com/imamik/orgbaseline/internal/provisioning/organization"
	"github.com/imamik/orgbaseline/internal/provisioning/policy"
	"github.com/imamik/orgbaseline/internal/provisioning/stack"
	"github.com/imamik/orgbaseline/internal/template"
	"github.com/imamik/orgbaseline/internal/util/retry"
)

// TemplateReader reads the stack template from a location.
// Implemented by template.Source.
type TemplateReader interface {
	Read(ctx context.Context, location string) (string, error)
}

// Result holds the identifiers produced by a successful run.
type Result struct {
	OrganizationID string
	RootID         string
	PolicyID       string
	PolicyARN      string
	Stack          *aws.Stack
}

// Workflow runs the bootstrap phases against injected service clients.
type Workflow struct {
	orgs     aws.OrganizationManager
	stacks   aws.StackManager
	identity aws.IdentityResolver
	config   *config.Config

	templates TemplateReader
	document  *policydoc.Document
	observer  provisioning.Observer
	metrics   *provisioning.Metrics
	sleep     retry.SleepFunc
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithIdentity enables the caller identity check in the preflight phase.
func WithIdentity(identity aws.IdentityResolver) Option {
	return func(w *Workflow) {
		w.identity = identity
	}
}

// WithTemplateSource sets the reader used for the stack template.
// The default reads local files only.
func WithTemplateSource(templates TemplateReader) Option {
	return func(w *Workflow) {
		w.templates = templates
	}
}

// WithPolicyDocument overrides the guardrail policy document.
func WithPolicyDocument(doc policydoc.Document) Option {
	return func(w *Workflow) {
		w.document = &doc
	}
}

// WithObserver sets the observer that receives narration and events.
func WithObserver(observer provisioning.Observer) Option {
	return func(w *Workflow) {
		w.observer = observer
	}
}

// WithMetrics sets the metrics collector for the run.
func WithMetrics(metrics *provisioning.Metrics) Option {
	return func(w *Workflow) {
		w.metrics = metrics
	}
}

// WithSleep replaces the function used for every wait.
func WithSleep(sleep retry.SleepFunc) Option {
	return func(w *Workflow) {
		w.sleep = sleep
	}
}

// NewWorkflow creates a new workflow. cfg must already be validated.
func NewWorkflow(orgs aws.OrganizationManager, stacks aws.StackManager, cfg *config.Config, opts ...Option) *Workflow {
	w := &Workflow{
		orgs:      orgs,
		stacks:    stacks,
		config:    cfg,
		templates: template.NewSource(nil),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes the workflow. The template and policy document are read
// before any remote call. Phase failures are returned as *provisioning.StepError.
func (w *Workflow) Run(ctx context.Context) (*Result, error) {
	if w.config.Timeouts.Run > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.config.Timeouts.Run)
		defer cancel()
	}

	templateBody, err := w.templates.Read(ctx, w.config.TemplateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	doc, err := w.policyDocument()
	if err != nil {
		return nil, err
	}
	policyBody, err := doc.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to render policy document: %w", err)
	}

	pCtx := w.newContext(ctx)

	var phases []provisioning.Phase
	if !w.config.SkipPreflight {
		phases = append(phases, provisioning.NewPreflightPhase(templateBody, policyBody))
	}
	phases = append(phases,
		organization.NewProvisioner(),
		policy.NewProvisioner(doc),
		stack.NewProvisioner(templateBody),
	)

	if err := provisioning.RunPhases(pCtx, phases); err != nil {
		return nil, err
	}

	state := pCtx.State
	return &Result{
		OrganizationID: state.OrganizationID,
		RootID:         state.RootID,
		PolicyID:       state.PolicyID,
		PolicyARN:      state.PolicyARN,
		Stack:          state.Stack,
	}, nil
}

func (w *Workflow) policyDocument() (policydoc.Document, error) {
	if w.document != nil {
		return *w.document, nil
	}
	if w.config.Policy.File != "" {
		doc, err := policydoc.Load(w.config.Policy.File)
		if err != nil {
			return policydoc.Document{}, fmt.Errorf("failed to load policy document: %w", err)
		}
		return doc, nil
	}
	return policydoc.DenyAllBilling(), nil
}

func (w *Workflow) newContext(ctx context.Context) *provisioning.Context {
	pCtx := provisioning.NewContext(ctx, w.config, w.orgs, w.stacks)
	pCtx.Identity = w.identity
	if w.observer != nil {
		pCtx.Observer = w.observer
	}
	if w.metrics != nil {
		pCtx.Metrics = w.metrics
	}
	if w.sleep != nil {
		pCtx.Sleep = w.sleep
	}
	return pCtx
}
