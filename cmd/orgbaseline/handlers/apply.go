// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"

	"github.com/imamik/orgbaseline/internal/config"
	"github.com/imamik/orgbaseline/internal/orchestration"
	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/platform/s3"
	"github.com/imamik/orgbaseline/internal/provisioning"
	"github.com/imamik/orgbaseline/internal/template"
)

// ApplyOptions holds the apply flags. Empty values leave the configuration
// file and environment untouched.
type ApplyOptions struct {
	ConfigPath           string
	OrgAdminPassword     string
	PartnerAdminPassword string
	TemplateFile         string
	StackName            string
	StackRegion          string
	FeatureSet           string
	PolicyName           string
	PolicyDescription    string
	PolicyFile           string
	Profile              string
	AccessKeyID          string
	SecretAccessKey      string
	SessionToken         string
	MetricsFile          string
	Timeout              time.Duration
	SkipPreflight        bool
}

// Workflow interface for testing - matches orchestration.Workflow.
type Workflow interface {
	Run(ctx context.Context) (*orchestration.Result, error)
}

// cloudClient is the AWS surface the apply handler needs.
type cloudClient interface {
	aws.OrganizationManager
	aws.StackManager
	aws.IdentityResolver
	Config() sdkaws.Config
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads the configuration file and environment.
	loadConfig = config.Load

	// newCloudClient creates the AWS service clients.
	newCloudClient = func(ctx context.Context, opts aws.Options) (cloudClient, error) {
		client, err := aws.NewClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// newObjectGetter creates the S3 client used for s3:// templates.
	newObjectGetter = func(cfg sdkaws.Config) template.ObjectGetter {
		return s3.NewClient(cfg)
	}

	// newWorkflow creates the bootstrap workflow.
	newWorkflow = func(client cloudClient, cfg *config.Config, opts ...orchestration.Option) Workflow {
		return orchestration.NewWorkflow(client, client, cfg, opts...)
	}

	// promptPasswords asks for missing passwords on an interactive terminal.
	promptPasswords = promptPasswordsInteractive

	// stdinIsTerminal reports whether passwords can be prompted for.
	stdinIsTerminal = func() bool { return isTerminal(os.Stdin) }

	// stdoutIsTerminal reports whether the summary is styled.
	stdoutIsTerminal = func() bool { return isTerminal(os.Stdout) }

	// stdout receives the run summary.
	stdout io.Writer = os.Stdout
)

// Apply bootstraps the management account.
//
// The flow is:
//  1. Load the configuration file and ORGBASELINE_* environment, then apply flags
//  2. Prompt for missing passwords when stdin is a terminal
//  3. Validate the configuration
//  4. Create the AWS clients and run the workflow
//  5. Write the metrics file if requested, whether or not the run succeeded
//  6. Print the resulting stack
func Apply(ctx context.Context, opts ApplyOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts.applyTo(cfg)

	if err := ensurePasswords(&cfg.Credentials); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := newCloudClient(ctx, aws.Options{
		StackRegion:     cfg.Stack.Region,
		Profile:         cfg.Profile,
		AccessKeyID:     cfg.Credentials.AccessKeyID,
		SecretAccessKey: cfg.Credentials.SecretAccessKey,
		SessionToken:    cfg.Credentials.SessionToken,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize AWS clients: %w", err)
	}

	log.Printf("Deploying stack %s to %s", cfg.Stack.Name, cfg.Stack.Region)

	metrics := provisioning.NewMetrics()
	workflow := newWorkflow(client, cfg,
		orchestration.WithIdentity(client),
		orchestration.WithTemplateSource(template.NewSource(newObjectGetter(client.Config()))),
		orchestration.WithMetrics(metrics),
	)

	result, runErr := workflow.Run(ctx)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteToTextfile(cfg.MetricsFile); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	if runErr != nil {
		return fmt.Errorf("bootstrap failed: %w", runErr)
	}

	fmt.Fprint(stdout, renderSummary(result, stdoutIsTerminal()))
	return nil
}

// applyTo overrides cfg with every flag that was set.
func (o ApplyOptions) applyTo(cfg *config.Config) {
	setIfNotEmpty(&cfg.Credentials.OrgAdminPassword, o.OrgAdminPassword)
	setIfNotEmpty(&cfg.Credentials.PartnerAdminPassword, o.PartnerAdminPassword)
	setIfNotEmpty(&cfg.TemplateFile, o.TemplateFile)
	setIfNotEmpty(&cfg.Stack.Name, o.StackName)
	setIfNotEmpty(&cfg.Stack.Region, o.StackRegion)
	setIfNotEmpty(&cfg.FeatureSet, o.FeatureSet)
	setIfNotEmpty(&cfg.Policy.Name, o.PolicyName)
	setIfNotEmpty(&cfg.Policy.Description, o.PolicyDescription)
	setIfNotEmpty(&cfg.Policy.File, o.PolicyFile)
	setIfNotEmpty(&cfg.Profile, o.Profile)
	setIfNotEmpty(&cfg.Credentials.AccessKeyID, o.AccessKeyID)
	setIfNotEmpty(&cfg.Credentials.SecretAccessKey, o.SecretAccessKey)
	setIfNotEmpty(&cfg.Credentials.SessionToken, o.SessionToken)
	setIfNotEmpty(&cfg.MetricsFile, o.MetricsFile)
	if o.Timeout > 0 {
		cfg.Timeouts.Run = o.Timeout
	}
	if o.SkipPreflight {
		cfg.SkipPreflight = true
	}
}

func setIfNotEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// ensurePasswords prompts for missing passwords when possible.
// Without a terminal, missing passwords are left for Validate to report.
func ensurePasswords(creds *config.Credentials) error {
	if creds.OrgAdminPassword != "" && creds.PartnerAdminPassword != "" {
		return nil
	}
	if !stdinIsTerminal() {
		return nil
	}
	if err := promptPasswords(creds); err != nil {
		return fmt.Errorf("failed to read passwords: %w", err)
	}
	return nil
}
