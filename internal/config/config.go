package config

import "time"

// Defaults for an apply run.
const (
	DefaultFeatureSet        = "ALL"
	DefaultTemplateFile      = "create-all-resources.yaml"
	DefaultStackName         = "master-payer-resources"
	DefaultStackRegion       = "us-east-1"
	DefaultPolicyName        = "DenyAllBilling"
	DefaultPolicyDescription = "Deny All Billing Functions"
)

// EnvPrefix is prepended to every environment variable read by ApplyEnv.
const EnvPrefix = "ORGBASELINE_"

// Config is the complete configuration of an apply run.
type Config struct {
	// FeatureSet is the organization feature set: ALL or CONSOLIDATED_BILLING.
	FeatureSet string `yaml:"feature_set" env:"FEATURE_SET"`

	// TemplateFile is a local path or s3://bucket/key location of the stack template.
	TemplateFile string `yaml:"template_file" env:"TEMPLATE_FILE"`

	// Profile selects a shared AWS config profile.
	Profile string `yaml:"profile" env:"PROFILE"`

	// SkipPreflight disables the caller identity check before provisioning.
	SkipPreflight bool `yaml:"skip_preflight" env:"SKIP_PREFLIGHT"`

	// MetricsFile, when set, receives a Prometheus textfile at the end of the run.
	MetricsFile string `yaml:"metrics_file" env:"METRICS_FILE"`

	Stack       StackConfig  `yaml:"stack"`
	Policy      PolicyConfig `yaml:"policy"`
	Timeouts    Timeouts     `yaml:"timeouts"`
	Credentials Credentials  `yaml:"-"`
}

// StackConfig describes the IAM baseline stack.
type StackConfig struct {
	Name   string `yaml:"name" env:"STACK_NAME"`
	Region string `yaml:"region" env:"STACK_REGION"`

	// Parameters are extra template parameters passed through unchanged.
	// The admin passwords and ProtectedSCPArn are always set by the run.
	Parameters map[string]string `yaml:"parameters"`
}

// PolicyConfig describes the guardrail service control policy.
type PolicyConfig struct {
	Name        string `yaml:"name" env:"POLICY_NAME"`
	Description string `yaml:"description" env:"POLICY_DESCRIPTION"`

	// File is an optional YAML or JSON policy document replacing the built-in one.
	File string `yaml:"file" env:"POLICY_FILE"`
}

// Credentials holds the admin passwords forwarded to the stack and optional
// static AWS keys. They are never read from the config file.
type Credentials struct {
	OrgAdminPassword     string `env:"ORG_ADMIN_PASSWORD"`
	PartnerAdminPassword string `env:"PARTNER_ADMIN_PASSWORD"`

	// Static AWS keys. When empty the SDK default credential chain is used.
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	SessionToken    string `env:"SESSION_TOKEN"`
}

// Timeouts holds the polling, settle and retry timings.
type Timeouts struct {
	// PollInterval is the fixed wait between status observations.
	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`

	// SettleTime is waited after enabling the SCP policy type.
	SettleTime time.Duration `yaml:"settle_time" env:"SETTLE_TIME"`

	// SubmitRetryInterval is the wait between stack submission attempts.
	SubmitRetryInterval time.Duration `yaml:"submit_retry_interval" env:"SUBMIT_RETRY_INTERVAL"`

	// MaxPollAttempts bounds every poll loop. Zero means unbounded.
	MaxPollAttempts int `yaml:"max_poll_attempts" env:"MAX_POLL_ATTEMPTS"`

	// MaxSubmitAttempts bounds stack submission retries. Zero means unbounded.
	MaxSubmitAttempts int `yaml:"max_submit_attempts" env:"MAX_SUBMIT_ATTEMPTS"`

	// Run bounds the whole run. Zero means no deadline.
	Run time.Duration `yaml:"run" env:"TIMEOUT"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		FeatureSet:   DefaultFeatureSet,
		TemplateFile: DefaultTemplateFile,
		Stack: StackConfig{
			Name:   DefaultStackName,
			Region: DefaultStackRegion,
		},
		Policy: PolicyConfig{
			Name:        DefaultPolicyName,
			Description: DefaultPolicyDescription,
		},
		Timeouts: DefaultTimeouts(),
	}
}
