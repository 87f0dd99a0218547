package testing

import (
	"maps"
	"time"

	"github.com/imamik/orgbaseline/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with the built-in defaults,
// test passwords and zero wait times.
func NewConfigBuilder() *ConfigBuilder {
	cfg := *config.Default()
	cfg.Credentials = config.Credentials{
		OrgAdminPassword:     "org-admin-secret",
		PartnerAdminPassword: "partner-admin-secret",
	}
	cfg.Timeouts = config.Timeouts{}
	return &ConfigBuilder{cfg: cfg}
}

// WithFeatureSet sets the organization feature set.
func (b *ConfigBuilder) WithFeatureSet(featureSet string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.FeatureSet = featureSet
	return newBuilder
}

// WithTemplateFile sets the template location.
func (b *ConfigBuilder) WithTemplateFile(path string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.TemplateFile = path
	return newBuilder
}

// WithStackName sets the stack name.
func (b *ConfigBuilder) WithStackName(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Stack.Name = name
	return newBuilder
}

// WithStackParameter adds an extra stack parameter.
func (b *ConfigBuilder) WithStackParameter(key, value string) *ConfigBuilder {
	newBuilder := b.clone()
	if newBuilder.cfg.Stack.Parameters == nil {
		newBuilder.cfg.Stack.Parameters = make(map[string]string)
	}
	newBuilder.cfg.Stack.Parameters[key] = value
	return newBuilder
}

// WithPolicy sets the guardrail policy name and description.
func (b *ConfigBuilder) WithPolicy(name, description string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Policy.Name = name
	newBuilder.cfg.Policy.Description = description
	return newBuilder
}

// WithPasswords sets the admin passwords.
func (b *ConfigBuilder) WithPasswords(orgAdmin, partnerAdmin string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Credentials.OrgAdminPassword = orgAdmin
	newBuilder.cfg.Credentials.PartnerAdminPassword = partnerAdmin
	return newBuilder
}

// WithPollInterval sets the poll interval.
func (b *ConfigBuilder) WithPollInterval(d time.Duration) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Timeouts.PollInterval = d
	return newBuilder
}

// WithMaxPollAttempts sets the poll attempt ceiling.
func (b *ConfigBuilder) WithMaxPollAttempts(n int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Timeouts.MaxPollAttempts = n
	return newBuilder
}

// WithMaxSubmitAttempts sets the stack submission attempt ceiling.
func (b *ConfigBuilder) WithMaxSubmitAttempts(n int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Timeouts.MaxSubmitAttempts = n
	return newBuilder
}

// Build returns a copy of the built configuration.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	newCfg := b.cfg
	if b.cfg.Stack.Parameters != nil {
		newCfg.Stack.Parameters = maps.Clone(b.cfg.Stack.Parameters)
	}
	return &ConfigBuilder{cfg: newCfg}
}
