package config

import (
	"errors"
	"fmt"
	"regexp"
)

var stackNamePattern = regexp.MustCompile(`^[a-zA-Z][-a-zA-Z0-9]*$`)

// Validate checks the configuration for common errors and returns all of them joined.
func (c *Config) Validate() error {
	var errs []error

	if c.FeatureSet != "ALL" && c.FeatureSet != "CONSOLIDATED_BILLING" {
		errs = append(errs, fmt.Errorf("feature_set must be ALL or CONSOLIDATED_BILLING, got %q", c.FeatureSet))
	}
	if c.TemplateFile == "" {
		errs = append(errs, errors.New("template_file is required"))
	}

	if err := c.Stack.validate(); err != nil {
		errs = append(errs, fmt.Errorf("stack: %w", err))
	}
	if err := c.Policy.validate(); err != nil {
		errs = append(errs, fmt.Errorf("policy: %w", err))
	}
	if err := c.Timeouts.validate(); err != nil {
		errs = append(errs, fmt.Errorf("timeouts: %w", err))
	}

	if c.Credentials.OrgAdminPassword == "" {
		errs = append(errs, errors.New("org admin password is required"))
	}
	if c.Credentials.PartnerAdminPassword == "" {
		errs = append(errs, errors.New("partner admin password is required"))
	}
	if (c.Credentials.AccessKeyID == "") != (c.Credentials.SecretAccessKey == "") {
		errs = append(errs, errors.New("access key id and secret access key must be set together"))
	}
	if c.Credentials.SessionToken != "" && c.Credentials.AccessKeyID == "" {
		errs = append(errs, errors.New("session token requires an access key id"))
	}

	return errors.Join(errs...)
}

func (s StackConfig) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Name) > 128 || !stackNamePattern.MatchString(s.Name) {
		return fmt.Errorf("invalid name %q: must start with a letter and contain only letters, digits and hyphens (max 128)", s.Name)
	}
	if s.Region == "" {
		return errors.New("region is required")
	}
	for _, reserved := range []string{"OrgAdminPassword", "PartnerAdminPassword", "ProtectedSCPArn"} {
		if _, ok := s.Parameters[reserved]; ok {
			return fmt.Errorf("parameter %s is set by the run and cannot be overridden", reserved)
		}
	}
	return nil
}

func (p PolicyConfig) validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if len(p.Name) > 128 {
		return fmt.Errorf("name must be at most 128 characters, got %d", len(p.Name))
	}
	if len(p.Description) > 512 {
		return fmt.Errorf("description must be at most 512 characters, got %d", len(p.Description))
	}
	return nil
}

func (t Timeouts) validate() error {
	if t.PollInterval < 0 || t.SettleTime < 0 || t.SubmitRetryInterval < 0 || t.Run < 0 {
		return errors.New("durations must not be negative")
	}
	if t.MaxPollAttempts < 0 || t.MaxSubmitAttempts < 0 {
		return errors.New("attempt limits must not be negative")
	}
	return nil
}
