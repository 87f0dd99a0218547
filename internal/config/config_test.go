package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Credentials = Credentials{OrgAdminPassword: "org-secret", PartnerAdminPassword: "partner-secret"}
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "ALL", cfg.FeatureSet)
	assert.Equal(t, "create-all-resources.yaml", cfg.TemplateFile)
	assert.Equal(t, "master-payer-resources", cfg.Stack.Name)
	assert.Equal(t, "us-east-1", cfg.Stack.Region)
	assert.Equal(t, "DenyAllBilling", cfg.Policy.Name)
	assert.Equal(t, "Deny All Billing Functions", cfg.Policy.Description)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.SettleTime)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.SubmitRetryInterval)
	assert.Zero(t, cfg.Timeouts.MaxPollAttempts)
	assert.Zero(t, cfg.Timeouts.MaxSubmitAttempts)
}

func TestLoadFile(t *testing.T) {
	content := `
feature_set: CONSOLIDATED_BILLING
stack:
  name: baseline
  parameters:
    Environment: prod
policy:
  file: scp.yaml
timeouts:
  poll_interval: 5s
  max_poll_attempts: 60
`
	path := filepath.Join(t.TempDir(), "orgbaseline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "CONSOLIDATED_BILLING", cfg.FeatureSet)
	assert.Equal(t, "baseline", cfg.Stack.Name)
	assert.Equal(t, "us-east-1", cfg.Stack.Region, "unset fields keep defaults")
	assert.Equal(t, map[string]string{"Environment": "prod"}, cfg.Stack.Parameters)
	assert.Equal(t, "scp.yaml", cfg.Policy.File)
	assert.Equal(t, "DenyAllBilling", cfg.Policy.Name)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.PollInterval)
	assert.Equal(t, 60, cfg.Timeouts.MaxPollAttempts)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.SettleTime)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stack: [unclosed"), 0o600))
	_, err = LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orgbaseline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stack:\n  name: from-file\n"), 0o600))

	t.Setenv("ORGBASELINE_STACK_NAME", "from-env")
	t.Setenv("ORGBASELINE_MAX_POLL_ATTEMPTS", "12")
	t.Setenv("ORGBASELINE_SETTLE_TIME", "30s")
	t.Setenv("ORGBASELINE_ORG_ADMIN_PASSWORD", "org-secret")
	t.Setenv("ORGBASELINE_PARTNER_ADMIN_PASSWORD", "partner-secret")
	t.Setenv("ORGBASELINE_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("ORGBASELINE_SECRET_ACCESS_KEY", "secret-key")
	t.Setenv("ORGBASELINE_SESSION_TOKEN", "session")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Stack.Name)
	assert.Equal(t, 12, cfg.Timeouts.MaxPollAttempts)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.SettleTime)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.PollInterval)
	assert.Equal(t, "org-secret", cfg.Credentials.OrgAdminPassword)
	assert.Equal(t, "partner-secret", cfg.Credentials.PartnerAdminPassword)
	assert.Equal(t, "AKIAEXAMPLE", cfg.Credentials.AccessKeyID)
	assert.Equal(t, "secret-key", cfg.Credentials.SecretAccessKey)
	assert.Equal(t, "session", cfg.Credentials.SessionToken)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ORGBASELINE_POLL_INTERVAL", "soon")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse environment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"consolidated billing", func(c *Config) { c.FeatureSet = "CONSOLIDATED_BILLING" }, ""},
		{"bad feature set", func(c *Config) { c.FeatureSet = "SOME" }, "feature_set must be ALL or CONSOLIDATED_BILLING"},
		{"no template", func(c *Config) { c.TemplateFile = "" }, "template_file is required"},
		{"no stack name", func(c *Config) { c.Stack.Name = "" }, "stack: name is required"},
		{"bad stack name", func(c *Config) { c.Stack.Name = "1-stack" }, "invalid name"},
		{"no region", func(c *Config) { c.Stack.Region = "" }, "region is required"},
		{"reserved parameter", func(c *Config) {
			c.Stack.Parameters = map[string]string{"ProtectedSCPArn": "x"}
		}, "ProtectedSCPArn is set by the run"},
		{"no policy name", func(c *Config) { c.Policy.Name = "" }, "policy: name is required"},
		{"negative interval", func(c *Config) { c.Timeouts.PollInterval = -time.Second }, "durations must not be negative"},
		{"negative attempts", func(c *Config) { c.Timeouts.MaxSubmitAttempts = -1 }, "attempt limits must not be negative"},
		{"no org password", func(c *Config) { c.Credentials.OrgAdminPassword = "" }, "org admin password is required"},
		{"no partner password", func(c *Config) { c.Credentials.PartnerAdminPassword = "" }, "partner admin password is required"},
		{"static keys", func(c *Config) {
			c.Credentials.AccessKeyID, c.Credentials.SecretAccessKey, c.Credentials.SessionToken = "AKIAEXAMPLE", "secret-key", "session"
		}, ""},
		{"access key without secret", func(c *Config) { c.Credentials.AccessKeyID = "AKIAEXAMPLE" }, "must be set together"},
		{"secret without access key", func(c *Config) { c.Credentials.SecretAccessKey = "secret-key" }, "must be set together"},
		{"session token without keys", func(c *Config) { c.Credentials.SessionToken = "session" }, "session token requires an access key id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
