package handlers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/orgbaseline/internal/config"
	"github.com/imamik/orgbaseline/internal/policydoc"
)

const customPolicy = `Version: "2012-10-17"
Statement:
  - Sid: DenyLeave
    Effect: Deny
    Action: organizations:LeaveOrganization
    Resource: "*"
`

func writePolicy(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customPolicy), 0o600))
	return path
}

func TestPolicyShow_Default(t *testing.T) {
	out := saveAndRestoreFactories(t)

	require.NoError(t, PolicyShow("", "", "yaml"))

	assert.Contains(t, out.String(), "aws-portal:*")
	assert.Contains(t, out.String(), "Effect: Deny")
}

func TestPolicyShow_JSON(t *testing.T) {
	out := saveAndRestoreFactories(t)

	require.NoError(t, PolicyShow("", "", "json"))

	var doc policydoc.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, policydoc.DenyAllBilling(), doc)
}

func TestPolicyShow_PolicyFile(t *testing.T) {
	out := saveAndRestoreFactories(t)

	require.NoError(t, PolicyShow("", writePolicy(t), "yaml"))

	assert.Contains(t, out.String(), "organizations:LeaveOrganization")
	assert.NotContains(t, out.String(), "aws-portal")
}

func TestPolicyShow_PolicyFileFromConfig(t *testing.T) {
	out := saveAndRestoreFactories(t)
	path := writePolicy(t)
	loadConfig = func(string) (*config.Config, error) {
		cfg := config.Default()
		cfg.Policy.File = path
		return cfg, nil
	}

	require.NoError(t, PolicyShow("orgbaseline.yaml", "", "json"))

	assert.Contains(t, out.String(), "DenyLeave")
}

func TestPolicyShow_Errors(t *testing.T) {
	saveAndRestoreFactories(t)

	err := PolicyShow("", "", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")

	err = PolicyShow("", filepath.Join(t.TempDir(), "missing.yaml"), "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read policy file")
}
