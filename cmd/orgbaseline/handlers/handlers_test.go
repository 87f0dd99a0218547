package handlers

import (
	"bytes"
	"context"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"

	"github.com/imamik/orgbaseline/internal/config"
	"github.com/imamik/orgbaseline/internal/orchestration"
	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/template"
	testutil "github.com/imamik/orgbaseline/internal/testing"
)

// fakeClient adds the identity and config surface to the in-memory cloud.
type fakeClient struct {
	*testutil.FakeCloud
}

func (fakeClient) CallerIdentity(context.Context) (*aws.Identity, error) {
	return &aws.Identity{
		Account: testutil.FixtureAccountID,
		ARN:     "arn:aws:iam::" + testutil.FixtureAccountID + ":user/bootstrap",
	}, nil
}

func (fakeClient) Config() sdkaws.Config {
	return sdkaws.Config{Region: testutil.FixtureStackRegion}
}

// stubWorkflow returns a fixed result.
type stubWorkflow struct {
	result *orchestration.Result
	err    error
	ran    bool
}

func (w *stubWorkflow) Run(context.Context) (*orchestration.Result, error) {
	w.ran = true
	return w.result, w.err
}

type nopObjects struct{}

func (nopObjects) GetObject(context.Context, string, string) ([]byte, error) {
	return nil, nil
}

func saveAndRestoreFactories(t *testing.T) *bytes.Buffer {
	t.Helper()
	origLoadConfig := loadConfig
	origNewCloudClient := newCloudClient
	origNewObjectGetter := newObjectGetter
	origNewWorkflow := newWorkflow
	origPromptPasswords := promptPasswords
	origStdinIsTerminal := stdinIsTerminal
	origStdoutIsTerminal := stdoutIsTerminal
	origStdout := stdout

	t.Cleanup(func() {
		loadConfig = origLoadConfig
		newCloudClient = origNewCloudClient
		newObjectGetter = origNewObjectGetter
		newWorkflow = origNewWorkflow
		promptPasswords = origPromptPasswords
		stdinIsTerminal = origStdinIsTerminal
		stdoutIsTerminal = origStdoutIsTerminal
		stdout = origStdout
	})

	loadConfig = func(string) (*config.Config, error) {
		return config.Default(), nil
	}
	newObjectGetter = func(sdkaws.Config) template.ObjectGetter { return nopObjects{} }
	stdinIsTerminal = func() bool { return false }
	stdoutIsTerminal = func() bool { return false }

	buf := &bytes.Buffer{}
	stdout = buf
	return buf
}
