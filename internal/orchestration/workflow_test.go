package orchestration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/imamik/orgbaseline/internal/config"
	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/policydoc"
	"github.com/imamik/orgbaseline/internal/provisioning"
	"github.com/imamik/orgbaseline/internal/template"
	testutil "github.com/imamik/orgbaseline/internal/testing"
	"github.com/imamik/orgbaseline/internal/util/poll"
	"github.com/imamik/orgbaseline/internal/util/retry"
)

const (
	stackName    = "master-payer-resources"
	templateBody = "AWSTemplateFormatVersion: '2010-09-09'\nResources: {}\n"
)

var _ = Describe("Workflow", func() {
	var (
		ctx      context.Context
		cloud    *testutil.FakeCloud
		identity *testutil.MockIdentityResolver
		observer *testutil.RecordingObserver
		sleeper  *testutil.SleepRecorder
		cfg      *config.Config
	)

	writeTemplate := func(body string) string {
		path := filepath.Join(GinkgoT().TempDir(), "create-all-resources.yaml")
		Expect(os.WriteFile(path, []byte(body), 0o600)).To(Succeed())
		return path
	}

	newWorkflow := func(opts ...Option) *Workflow {
		defaults := []Option{
			WithIdentity(identity),
			WithObserver(observer),
			WithSleep(sleeper.Sleep),
		}
		return NewWorkflow(cloud, cloud, cfg, append(defaults, opts...)...)
	}

	BeforeEach(func() {
		ctx = context.Background()
		observer = testutil.NewRecordingObserver()
		sleeper = &testutil.SleepRecorder{}

		identity = &testutil.MockIdentityResolver{}
		identity.On("CallerIdentity", mock.Anything).Return(&aws.Identity{
			Account: testutil.FixtureAccountID,
			ARN:     "arn:aws:iam::" + testutil.FixtureAccountID + ":user/bootstrap",
		}, nil).Maybe()

		cfg = testutil.NewConfigBuilder().
			WithTemplateFile(writeTemplate(templateBody)).
			WithPollInterval(10 * time.Second).
			Build()
	})

	Context("on a fresh account", func() {
		BeforeEach(func() {
			cloud = testutil.NewCloudFixture().SuccessfulBaseline(stackName)
		})

		It("creates the organization, guardrail and stack", func() {
			result, err := newWorkflow().Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			By("returning the identifiers of every resource")
			Expect(result.OrganizationID).To(Equal("o-abc"))
			Expect(result.RootID).To(Equal("r-abc1"))
			Expect(result.PolicyID).To(Equal("p-123"))
			Expect(result.PolicyARN).To(Equal("arn:aws:organizations::policy/p-123"))

			By("returning the completed stack with its outputs")
			Expect(result.Stack).NotTo(BeNil())
			Expect(result.Stack.Name).To(Equal(stackName))
			Expect(result.Stack.Status).To(Equal(aws.StatusCreateComplete))
			Expect(result.Stack.Outputs).To(HaveLen(1))
			Expect(result.Stack.Parameters).To(HaveKeyWithValue("ProtectedSCPArn", "arn:aws:organizations::policy/p-123"))

			By("attaching the guardrail to the root")
			Expect(cloud.Attachments).To(HaveKeyWithValue("r-abc1", ConsistOf("p-123")))
			Expect(cloud.Roots[0].EnabledPolicyTypes).To(ContainElement(aws.PolicyTypeServiceControl))

			By("polling the stack events until completion")
			Expect(cloud.CallCount("DescribeStackEvents")).To(Equal(3))
			var pollWaits int
			for _, d := range sleeper.Durations() {
				if d == 10*time.Second {
					pollWaits++
				}
			}
			Expect(pollWaits).To(Equal(2))

			By("narrating every phase in order")
			var started []string
			for _, e := range observer.EventsOfType(provisioning.EventPhaseStarted) {
				started = append(started, e.Phase)
			}
			Expect(started).To(Equal([]string{
				"preflight (1/4)",
				"organization (2/4)",
				"policy (3/4)",
				"stack (4/4)",
			}))
			Expect(observer.HasMessage("Bootstrapping account 123456789012")).To(BeTrue())
			identity.AssertExpectations(GinkgoT())
		})

		It("skips the identity check when preflight is disabled", func() {
			cfg.SkipPreflight = true

			_, err := newWorkflow().Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			identity.AssertNotCalled(GinkgoT(), "CallerIdentity", mock.Anything)
			Expect(observer.EventsOfType(provisioning.EventPhaseStarted)).To(HaveLen(3))
		})

		It("creates a custom guardrail document", func() {
			var content string
			cloud.CreatePolicyFunc = func(_ context.Context, req aws.PolicyRequest) (*aws.Policy, error) {
				content = req.Content
				p := cloud.AddPolicy(req.Name, req.Description)
				return &p, nil
			}
			doc := policydoc.Document{
				Version: policydoc.Version,
				Statement: []policydoc.Statement{{
					Effect:   policydoc.EffectDeny,
					Action:   policydoc.StringList{"organizations:LeaveOrganization"},
					Resource: policydoc.StringList{"*"},
				}},
			}

			_, err := newWorkflow(WithPolicyDocument(doc)).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(content).To(ContainSubstring("organizations:LeaveOrganization"))
			Expect(content).NotTo(ContainSubstring("aws-portal"))
		})

		It("loads the guardrail from the configured policy file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "scp.yaml")
			Expect(os.WriteFile(path, []byte(`Version: "2012-10-17"
Statement:
  - Effect: Deny
    Action: iam:DeleteRole
    Resource: "*"
`), 0o600)).To(Succeed())
			cfg.Policy.File = path

			_, err := newWorkflow().Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(cloud.Policies).To(HaveLen(1))
		})
	})

	Context("when the baseline already exists", func() {
		BeforeEach(func() {
			cloud = testutil.NewCloudFixture().ExistingOrganization(aws.FeatureSetAll)
			cloud.AddPolicy(policydoc.DefaultName, policydoc.DefaultDescription)
			cloud.AddStack(aws.StackRequest{Name: stackName})
		})

		It("adopts the organization and policy, then aborts on the stack", func() {
			result, err := newWorkflow().Run(ctx)
			Expect(result).To(BeNil())
			Expect(err).To(MatchError(provisioning.ErrStackAlreadyExists))
			Expect(errors.Is(err, provisioning.ErrTerminalFailure)).To(BeTrue())

			var stepErr *provisioning.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal("stack"))
			Expect(stepErr.OrganizationID).To(Equal("o-abc"))
			Expect(stepErr.RootID).To(Equal("r-abc1"))
			Expect(stepErr.PolicyID).To(Equal("p-123"))
			Expect(stepErr.StackName).To(Equal(stackName))

			By("never retrying the submission or polling events")
			Expect(cloud.CallCount("CreateStack")).To(Equal(1))
			Expect(cloud.CallCount("DescribeStackEvents")).To(BeZero())
			Expect(cloud.Policies).To(HaveLen(1))
			Expect(observer.EventsOfType(provisioning.EventResourceExists)).NotTo(BeEmpty())
		})
	})

	Context("when the stack rolls back", func() {
		BeforeEach(func() {
			cloud = testutil.NewCloudFixture().RolledBackStack(stackName)
		})

		It("fails the stack step with the first failure reason", func() {
			_, err := newWorkflow().Run(ctx)
			Expect(err).To(MatchError(poll.ErrWorkflowFailed))
			Expect(err.Error()).To(ContainSubstring("Password does not conform to policy"))

			var stepErr *provisioning.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal("stack"))
			Expect(stepErr.PolicyARN).To(Equal("arn:aws:organizations::policy/p-123"))
			Expect(observer.EventsOfType(provisioning.EventPhaseFailed)).To(HaveLen(1))
		})
	})

	Context("before any remote call", func() {
		BeforeEach(func() {
			cloud = testutil.NewFakeCloud()
		})

		It("aborts when the template cannot be read", func() {
			cfg.TemplateFile = filepath.Join(GinkgoT().TempDir(), "missing.yaml")

			_, err := newWorkflow().Run(ctx)
			Expect(err).To(MatchError(template.ErrUnreadable))
			Expect(cloud.Calls).To(BeEmpty())
			identity.AssertNotCalled(GinkgoT(), "CallerIdentity", mock.Anything)
		})

		It("aborts when the policy file is invalid", func() {
			path := filepath.Join(GinkgoT().TempDir(), "scp.yaml")
			Expect(os.WriteFile(path, []byte("Version: \"2012-10-17\"\nStatement: []\n"), 0o600)).To(Succeed())
			cfg.Policy.File = path

			_, err := newWorkflow().Run(ctx)
			Expect(err).To(MatchError(policydoc.ErrInvalid))
			Expect(cloud.Calls).To(BeEmpty())
		})

		It("aborts in preflight when the caller identity cannot be resolved", func() {
			failing := &testutil.MockIdentityResolver{}
			failing.On("CallerIdentity", mock.Anything).Return(nil, errors.New("ExpiredToken"))

			_, err := newWorkflow(WithIdentity(failing)).Run(ctx)

			var stepErr *provisioning.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal("preflight"))
			Expect(cloud.Calls).To(BeEmpty())
		})

		It("aborts in preflight when the template is too large", func() {
			cfg.TemplateFile = writeTemplate(string(make([]byte, aws.MaxTemplateBodySize+1)))

			_, err := newWorkflow().Run(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("preflight"))
			Expect(cloud.Calls).To(BeEmpty())
		})
	})

	Context("with a run timeout", func() {
		BeforeEach(func() {
			cloud = testutil.NewFakeCloud()
			cloud.StackEvents = [][]aws.StackEvent{{testutil.StackLevelEvent(stackName, "CREATE_IN_PROGRESS")}}
		})

		It("stops waiting for the stack when the deadline passes", func() {
			cfg.Timeouts.Run = 200 * time.Millisecond
			cfg.Timeouts.PollInterval = time.Hour

			_, err := newWorkflow(WithSleep(retry.Sleep)).Run(ctx)
			Expect(err).To(MatchError(context.DeadlineExceeded))

			var stepErr *provisioning.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal("stack"))
		})
	})
})
