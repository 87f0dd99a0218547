package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/orgbaseline/cmd/orgbaseline/handlers"
)

// Apply returns the command that bootstraps the management account.
//
// Every optional flag overrides the configuration file and ORGBASELINE_*
// environment variables when set.
//
// Environment variables:
//
//	ORGBASELINE_ORG_ADMIN_PASSWORD: password for the organization admin user
//	ORGBASELINE_PARTNER_ADMIN_PASSWORD: password for the partner admin user
//	ORGBASELINE_ACCESS_KEY_ID, ORGBASELINE_SECRET_ACCESS_KEY, ORGBASELINE_SESSION_TOKEN: static AWS keys
//	AWS_PROFILE, AWS_ACCESS_KEY_ID, ...: standard AWS credential chain
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the organization, guardrail policy and baseline stack",
		Long: `Bootstrap the management account of an AWS organization.

The command runs four phases in order:
  1. preflight     resolve the caller identity and check the inputs
  2. organization  create the organization, or adopt the existing one,
                   and enable service control policies on the root
  3. policy        create the guardrail policy, or find the existing one,
                   and attach it to the root
  4. stack         deploy the baseline CloudFormation stack and wait
                   until it is complete

Organization and policy steps tolerate existing resources. The stack step
fails if a stack with the same name already exists.

Examples:
  # Prompt for the admin passwords
  orgbaseline apply

  # Non-interactive run with a template stored in S3
  orgbaseline apply --template-file s3://baseline/create-all-resources.yaml \
    --org-admin-password "$ORG_PW" --partner-admin-password "$PARTNER_PW"

  # Use a configuration file and a named profile
  orgbaseline apply -c orgbaseline.yaml --profile management`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	flags.StringVar(&opts.OrgAdminPassword, "org-admin-password", "", "Password for the organization admin user (required)")
	flags.StringVar(&opts.PartnerAdminPassword, "partner-admin-password", "", "Password for the partner admin user (required)")
	flags.StringVar(&opts.TemplateFile, "template-file", "", "Local path or s3:// location of the stack template (default: create-all-resources.yaml)")
	flags.StringVar(&opts.StackName, "stack-name", "", "Name of the baseline stack (default: master-payer-resources)")
	flags.StringVar(&opts.StackRegion, "stack-region", "", "Region the stack is deployed to (default: us-east-1)")
	flags.StringVar(&opts.FeatureSet, "feature-set", "", "Organization feature set, ALL or CONSOLIDATED_BILLING (default: ALL)")
	flags.StringVar(&opts.PolicyName, "policy-name", "", "Name of the guardrail policy (default: DenyAllBilling)")
	flags.StringVar(&opts.PolicyDescription, "policy-description", "", "Description of the guardrail policy (default: Deny All Billing Functions)")
	flags.StringVar(&opts.PolicyFile, "policy-file", "", "YAML or JSON policy document replacing the built-in guardrail")
	flags.StringVar(&opts.Profile, "profile", "", "AWS shared config profile")
	flags.StringVar(&opts.AccessKeyID, "access-key-id", "", "Static AWS access key ID (default: SDK credential chain)")
	flags.StringVar(&opts.SecretAccessKey, "secret-access-key", "", "Static AWS secret access key, required with --access-key-id")
	flags.StringVar(&opts.SessionToken, "session-token", "", "Session token for temporary static credentials")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "Abort the run after this duration (default: no limit)")
	flags.BoolVar(&opts.SkipPreflight, "skip-preflight", false, "Skip the caller identity and input checks")

	return cmd
}
