package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/orgbaseline/cmd/orgbaseline/handlers"
)

// Policy returns the command group for the guardrail policy.
func Policy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect the guardrail service control policy",
	}
	cmd.AddCommand(policyShow())
	return cmd
}

func policyShow() *cobra.Command {
	var (
		configPath string
		policyFile string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective policy document",
		Long: `Print the policy document that apply would create.

Without --policy-file or a policy file in the configuration, this is the
built-in policy denying all billing functions.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.PolicyShow(configPath, policyFile, output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&policyFile, "policy-file", "", "YAML or JSON policy document")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format: yaml or json")

	return cmd
}
