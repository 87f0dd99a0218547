package handlers

import (
	"fmt"

	"github.com/imamik/orgbaseline/internal/policydoc"
)

// PolicyShow prints the effective guardrail document as YAML or JSON.
// policyFile takes precedence over the policy file in the configuration.
func PolicyShow(configPath, policyFile, format string) error {
	if policyFile == "" && configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		policyFile = cfg.Policy.File
	}

	doc := policydoc.DenyAllBilling()
	if policyFile != "" {
		loaded, err := policydoc.Load(policyFile)
		if err != nil {
			return err
		}
		doc = loaded
	}

	var (
		out string
		err error
	)
	switch format {
	case "json":
		out, err = doc.JSON()
		out += "\n"
	case "yaml", "":
		out, err = doc.YAML()
	default:
		return fmt.Errorf("unsupported output format %q (use yaml or json)", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, out)
	return nil
}
