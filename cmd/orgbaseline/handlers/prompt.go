package handlers

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/imamik/orgbaseline/internal/config"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// promptPasswordsInteractive asks for each missing password with masked input.
func promptPasswordsInteractive(creds *config.Credentials) error {
	var fields []huh.Field
	if creds.OrgAdminPassword == "" {
		fields = append(fields, passwordInput("Organization admin password", &creds.OrgAdminPassword))
	}
	if creds.PartnerAdminPassword == "" {
		fields = append(fields, passwordInput("Partner admin password", &creds.PartnerAdminPassword))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func passwordInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Validate(requirePassword).
		Value(value)
}

func requirePassword(s string) error {
	if s == "" {
		return errors.New("password is required")
	}
	return nil
}
