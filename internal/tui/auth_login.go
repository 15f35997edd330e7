package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptToken asks for a provider API token with a masked input. The
// returned token is trimmed; cancelling yields ErrAborted.
func PromptToken(provider string) (string, error) {
	var token string
	field := huh.NewInput().
		Title("API token").
		Description("Enter your " + provider + " API token").
		Placeholder("paste your API token here").
		EchoMode(huh.EchoModePassword).
		Value(&token).
		Validate(requireValue("token"))

	if err := runForm(os.Getenv("ACCESSIBLE") != "", huh.NewGroup(field)); err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}
