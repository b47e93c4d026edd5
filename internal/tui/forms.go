package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

const minPasswordLength = 8

// LoginInput holds the answers from the login form
type LoginInput struct {
	Email    string
	Password string
}

// RegisterInput holds the answers from the registration form
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	TenantName string
}

// RunLoginForm prompts for credentials. Seed values prefill the fields
// so flags can cover part of the form.
func RunLoginForm(seed LoginInput) (LoginInput, error) {
	in := seed

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&in.Email).
				Validate(validateEmail),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&in.Password).
				Validate(requireValue("password")),
		).Title("Log in"),
	)

	if err := form.Run(); err != nil {
		return LoginInput{}, err
	}
	return in, nil
}

// RunRegisterForm prompts for a new account. The workspace name is
// optional, leaving it empty joins no workspace.
func RunRegisterForm(seed RegisterInput) (RegisterInput, error) {
	in := seed

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&in.Name).
				Validate(requireValue("name")),
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&in.Email).
				Validate(validateEmail),
			huh.NewInput().
				Key("password").
				Title("Password").
				Description(fmt.Sprintf("At least %d characters", minPasswordLength)).
				EchoMode(huh.EchoModePassword).
				Value(&in.Password).
				Validate(ValidatePassword),
			huh.NewInput().
				Key("tenant").
				Title("Workspace name").
				Description("Optional, creates a new workspace").
				Value(&in.TenantName),
		).Title("Create account"),
	)

	if err := form.Run(); err != nil {
		return RegisterInput{}, err
	}
	return in, nil
}

// RunDecisionForm confirms an approve/reject decision and collects an
// optional comment.
func RunDecisionForm(action, taskTitle string) (comment string, confirmed bool, err error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("comment").
				Title("Comment").
				Description("Optional").
				Lines(3).
				Value(&comment),
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("%s %q?", capitalize(action), taskTitle)).
				Description("This action cannot be undone.").
				Affirmative("Confirm").
				Negative("Cancel").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return "", false, err
	}
	return comment, confirmed, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password length used by both
// registration and password change.
func ValidatePassword(s string) error {
	if len(s) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func requireValue(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
