package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Credentials is what the login and register forms collect.
type Credentials struct {
	Email    string
	Password string
}

// RunCredentialsForm prompts for whichever of email and password is still
// empty in prefill. confirm asks for the password twice, for registration.
func RunCredentialsForm(title string, prefill Credentials, confirm bool) (Credentials, error) {
	creds := prefill
	var repeat string

	var fields []huh.Field
	if creds.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&creds.Email).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("email is required")
				}
				return nil
			}))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("password is required")
				}
				return nil
			}))
		if confirm {
			fields = append(fields, huh.NewInput().
				Title("Repeat password").
				EchoMode(huh.EchoModePassword).
				Value(&repeat).
				Validate(func(s string) error {
					if s != creds.Password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}))
		}
	}
	if len(fields) == 0 {
		return creds, nil
	}

	fmt.Println(titleStyle.Render(title))
	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin())
	if err := form.Run(); err != nil {
		return Credentials{}, err
	}
	creds.Email = strings.TrimSpace(creds.Email)
	return creds, nil
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)).WithTheme(huh.ThemeCatppuccin()).Run()
	return ok, err
}
