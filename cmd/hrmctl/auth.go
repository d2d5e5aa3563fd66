package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/family-health-api/cmd/hrmctl/ui"
)

func credentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
}

func readCredentials(cmd *cobra.Command, title string, confirm bool) (ui.Credentials, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	return ui.RunCredentialsForm(title, ui.Credentials{Email: email, Password: password}, confirm)
}

func (a *app) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := readCredentials(cmd, "Create account", true)
			if err != nil {
				return fmt.Errorf("form cancelled: %w", err)
			}

			user, err := a.client.Register(cmd.Context(), creds.Email, creds.Password)
			if err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Account %s created", user.Email))

			id, err := a.client.Login(cmd.Context(), creds.Email, creds.Password)
			if err != nil {
				return err
			}
			ui.PrintIdentity(cmd.OutOrStdout(), id.UserID, id.Email, id.ExpiresAt)
			return nil
		},
	}
	credentialFlags(cmd)
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := readCredentials(cmd, "Log in", false)
			if err != nil {
				return fmt.Errorf("form cancelled: %w", err)
			}

			id, err := a.client.Login(cmd.Context(), creds.Email, creds.Password)
			if err != nil {
				return err
			}
			ui.PrintIdentity(cmd.OutOrStdout(), id.UserID, id.Email, id.ExpiresAt)
			return nil
		},
	}
	credentialFlags(cmd)
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "whoami",
		Short:   "Show the logged in user",
		PreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.session.Require()
			if err != nil {
				return err
			}
			if remote, _ := cmd.Flags().GetBool("remote"); remote {
				user, err := a.client.Me(cmd.Context())
				if err != nil {
					return err
				}
				return ui.PrintJSON(cmd.OutOrStdout(), "Account", user)
			}
			ui.PrintIdentity(cmd.OutOrStdout(), id.UserID, id.Email, id.ExpiresAt)
			return nil
		},
	}
	cmd.Flags().Bool("remote", false, "Ask the server instead of reading the local session")
	return cmd
}
