package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/family-health-api/cmd/hrmctl/ui"
	"github.com/redmonkez12/family-health-api/internal/client"
	"github.com/redmonkez12/family-health-api/internal/clock"
	"github.com/redmonkez12/family-health-api/internal/session"
)

// app is the state shared by every command once the root pre-run has loaded
// the session.
type app struct {
	apiURL      string
	sessionPath string

	session *session.Manager
	client  *client.Client
}

func main() {
	// Group pre-runs gate on login after the root pre-run has loaded the session.
	cobra.EnableTraverseRunHooks = true

	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "hrmctl",
		Short:         "Manage family health records from the terminal",
		Long:          "Command line client for the family health records API: family members, medical records, prescriptions and health indicators.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api", envOr("HRM_API_URL", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&a.sessionPath, "session-file", os.Getenv("HRM_SESSION_FILE"), "Where the login session is kept (defaults to the user config dir)")

	rootCmd.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.membersCmd(),
		scopedCmd(a, "records", "Medical records of a family member", (*client.Client).MedicalRecords),
		scopedCmd(a, "prescriptions", "Prescriptions of a family member", (*client.Client).Prescriptions),
		scopedCmd(a, "indicators", "Health indicators of a family member", (*client.Client).HealthIndicators),
	)

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(os.Stderr, err.Error())
		if errors.Is(err, session.ErrNotAuthenticated) {
			ui.PrintHint(os.Stderr, "run `hrmctl login` first")
		}
		os.Exit(1)
	}
}

func (a *app) init() error {
	var store *session.FileStore
	if a.sessionPath != "" {
		store = session.NewFileStore(a.sessionPath)
	} else {
		var err error
		if store, err = session.DefaultFileStore(); err != nil {
			return err
		}
	}

	a.session = session.NewManager(store, clock.System{})
	if err := a.session.Bootstrap(); err != nil {
		return err
	}
	a.client = client.New(a.apiURL, a.session)
	return nil
}

// requireLogin gates commands that need an identity.
func (a *app) requireLogin(cmd *cobra.Command, args []string) error {
	_, err := a.session.Require()
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
