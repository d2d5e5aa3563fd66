package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/family-health-api/cmd/hrmctl/ui"
	"github.com/redmonkez12/family-health-api/internal/client"
)

func fieldFlags(cmd *cobra.Command, withUnset bool) {
	cmd.Flags().StringArray("set", nil, "Field to send as key=value (repeatable)")
	if withUnset {
		cmd.Flags().StringArray("unset", nil, "Optional field to clear (repeatable)")
	}
}

func readFields(cmd *cobra.Command) (map[string]any, error) {
	set, _ := cmd.Flags().GetStringArray("set")
	var unset []string
	if cmd.Flags().Lookup("unset") != nil {
		unset, _ = cmd.Flags().GetStringArray("unset")
	}
	return parseFields(set, unset)
}

// confirmDelete asks before deleting unless --yes was given.
func confirmDelete(cmd *cobra.Command, what string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	return ui.Confirm("Delete " + what + "?")
}

func (a *app) membersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "members",
		Short:             "Family members on the account",
		PersistentPreRunE: a.requireLogin,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List family members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := a.client.ListFamilyMembers(cmd.Context())
			if err != nil {
				return err
			}
			return ui.PrintJSON(cmd.OutOrStdout(), "Family members", members)
		},
	}

	add := &cobra.Command{
		Use:     "add",
		Short:   "Add a family member",
		Example: "  hrmctl members add --set name=Ada --set relation=daughter --set dateOfBirth=2016-02-29",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readFields(cmd)
			if err != nil {
				return err
			}
			fm, err := a.client.CreateFamilyMember(cmd.Context(), body)
			if err != nil {
				return err
			}
			return ui.PrintJSON(cmd.OutOrStdout(), "Created", fm)
		},
	}
	fieldFlags(add, false)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one family member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			fm, err := a.client.GetFamilyMember(cmd.Context(), id)
			if err != nil {
				return err
			}
			return ui.PrintJSON(cmd.OutOrStdout(), "", fm)
		},
	}

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a family member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			body, err := readFields(cmd)
			if err != nil {
				return err
			}
			fm, err := a.client.UpdateFamilyMember(cmd.Context(), id, body)
			if err != nil {
				return err
			}
			return ui.PrintJSON(cmd.OutOrStdout(), "Updated", fm)
		},
	}
	fieldFlags(update, false)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a family member with all of their records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDelete(cmd, fmt.Sprintf("family member %d and all of their records", id))
			if err != nil || !ok {
				return err
			}
			res, err := a.client.DeleteFamilyMember(cmd.Context(), id)
			if err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	del.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	cmd.AddCommand(list, add, get, update, del)
	return cmd
}

// scopedCmd builds the command group for one kind of resource nested under a
// family member. Every subcommand takes --member.
func scopedCmd[T any](a *app, use, short string, resource func(*client.Client) *client.Scoped[T]) *cobra.Command {
	var memberID int64

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(cmd, args); err != nil {
				return err
			}
			if memberID <= 0 {
				return fmt.Errorf("--member must be a positive family member id")
			}
			return nil
		},
	}
	cmd.PersistentFlags().Int64VarP(&memberID, "member", "m", 0, "Family member id")

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := resource(a.client).List(cmd.Context(), memberID)
			if err != nil {
				return err
			}
			return ui.PrintJSON(cmd.OutOrStdout(), short, items)
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Create one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readFields(cmd)
			if err != nil {
				return err
			}
			v, err := resource(a.client).Create(cmd.Context(), memberID, body)
			if err != nil {
				return err
			}
			return ui.PrintJSON(cmd.OutOrStdout(), "Created", v)
		},
	}
	fieldFlags(add, false)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			v, err := resource(a.client).Get(cmd.Context(), memberID, id)
			if err != nil {
				return err
			}
			return ui.PrintJSON(cmd.OutOrStdout(), "", v)
		},
	}

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			body, err := readFields(cmd)
			if err != nil {
				return err
			}
			v, err := resource(a.client).Update(cmd.Context(), memberID, id, body)
			if err != nil {
				return err
			}
			return ui.PrintJSON(cmd.OutOrStdout(), "Updated", v)
		},
	}
	fieldFlags(update, true)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDelete(cmd, fmt.Sprintf("%s entry %d", use, id))
			if err != nil || !ok {
				return err
			}
			res, err := resource(a.client).Delete(cmd.Context(), memberID, id)
			if err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	del.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	cmd.AddCommand(list, add, get, update, del)
	return cmd
}
