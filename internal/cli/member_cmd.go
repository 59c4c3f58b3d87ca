package cli

import (
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newMemberCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage company members",
	}
	cmd.AddCommand(
		newMemberAddCmd(app),
		newMemberListCmd(app),
		newMemberRoleCmd(app),
		newMemberStatusCmd(app),
		newMemberRemoveCmd(app),
	)
	return cmd
}

func newMemberAddCmd(app *App) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add COMPANY USER",
		Short: "Add a profile to a company",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := resolveCompanyID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			m, err := app.Members.Add(cmd.Context(), companyID, args[1], domain.MemberRole(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s as %s\n", m.UserID, m.Role)
			return nil
		},
	}
	addChoiceFlag(cmd.Flags(), &role, "role", string(domain.RoleMember), domain.ValidMemberRoles, "owner|admin|member")
	return cmd
}

func newMemberListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list COMPANY",
		Short: "List company members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := resolveCompanyID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			members, err := app.Members.List(cmd.Context(), companyID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMemberList(members, profileNames(cmd, app), app.now()))
			return nil
		},
	}
}

func newMemberRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "role COMPANY USER ROLE",
		Short: "Change a member's role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := resolveCompanyID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Members.UpdateRole(cmd.Context(), companyID, args[1], domain.MemberRole(args[2])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[1], args[2])
			return nil
		},
	}
}

func newMemberStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status COMPANY USER STATUS",
		Short: "Change a member's status (active|inactive|pending|suspended)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := resolveCompanyID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Members.UpdateStatus(cmd.Context(), companyID, args[1], domain.MemberStatus(args[2])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[1], args[2])
			return nil
		},
	}
}

func newMemberRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm COMPANY USER",
		Short: "Remove a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := resolveCompanyID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDestructive(cmd, app, fmt.Sprintf("Remove %s from the company?", args[1]))
			if err != nil || !ok {
				return err
			}
			if err := app.Members.Remove(cmd.Context(), companyID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[1])
			return nil
		},
	}
	addYesFlag(cmd)
	return cmd
}
