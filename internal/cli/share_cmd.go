package cli

import (
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newShareCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share a project's cost data with other profiles",
	}
	cmd.AddCommand(newShareGrantCmd(app), newShareRevokeCmd(app), newShareListCmd(app))
	return cmd
}

func newShareGrantCmd(app *App) *cobra.Command {
	var perm string

	cmd := &cobra.Command{
		Use:   "grant PROJECT USER",
		Short: "Grant view or edit access; granting again replaces the permission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			share, err := app.Shares.Grant(cmd.Context(), projectID, args[1], domain.PermissionType(perm))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s can now %s cost data\n", share.SharedWithID, share.PermissionType)
			return nil
		},
	}
	addChoiceFlag(cmd.Flags(), &perm, "perm", string(domain.PermissionView), domain.ValidPermissionTypes, "view|edit")
	return cmd
}

func newShareRevokeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke PROJECT USER",
		Short: "Revoke a cost share",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Shares.Revoke(cmd.Context(), projectID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revoked access for %s\n", args[1])
			return nil
		},
	}
}

func newShareListCmd(app *App) *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "list [PROJECT]",
		Short: "List a project's shares, or with --mine the shares granted to you",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				shares []*domain.CostShare
				err    error
			)
			switch {
			case mine:
				shares, err = app.Shares.ListSharedWithMe(ctx)
			case len(args) == 1:
				var projectID string
				if projectID, err = resolveProjectID(ctx, app, args[0]); err != nil {
					return err
				}
				shares, err = app.Shares.ListByProject(ctx, projectID)
			default:
				return fmt.Errorf("give a PROJECT or --mine")
			}
			if err != nil {
				return err
			}
			if len(shares) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No shares.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatShareList(shares, profileNames(cmd, app)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "List projects shared with you")
	return cmd
}
