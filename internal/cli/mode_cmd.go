package cli

import (
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// newModeCmd exposes the persisted sidebar context: the navigation mode
// and the selected company and project.
func newModeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Show or change the navigation context",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the current mode and selections",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSidebarState(app.Sidebar.State()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "project ID",
			Short: "Focus on one project",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				id, err := resolveProjectID(ctx, app, args[0])
				if err != nil {
					return err
				}
				p, err := app.Projects.Get(ctx, id)
				if err != nil {
					return err
				}
				if err := app.Sidebar.SwitchToProjectMode(ctx, p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Now working in project %s\n", p.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "all",
			Short: "Leave the current project and show all projects",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Sidebar.SwitchToAllProjectsMode(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Showing all projects.")
				return nil
			},
		},
		newModeCompanyCmd(app),
	)
	return cmd
}

func newModeCompanyCmd(app *App) *cobra.Command {
	var clearSel bool

	cmd := &cobra.Command{
		Use:   "company [ID]",
		Short: "Select a company, or clear the selection with --clear",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if clearSel {
				if err := app.Sidebar.SetSelectedCompany(ctx, nil); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Company selection cleared.")
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("give a company ID or --clear")
			}
			id, err := resolveCompanyID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Companies.Get(ctx, id)
			if err != nil {
				return err
			}
			if err := app.Sidebar.SetSelectedCompany(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected company %s\n", c.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearSel, "clear", false, "Clear the selected company")
	return cmd
}
