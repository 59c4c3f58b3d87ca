package cli

import (
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newCompanyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage companies",
	}
	cmd.AddCommand(
		newCompanyAddCmd(app),
		newCompanyListCmd(app),
		newCompanyShowCmd(app),
		newCompanyUpdateCmd(app),
		newCompanyRemoveCmd(app),
	)
	return cmd
}

func newCompanyAddCmd(app *App) *cobra.Command {
	var name, desc string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a company owned by the acting profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.Company{Name: name, Description: desc}
			if err := app.Companies.Create(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created company %s [%s]\n", c.Name, c.DisplayID())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Company name")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCompanyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies you are an active member of",
		RunE: func(cmd *cobra.Command, args []string) error {
			companies, err := app.Companies.ListForUser(cmd.Context())
			if err != nil {
				return err
			}
			if len(companies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No companies found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCompanyList(companies))
			return nil
		},
	}
}

func newCompanyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a company with its members and projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCompanyID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Companies.Get(ctx, id)
			if err != nil {
				return err
			}
			members, err := app.Members.List(ctx, id)
			if err != nil {
				return err
			}
			projects, err := app.Projects.ListByCompany(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				formatter.FormatCompanyDetail(c, members, profileNames(cmd, app), projects, app.now()))
			return nil
		},
	}
}

func newCompanyUpdateCmd(app *App) *cobra.Command {
	var name, desc string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Rename or describe a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCompanyID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Companies.Get(ctx, id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				c.Name = name
			}
			if cmd.Flags().Changed("desc") {
				c.Description = desc
			}
			if err := app.Companies.Update(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated company %s\n", c.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Company name")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	return cmd
}

func newCompanyRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a company; its projects are kept without a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCompanyID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Companies.Get(ctx, id)
			if err != nil {
				return err
			}
			ok, err := confirmDestructive(cmd, app, fmt.Sprintf("Delete company %q?", c.Name))
			if err != nil || !ok {
				return err
			}
			if err := app.Companies.Delete(ctx, id); err != nil {
				return err
			}
			if sel := app.Sidebar.SelectedCompany(); sel != nil && sel.ID == id {
				if err := app.Sidebar.SetSelectedCompany(ctx, nil); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted company %s\n", c.Name)
			return nil
		},
	}
	addYesFlag(cmd)
	return cmd
}
