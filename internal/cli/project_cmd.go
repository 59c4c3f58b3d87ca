package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/repository"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
		newProjectFavCmd(app),
		newProjectFavsCmd(app),
	)
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, desc, company, status, start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := &domain.Project{
				Name:        name,
				Description: desc,
				Status:      domain.ProjectStatus(status),
			}
			if company != "" {
				id, err := resolveCompanyID(ctx, app, company)
				if err != nil {
					return err
				}
				p.CompanyID = id
			}
			var err error
			if p.StartDate, err = parseDate(start); err != nil {
				return err
			}
			if p.EndDate, err = parseDate(end); err != nil {
				return err
			}
			if err := app.Projects.Create(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.DisplayID())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().StringVar(&company, "company", "", "Owning company ID or prefix")
	addChoiceFlag(cmd.Flags(), &status, "status", string(domain.ProjectPlanning), domain.ValidProjectStatuses, "planning|active|completed|on_hold")
	addDateFlag(cmd.Flags(), &start, "start", "Start date")
	addDateFlag(cmd.Flags(), &end, "end", "End date")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				projects []*domain.Project
				err      error
			)
			if company != "" {
				id, rerr := resolveCompanyID(ctx, app, company)
				if rerr != nil {
					return rerr
				}
				projects, err = app.Projects.ListByCompany(ctx, id)
			} else {
				projects, err = app.Projects.List(ctx)
			}
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			favs := map[string]bool{}
			if list, err := app.Projects.ListFavorites(ctx); err == nil {
				for _, p := range list {
					favs[p.ID] = true
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, favs))
			return nil
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "Only projects of this company")
	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show project details and its root tasks",
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
			data := formatter.ProjectDetailData{Project: p}
			if p.CompanyID != "" {
				c, err := app.Companies.Get(ctx, p.CompanyID)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return err
				}
				data.Company = c
			}
			if data.Forest, err = app.Tasks.LoadForest(ctx, id); err != nil {
				return err
			}
			if data.Favorite, err = app.Projects.IsFavorite(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(data))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, desc, status, start, end string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project",
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
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("desc") {
				p.Description = desc
			}
			if flags.Changed("status") {
				p.Status = domain.ProjectStatus(status)
			}
			if flags.Changed("start") {
				if p.StartDate, err = parseDate(start); err != nil {
					return err
				}
			}
			if flags.Changed("end") {
				if p.EndDate, err = parseDate(end); err != nil {
					return err
				}
			}
			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}
			if sel := app.Sidebar.SelectedProject(); sel != nil && sel.ID == p.ID {
				if err := app.Sidebar.SetSelectedProject(ctx, p); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", p.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	addChoiceFlag(cmd.Flags(), &status, "status", "", domain.ValidProjectStatuses, "planning|active|completed|on_hold")
	addDateFlag(cmd.Flags(), &start, "start", "Start date")
	addDateFlag(cmd.Flags(), &end, "end", "End date")
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a project with all its tasks",
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
			ok, err := confirmDestructive(cmd, app, fmt.Sprintf("Delete project %q and all its tasks?", p.Name))
			if err != nil || !ok {
				return err
			}
			if err := app.Projects.Delete(ctx, id); err != nil {
				return err
			}
			if sel := app.Sidebar.SelectedProject(); sel != nil && sel.ID == id {
				if err := app.Sidebar.SwitchToAllProjectsMode(ctx); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", p.Name)
			return nil
		},
	}
	addYesFlag(cmd)
	return cmd
}

func newProjectFavCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fav ID",
		Short: "Toggle a project as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			on, err := app.Projects.ToggleFavorite(ctx, id)
			if err != nil {
				return err
			}
			if on {
				fmt.Fprintln(cmd.OutOrStdout(), "Added to favorites.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Removed from favorites.")
			}
			return nil
		},
	}
}

func newProjectFavsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "favs",
		Short: "List favorite projects, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.ListFavorites(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No favorite projects.")
				return nil
			}
			favs := make(map[string]bool, len(projects))
			for _, p := range projects {
				favs[p.ID] = true
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, favs))
			return nil
		},
	}
}
