package cli

import (
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage user profiles",
	}
	cmd.AddCommand(newProfileAddCmd(app), newProfileListCmd(app))
	return cmd
}

func newProfileAddCmd(app *App) *cobra.Command {
	var id, email, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Profile{ID: id, Email: email, DisplayName: name}
			if err := app.Profiles.Register(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered profile %s [%s]\n", p.Name(), p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Profile id (generated when empty)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newProfileListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := app.Profiles.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No profiles found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfileList(profiles))
			return nil
		},
	}
}

// profileNames maps profile ids to display names for member and share
// listings. Lookup failures yield an empty map.
func profileNames(cmd *cobra.Command, app *App) map[string]string {
	names := map[string]string{}
	profiles, err := app.Profiles.List(cmd.Context())
	if err != nil {
		return names
	}
	for _, p := range profiles {
		names[p.ID] = p.Name()
	}
	return names
}
