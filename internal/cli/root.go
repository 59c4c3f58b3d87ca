package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "wbsdesk" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	opts := app.Options

	root := &cobra.Command{
		Use:           "wbsdesk",
		Short:         "Work breakdown structures for companies and projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Open == nil {
				return nil
			}
			opened, err := app.Open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			app.adopt(opened)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.DBPath, "db", opts.DBPath, "SQLite database path (env WBSDESK_DB)")
	root.PersistentFlags().StringVar(&opts.User, "as", opts.User, "Acting profile id (env WBSDESK_USER)")

	root.AddCommand(
		newProfileCmd(app),
		newCompanyCmd(app),
		newMemberCmd(app),
		newProjectCmd(app),
		newTaskCmd(app),
		newShareCmd(app),
		newModeCmd(app),
		newTUICmd(app),
	)
	return root
}
