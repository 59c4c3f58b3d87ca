package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse projects and edit tasks interactively",
		Long: `Open a full-screen browser over your projects. The selected
project and sidebar mode are shared with the "mode" command, so a
selection made here is still active in later commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("tui needs an interactive terminal")
			}
			m := newTUIModel(cmd.Context(), app)
			defer m.stop()
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
}
