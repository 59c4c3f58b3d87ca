package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// huhConfirm asks title on the terminal.
func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Keep").
				Value(&ok),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithShowHelp(false).Run()
	return ok, err
}

// confirmDestructive asks before a delete when stdin is a terminal and
// --yes was not given. Non-interactive runs proceed.
func confirmDestructive(cmd *cobra.Command, app *App, title string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes || !app.interactive() {
		return true, nil
	}
	confirm := app.Confirm
	if confirm == nil {
		confirm = huhConfirm
	}
	ok, err := confirm(title)
	if err != nil {
		return false, fmt.Errorf("confirmation: %w", err)
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
	}
	return ok, nil
}

func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
