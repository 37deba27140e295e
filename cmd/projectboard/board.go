package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rpggio/projectboard/internal/tui"
)

func newBoardCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		Long: `Open the board in the terminal.

Fill in title, description and people, then press enter to add a project.
Tab moves between the form fields and the board. On the board, arrow keys
select a card and space (or m) moves it to the other column.

Logs are only written when log.path is set, so they do not garble the screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cmd.Context(), cfg, io.Discard)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.Run(cmd.Context(), a.Projects, a.State, tea.WithAltScreen())
		},
	}
}
