package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rpggio/projectboard/internal/domain/project"
)

const updateBuffer = 8

// Run shows the board until the user quits or ctx is done. The board follows
// state through a channel subscription that is removed on return.
func Run(ctx context.Context, svc Service, state *project.State, opts ...tea.ProgramOption) error {
	updates, sub := state.SubscribeChan(updateBuffer)
	defer sub.Unsubscribe()

	model := NewModel(svc, state.Snapshot(), updates)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(model, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
