package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/projectboard/internal/domain/project"
)

type board struct {
	state   *project.State
	svc     *project.Service
	updates <-chan project.Snapshot
}

func newBoard(t *testing.T) *board {
	t.Helper()
	state := project.NewState()
	updates, sub := state.SubscribeChan(16)
	t.Cleanup(sub.Unsubscribe)
	return &board{
		state:   state,
		svc:     project.NewService(state, project.DefaultRules(), nil),
		updates: updates,
	}
}

func (b *board) model() Model {
	return NewModel(b.svc, b.state.Snapshot(), b.updates)
}

// drain feeds every pending snapshot to m.
func (b *board) drain(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case snap := <-b.updates:
			updated, cmd := m.Update(snapshotMsg(snap))
			assert.NotNil(t, cmd)
			m = updated.(Model)
		default:
			return m
		}
	}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func fillForm(t *testing.T, m Model, title, description, people string) Model {
	t.Helper()
	return send(t, m, typeText(title), tab, typeText(description), tab, typeText(people))
}

func TestModel_SubmitAddsProjectAndClearsForm(t *testing.T) {
	b := newBoard(t)
	m := fillForm(t, b.model(), "Build API", "backend work", "3")

	m = send(t, m, enter)
	assert.False(t, m.failed)
	assert.Contains(t, m.message, "Build API")
	assert.Equal(t, focusTitle, m.focus)
	for _, in := range m.inputs {
		assert.Empty(t, in.Value())
	}
	require.Equal(t, 1, b.state.Len())

	m = b.drain(t, m)
	require.Len(t, m.active, 1)
	assert.Empty(t, m.finished)
	assert.Contains(t, m.View(), "Build API")
	assert.Contains(t, m.View(), "3 persons assigned")
}

func TestModel_InvalidInputKeepsForm(t *testing.T) {
	b := newBoard(t)
	m := fillForm(t, b.model(), "Short", "backend work", "3")

	m = send(t, m, enter)
	assert.True(t, m.failed)
	assert.Equal(t, project.InvalidInputMessage, m.message)
	assert.Equal(t, "Short", m.inputs[focusTitle].Value())
	assert.Equal(t, "3", m.inputs[focusPeople].Value())
	assert.Equal(t, 0, b.state.Len())
	assert.Contains(t, m.View(), project.InvalidInputMessage)
}

func TestModel_PeopleBoundsAreExclusive(t *testing.T) {
	for _, people := range []string{"1", "5", "x"} {
		b := newBoard(t)
		m := fillForm(t, b.model(), "Build API", "backend work", people)
		m = send(t, m, enter)
		assert.True(t, m.failed, "people=%s", people)
		assert.Equal(t, 0, b.state.Len(), "people=%s", people)
	}
}

func TestModel_MoveSelectedCard(t *testing.T) {
	b := newBoard(t)
	b.state.AddProject("First project", "one", 2)
	second := b.state.AddProject("Second project", "two", 3)
	m := b.drain(t, b.model())
	require.Len(t, m.active, 2)

	// tab three times reaches the board.
	m = send(t, m, tab, tab, tab)
	require.Equal(t, focusBoard, m.focus)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, space)
	assert.False(t, m.failed)
	m = b.drain(t, m)
	require.Len(t, m.active, 1)
	require.Len(t, m.finished, 1)
	assert.Equal(t, second.ID, m.finished[0].ID)
	assert.Equal(t, 0, m.cursor)

	// Moving it back from the finished column.
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight}, typeText("m"))
	m = b.drain(t, m)
	require.Len(t, m.active, 2)
	assert.Equal(t, second.ID, m.active[1].ID, "moving keeps insertion order")
}

func TestModel_MoveOnEmptyColumnIsNoop(t *testing.T) {
	b := newBoard(t)
	m := send(t, b.model(), tab, tab, tab, space)
	assert.Empty(t, m.message)
	assert.Equal(t, 0, b.state.Len())
}

func TestModel_QuitOnlyFromBoard(t *testing.T) {
	b := newBoard(t)
	m := send(t, b.model(), typeText("q"))
	assert.False(t, m.quitting)
	assert.Equal(t, "q", m.inputs[focusTitle].Value())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, focusBoard, m.focus)
	updated, cmd := m.Update(typeText("q"))
	assert.True(t, updated.(Model).quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, updated.(Model).View())
}

func TestModel_CtrlCQuitsFromForm(t *testing.T) {
	b := newBoard(t)
	updated, cmd := b.model().Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, updated.(Model).quitting)
	assert.NotNil(t, cmd)
}

func TestModel_IgnoresStaleSnapshot(t *testing.T) {
	b := newBoard(t)
	b.state.AddProject("First project", "one", 2)
	b.state.AddProject("Second project", "two", 3)
	m := b.model()
	require.Len(t, m.active, 2)

	stale := project.Snapshot{Tick: 1, Projects: []project.Project{{ID: "old", Status: project.StatusActive}}}
	m = send(t, m, snapshotMsg(stale))
	assert.Len(t, m.active, 2)
}

func TestModel_ViewShowsBothColumns(t *testing.T) {
	b := newBoard(t)
	view := b.model().View()
	assert.Contains(t, view, "ACTIVE PROJECTS")
	assert.Contains(t, view, "FINISHED PROJECTS")
	assert.Contains(t, view, "no projects")
}

func TestCardView_SinglePerson(t *testing.T) {
	assert.Contains(t, cardView(project.Project{Title: "Solo", People: 1}), "1 person assigned")
}

func TestRun_UnsubscribesOnExit(t *testing.T) {
	b := newBoard(t)
	before := b.state.SubscriberCount()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, b.svc, b.state, tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())
	require.NoError(t, err)
	assert.Equal(t, before, b.state.SubscriberCount())
}
