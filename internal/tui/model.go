// Package tui renders the project board in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rpggio/projectboard/internal/domain/project"
)

// Service is the subset of the project service the board drives.
type Service interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Move(ctx context.Context, id string, status project.Status) (*project.Project, bool, error)
}

type focus int

const (
	focusTitle focus = iota
	focusDescription
	focusPeople
	focusBoard
	focusCount
)

type snapshotMsg project.Snapshot

// Model is the bubbletea model of the board: an input form above an active
// and a finished column.
type Model struct {
	svc     Service
	updates <-chan project.Snapshot

	inputs [focusBoard]textinput.Model
	focus  focus

	tick     int64
	active   []project.Project
	finished []project.Project
	column   project.Status
	cursor   int

	message  string
	failed   bool
	keys     keyMap
	help     help.Model
	quitting bool
}

// NewModel builds a board showing initial and following updates.
func NewModel(svc Service, initial project.Snapshot, updates <-chan project.Snapshot) Model {
	m := Model{
		svc:     svc,
		updates: updates,
		column:  project.StatusActive,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}

	labels := [focusBoard]string{"Title", "Description", "People"}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = strings.ToLower(labels[i])
		in.Width = 40
		m.inputs[i] = in
	}
	m.inputs[focusPeople].CharLimit = 3
	m.inputs[focusTitle].Focus()

	m.apply(initial)
	return m
}

// Init starts listening for board updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSnapshot(m.updates))
}

func waitForSnapshot(updates <-chan project.Snapshot) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// Update handles key presses and board updates.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.apply(project.Snapshot(msg))
		return m, waitForSnapshot(m.updates)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Abort):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % focusCount)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
		}
		if m.focus == focusBoard {
			return m.updateBoard(msg)
		}
		if key.Matches(msg, m.keys.Submit) {
			return m.submit()
		}
	}

	if m.focus == focusBoard {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.columnProjects())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Left):
		m.selectColumn(project.StatusActive)
	case key.Matches(msg, m.keys.Right):
		m.selectColumn(project.StatusFinished)
	case key.Matches(msg, m.keys.Move):
		m.moveSelected()
	}
	return m, nil
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if focus(i) == f {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	people, err := project.ParsePeople(m.inputs[focusPeople].Value())
	var proj *project.Project
	if err == nil {
		proj, err = m.svc.Create(context.Background(), project.CreateRequest{
			Title:       m.inputs[focusTitle].Value(),
			Description: m.inputs[focusDescription].Value(),
			People:      people,
		})
	}
	if err != nil {
		m.message = project.InvalidInputMessage
		m.failed = true
		return m, nil
	}

	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.message = fmt.Sprintf("Added %q", proj.Title)
	m.failed = false
	return m, m.setFocus(focusTitle)
}

// moveSelected is the keyboard version of dragging a card onto the other column.
func (m *Model) moveSelected() {
	projects := m.columnProjects()
	if len(projects) == 0 {
		return
	}
	selected := projects[m.cursor]
	target := selected.Status.Other()
	if _, _, err := m.svc.Move(context.Background(), selected.ID, target); err != nil {
		m.message = err.Error()
		m.failed = true
		return
	}
	m.message = fmt.Sprintf("Moved %q to %s", selected.Title, target)
	m.failed = false
}

func (m *Model) selectColumn(status project.Status) {
	if m.column == status {
		return
	}
	m.column = status
	m.cursor = 0
}

// apply shows snap unless a newer snapshot is already on screen.
func (m *Model) apply(snap project.Snapshot) {
	if snap.Tick < m.tick {
		return
	}
	m.tick = snap.Tick
	m.active = snap.Filter(project.StatusActive)
	m.finished = snap.Filter(project.StatusFinished)
	if n := len(m.columnProjects()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) columnProjects() []project.Project {
	if m.column == project.StatusFinished {
		return m.finished
	}
	return m.active
}

// View renders the form, the message line, both columns and the key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("PROJECT BOARD"))
	b.WriteString("\n")
	b.WriteString(m.formView())
	b.WriteString("\n")

	switch {
	case m.message != "" && m.failed:
		b.WriteString(errorStyle.Render(m.message))
	case m.message != "":
		b.WriteString(noticeStyle.Render(m.message))
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.columnView(project.StatusActive, m.active),
		m.columnView(project.StatusFinished, m.finished),
	))
	b.WriteString("\n")

	if m.focus == focusBoard {
		b.WriteString(m.help.View(boardKeys(m.keys)))
	} else {
		b.WriteString(m.help.View(formKeys(m.keys)))
	}
	return b.String()
}

func (m Model) formView() string {
	labels := [focusBoard]string{"Title", "Description", "People"}
	rows := make([]string, 0, len(m.inputs))
	for i, in := range m.inputs {
		rows = append(rows, labelStyle.Render(labels[i])+in.View())
	}
	return formStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) columnView(status project.Status, projects []project.Project) string {
	title := activeTitleStyle.Render("ACTIVE PROJECTS")
	if status == project.StatusFinished {
		title = finishedTitleStyle.Render("FINISHED PROJECTS")
	}

	focused := m.focus == focusBoard && m.column == status
	parts := []string{title}
	if len(projects) == 0 {
		parts = append(parts, dimStyle.Render("\nno projects"))
	}
	for i, p := range projects {
		style := cardStyle
		if focused && i == m.cursor {
			style = selectedCardStyle
		}
		parts = append(parts, style.Render(cardView(p)))
	}

	col := columnStyle
	if focused {
		col = focusedColumnStyle
	}
	return col.Render(strings.Join(parts, "\n"))
}

func cardView(p project.Project) string {
	people := "1 person assigned"
	if p.People != 1 {
		people = fmt.Sprintf("%d persons assigned", p.People)
	}
	return strings.Join([]string{
		cardTitleStyle.Render(p.Title),
		dimStyle.Render(people),
		p.Description,
	}, "\n")
}
