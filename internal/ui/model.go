// Package ui is the interactive task list view.
//
// Every Task Service call runs as a tea.Cmd; its tasklist.Result comes back
// as a message and is applied in Update, one message at a time.
package ui

import (
	"context"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"tasklist/internal/service"
	"tasklist/internal/tasklist"
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// Model is the Bubble Tea model for the task list.
type Model struct {
	ctx    context.Context
	store  *tasklist.Store
	input  textinput.Model
	focus  focus
	cursor int
	width  int
	styles styles
}

// New creates a Model over store. Requests run with ctx.
func New(ctx context.Context, store *tasklist.Store) Model {
	in := textinput.New()
	in.Placeholder = "Add a new task"
	in.Prompt = "> "
	in.Focus()

	return Model{
		ctx:    ctx,
		store:  store,
		input:  in,
		focus:  focusInput,
		styles: defaultStyles(),
	}
}

// Run starts the interactive view and blocks until the user quits or ctx
// is cancelled. The store is closed on return.
func Run(ctx context.Context, store *tasklist.Store, opts ...tea.ProgramOption) error {
	defer store.Close()
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, store), opts...).Run()
	return err
}

// Init issues the initial load.
func (m Model) Init() tea.Cmd {
	return m.request(m.store.Load())
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasklist.Result:
		// Failures are logged by the store; the view stays as it was.
		_ = m.store.Resolve(msg)
		m.clampCursor()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 4 {
			m.input.SetWidth(msg.Width - 4)
		}
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.store.SetDraft(m.input.Value())
		req, ok := m.store.AddTask()
		if !ok {
			return m, nil
		}
		m.input.SetValue(m.store.State().Draft)
		return m, m.request(req)

	case "tab", "esc":
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.store.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) updateList(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()

	case "tab", "i":
		m.focus = focusInput
		return m, m.input.Focus()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.store.Visible())-1 {
			m.cursor++
		}

	case "space", " ", "enter":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if req, ok := m.store.Toggle(task.ID); ok {
			return m, m.request(req)
		}

	case "d", "x", "delete":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.request(m.store.Delete(task.ID))

	case "a":
		m.setFilter(tasklist.FilterAll)
	case "c":
		m.setFilter(tasklist.FilterCompleted)
	case "p":
		m.setFilter(tasklist.FilterPending)
	}
	return m, nil
}

func (m *Model) setFilter(f tasklist.Filter) {
	m.store.SetFilter(f)
	m.clampCursor()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.store.Close()
	return m, tea.Quit
}

// request turns an issued request into a command whose message is its result.
func (m Model) request(req tasklist.Request) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return req.Do(ctx)
	}
}

func (m Model) selected() (service.Task, bool) {
	visible := m.store.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return service.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.store.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
