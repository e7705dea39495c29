package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"tasklist/internal/tasklist"
)

type styles struct {
	title    lipgloss.Style
	active   lipgloss.Style
	muted    lipgloss.Style
	cursor   lipgloss.Style
	done     lipgloss.Style
	help     lipgloss.Style
	inflight lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		active:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent),
		muted:    lipgloss.NewStyle().Foreground(muted),
		cursor:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		done:     lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		help:     lipgloss.NewStyle().Foreground(muted),
		inflight: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

var filterLabels = map[tasklist.Filter]string{
	tasklist.FilterAll:       "[a] All",
	tasklist.FilterCompleted: "[c] Completed",
	tasklist.FilterPending:   "[p] Pending",
}

// View renders the task list.
func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m Model) render() string {
	var b strings.Builder
	state := m.store.State()

	b.WriteString(m.styles.title.Render("To-Do List"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	labels := make([]string, 0, len(tasklist.Filters))
	for _, f := range tasklist.Filters {
		if f == state.Filter {
			labels = append(labels, m.styles.active.Render(filterLabels[f]))
		} else {
			labels = append(labels, m.styles.muted.Render(filterLabels[f]))
		}
	}
	b.WriteString(strings.Join(labels, "  "))
	b.WriteString("\n\n")

	visible := state.Visible()
	if len(visible) == 0 {
		b.WriteString(m.styles.muted.Render("no tasks"))
		b.WriteString("\n")
	}
	for i, t := range visible {
		marker := "  "
		if m.focus == focusList && i == m.cursor {
			marker = m.styles.cursor.Render("> ")
		}
		check := "[ ]"
		text := t.Todo
		if t.Completed {
			check = "[x]"
			text = m.styles.done.Render(text)
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, check, text)
	}

	b.WriteString("\n")
	if n := m.store.Pending(); n > 0 {
		b.WriteString(m.styles.inflight.Render(fmt.Sprintf("%d pending", n)))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.help.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) helpLine() string {
	if m.focus == focusInput {
		return "enter add • tab list • ctrl+c quit"
	}
	return "↑/↓ move • space toggle • d delete • a/c/p filter • tab input • q quit"
}
