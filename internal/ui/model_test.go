package ui

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"tasklist/internal/tasklist"
	"tasklist/internal/testutil"
)

var ansiEscapePattern = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z]`)

func stripANSI(in string) string {
	return ansiEscapePattern.ReplaceAllString(in, "")
}

// newModel builds a Model over svc and runs its initial load.
func newModel(t *testing.T, svc *testutil.FakeService) Model {
	t.Helper()
	m := New(context.Background(), tasklist.NewStore(svc, 1, nil))
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 80, Height: 24})
}

// applyMsg applies msg and runs the resulting commands.
func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	return applyCmd(t, cast(t, updated), cmd)
}

// applyCmd runs cmd and feeds its message back into the model.
func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	for i := 0; i < 6 && cmd != nil; i++ {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return out
		}
		var updated tea.Model
		updated, cmd = out.Update(msg)
		out = cast(t, updated)
	}
	return out
}

// press applies msg without running the returned command.
func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return cast(t, updated), cmd
}

func cast(t *testing.T, updated tea.Model) Model {
	t.Helper()
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		// Input commands are cursor blinks; they are not run here.
		m, _ = press(t, m, keyRune(r))
	}
	return m
}

func rendered(m Model) string {
	return stripANSI(fmt.Sprint(m.View().Content))
}

func TestModel_InitLoadsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", false)
	svc.AddTask("Walk dog", true)

	m := newModel(t, svc)

	out := rendered(m)
	if !strings.Contains(out, "[ ] Buy milk") {
		t.Errorf("expected pending task line, got %q", out)
	}
	if !strings.Contains(out, "[x] Walk dog") {
		t.Errorf("expected completed task line, got %q", out)
	}
	if m.store.Pending() != 0 {
		t.Errorf("expected nothing pending, got %d", m.store.Pending())
	}
}

func TestModel_LoadFailureKeepsViewUsable(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListErr = testutil.ErrUnavailable

	m := newModel(t, svc)
	if !strings.Contains(rendered(m), "no tasks") {
		t.Errorf("expected empty list, got %q", rendered(m))
	}

	// Still accepts input after the failure.
	m = typeText(t, m, "Still works")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(rendered(m), "[ ] Still works") {
		t.Errorf("expected added task, got %q", rendered(m))
	}
}

func TestModel_EnterAddsTaskAndClearsInputAtOnce(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	m = typeText(t, m, "Call mom")
	if m.store.State().Draft != "Call mom" {
		t.Fatalf("expected draft to follow input, got %q", m.store.State().Draft)
	}

	m, cmd := press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a create command")
	}
	// Cleared before the create resolves.
	if m.input.Value() != "" || m.store.State().Draft != "" {
		t.Errorf("expected input cleared at once, got %q", m.input.Value())
	}
	if !strings.Contains(rendered(m), "1 pending") {
		t.Errorf("expected pending indicator, got %q", rendered(m))
	}

	m = applyCmd(t, m, cmd)
	tasks := m.store.State().Tasks
	if len(tasks) != 1 || tasks[0].ID != 1 || tasks[0].Todo != "Call mom" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestModel_EnterWithBlankInputDoesNothing(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	m = typeText(t, m, "   ")
	_, cmd := press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if cmd != nil {
		t.Error("expected no command for blank input")
	}
	if calls := svc.Calls(); !reflect.DeepEqual(calls, []string{"list"}) {
		t.Errorf("expected no create call, got %v", calls)
	}
}

func TestModel_FailedAddStillClearsInput(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateErr = testutil.ErrUnavailable
	m := newModel(t, svc)

	m = typeText(t, m, "Lost")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.input.Value() != "" {
		t.Errorf("expected input cleared, got %q", m.input.Value())
	}
	if len(m.store.State().Tasks) != 0 {
		t.Errorf("expected no tasks, got %+v", m.store.State().Tasks)
	}
}

func TestModel_ToggleSelectedTask(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("first", false)
	svc.AddTask("second", false)
	m := newModel(t, svc)

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = applyMsg(t, m, keyRune(' '))

	out := rendered(m)
	if !strings.Contains(out, "[ ] first") || !strings.Contains(out, "> [x] second") {
		t.Errorf("expected second task toggled under cursor, got %q", out)
	}
}

func TestModel_DoubleToggleRace(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Read", false)
	m := newModel(t, svc)
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})

	m, first := press(t, m, keyRune(' '))
	m, second := press(t, m, keyRune(' '))
	if first == nil || second == nil {
		t.Fatal("expected two update commands")
	}

	firstMsg, secondMsg := first(), second()
	m, _ = press(t, m, secondMsg)
	m, _ = press(t, m, firstMsg)

	if !m.store.State().Tasks[0].Completed {
		t.Error("expected completed=true after two racing toggles")
	}
}

func TestModel_DeleteSelectedTask(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("keep", false)
	svc.AddTask("drop", false)
	m := newModel(t, svc)

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, keyRune('d'))

	tasks := m.store.State().Tasks
	if len(tasks) != 1 || tasks[0].Todo != "keep" {
		t.Errorf("expected only 'keep' left, got %+v", tasks)
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}
}

func TestModel_FilterKeys(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("open", false)
	svc.AddTask("closed", true)
	m := newModel(t, svc)
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})

	m = applyMsg(t, m, keyRune('c'))
	out := rendered(m)
	if strings.Contains(out, "open") || !strings.Contains(out, "closed") {
		t.Errorf("expected only completed tasks, got %q", out)
	}

	m = applyMsg(t, m, keyRune('p'))
	out = rendered(m)
	if !strings.Contains(out, "[ ] open") || strings.Contains(out, "closed") {
		t.Errorf("expected only pending tasks, got %q", out)
	}

	m = applyMsg(t, m, keyRune('a'))
	if got := len(m.store.Visible()); got != 2 {
		t.Errorf("expected 2 visible tasks, got %d", got)
	}
	if calls := svc.Calls(); len(calls) != 1 {
		t.Errorf("filter made requests: %v", calls)
	}
}

func TestModel_QuitClosesStore(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	m = typeText(t, m, "late")
	m, addCmd := press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	m, quitCmd := press(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if quitCmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := quitCmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}

	// The create still completes, but the closed view ignores it.
	m, _ = press(t, m, addCmd())
	if len(m.store.State().Tasks) != 0 {
		t.Errorf("state changed after quit: %+v", m.store.State().Tasks)
	}
}

func TestModel_TabReturnsToInput(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != focusList {
		t.Fatal("expected list focus")
	}
	// 'a' is a filter key in the list, not text.
	m = applyMsg(t, m, keyRune('a'))
	m, _ = press(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != focusInput {
		t.Fatal("expected input focus")
	}
	m = typeText(t, m, "ab")
	if m.input.Value() != "ab" {
		t.Errorf("expected input 'ab', got %q", m.input.Value())
	}
}
