// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasklist/internal/service"
)

// FormatTask formats one task line.
// Format: "{ID:>4}  [x] {TODO}\n", with "[ ]" for pending tasks.
func FormatTask(w io.Writer, task service.Task) {
	check := "[ ]"
	if task.Completed {
		check = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", task.ID, check, normalizeTodo(task.Todo))
}

// FormatTasks formats tasks in order.
func FormatTasks(w io.Writer, tasks []service.Task) {
	for _, t := range tasks {
		FormatTask(w, t)
	}
}

// normalizeTodo normalizes task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeTodo(todo string) string {
	todo = strings.ReplaceAll(todo, "\r", " ")
	todo = strings.ReplaceAll(todo, "\n", " ")

	if strings.TrimSpace(todo) == "" {
		return "(untitled)"
	}
	return todo
}
