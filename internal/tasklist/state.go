// Package tasklist holds the task list view state and reconciles it with
// Task Service responses.
package tasklist

import "tasklist/internal/service"

// State is the view state. Tasks is a cache of the service, consistent only
// with the latest successful response for each task.
type State struct {
	Tasks  []service.Task
	Draft  string
	Filter Filter
}

// Visible returns the tasks matching Filter, in their original order.
// The result is a new slice; Tasks is never modified.
func (s State) Visible() []service.Task {
	visible := make([]service.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if s.Filter.Match(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// Find returns the task with the given id.
func (s State) Find(id int) (service.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// The reducers below never write through the existing Tasks slice, so
// snapshots handed out earlier stay unchanged.

func (s *State) replaceTasks(tasks []service.Task) {
	s.Tasks = append([]service.Task(nil), tasks...)
}

func (s *State) appendTask(t service.Task) {
	tasks := make([]service.Task, len(s.Tasks), len(s.Tasks)+1)
	copy(tasks, s.Tasks)
	s.Tasks = append(tasks, t)
}

func (s *State) setCompleted(id int, completed bool) {
	tasks := make([]service.Task, len(s.Tasks))
	for i, t := range s.Tasks {
		if t.ID == id {
			t.Completed = completed
		}
		tasks[i] = t
	}
	s.Tasks = tasks
}

func (s *State) removeTask(id int) {
	tasks := make([]service.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	s.Tasks = tasks
}
