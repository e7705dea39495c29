// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tasklist/internal/service"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = service.Errorf("fake", 404, "not found")

// ErrUnavailable is a ready-made service failure for error injection.
var ErrUnavailable = &service.Error{Op: "fake", Err: errors.New("service unavailable")}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int
	calls  []string

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeService creates a FakeService holding seed, in order.
// Created tasks get ids after the highest seeded id.
func NewFakeService(seed ...service.Task) *FakeService {
	f := &FakeService{nextID: 1}
	for _, t := range seed {
		f.tasks = append(f.tasks, t)
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}
	return f
}

// AddTask adds a task directly, bypassing Create and the call log.
func (f *FakeService) AddTask(todo string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: f.nextID, Todo: todo, Completed: completed, UserID: 1}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns the calls made so far, e.g. "list", "create", "update 3".
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// List implements service.Service.
func (f *FakeService) List(ctx context.Context) ([]service.Task, error) {
	f.record("list")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Tasks(), nil
}

// Create implements service.Service.
func (f *FakeService) Create(ctx context.Context, task service.NewTask) (service.Task, error) {
	f.record("create")
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := service.Task{ID: f.nextID, Todo: task.Todo, Completed: task.Completed, UserID: task.UserID}
	f.nextID++
	f.tasks = append(f.tasks, created)
	return created, nil
}

// Update implements service.Service.
func (f *FakeService) Update(ctx context.Context, task service.Task) (service.Task, error) {
	f.record(fmt.Sprintf("update %d", task.ID))
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == task.ID {
			f.tasks[i] = task
			return task, nil
		}
	}
	return service.Task{}, ErrNotFound
}

// Delete implements service.Service.
func (f *FakeService) Delete(ctx context.Context, id int) error {
	f.record(fmt.Sprintf("delete %d", id))
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *FakeService) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}
