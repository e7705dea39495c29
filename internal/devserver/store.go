// Package devserver is a small Task Service speaking the same REST contract
// as the remote service, for local development and tests.
package devserver

import (
	"context"
	"errors"
	"sync"

	"tasklist/internal/service"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("not found")

// Store persists tasks for the dev server.
type Store interface {
	List(ctx context.Context) ([]service.Task, error)
	Get(ctx context.Context, id int) (service.Task, error)
	Create(ctx context.Context, task service.NewTask) (service.Task, error)
	Update(ctx context.Context, task service.Task) (service.Task, error)
	Delete(ctx context.Context, id int) (service.Task, error)
}

// MemoryStore is an in-memory Store. Ids are assigned sequentially from 1.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
}

// NewMemoryStore creates a MemoryStore holding seed, in order.
// Later ids continue after the highest seeded id.
func NewMemoryStore(seed ...service.Task) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for _, t := range seed {
		s.tasks = append(s.tasks, t)
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	return s
}

func (s *MemoryStore) List(ctx context.Context) ([]service.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]service.Task, len(s.tasks))
	copy(result, s.tasks)
	return result, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int) (service.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.tasks[i], nil
	}
	return service.Task{}, ErrNotFound
}

func (s *MemoryStore) Create(ctx context.Context, task service.NewTask) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := service.Task{
		ID:        s.nextID,
		Todo:      task.Todo,
		Completed: task.Completed,
		UserID:    task.UserID,
	}
	s.nextID++
	s.tasks = append(s.tasks, created)
	return created, nil
}

func (s *MemoryStore) Update(ctx context.Context, task service.Task) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(task.ID)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	s.tasks[i] = task
	return task, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	deleted := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return deleted, nil
}

// index must be called with mu held.
func (s *MemoryStore) index(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
