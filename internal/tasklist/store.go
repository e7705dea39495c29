package tasklist

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"tasklist/internal/logging"
	"tasklist/internal/service"
)

// Store owns the view State and reconciles it with the Task Service.
//
// Every network operation is issued on the event loop (which returns a
// Request), performed by Request.Do anywhere, and applied on the event loop
// by Resolve against the state current at that moment. Store is not safe for
// concurrent use; only Request.Do may run on another goroutine.
type Store struct {
	svc     service.Service
	userID  int
	log     *slog.Logger
	state   State
	pending map[string]Op
	closed  bool
}

// NewStore creates an empty Store with the "all" filter.
// Tasks it creates are owned by userID. A nil log discards output.
func NewStore(svc service.Service, userID int, log *slog.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		svc:     svc,
		userID:  userID,
		log:     log,
		state:   State{Filter: FilterAll},
		pending: make(map[string]Op),
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State { return s.state }

// Visible returns the tasks passing the current filter.
func (s *Store) Visible() []service.Task { return s.state.Visible() }

// Pending returns the number of issued requests not yet resolved.
func (s *Store) Pending() int { return len(s.pending) }

// SetDraft replaces the draft text.
func (s *Store) SetDraft(text string) { s.state.Draft = text }

// SetFilter changes the filter. No request is made.
func (s *Store) SetFilter(f Filter) { s.state.Filter = f }

// Load issues a list request. Its result replaces Tasks wholesale.
func (s *Store) Load() Request {
	svc := s.svc
	return s.issue(OpList, 0, func(ctx context.Context, id string) Result {
		tasks, err := svc.List(ctx)
		return Loaded{ReqID: id, Tasks: tasks, Error: err}
	})
}

// AddTask issues a create request for the draft and clears the draft at
// once, whatever the outcome. A blank draft is ignored: ok is false and
// nothing is sent.
func (s *Store) AddTask() (req Request, ok bool) {
	text := s.state.Draft
	if strings.TrimSpace(text) == "" {
		return Request{}, false
	}
	s.state.Draft = ""

	svc := s.svc
	payload := service.NewTask{Todo: text, Completed: false, UserID: s.userID}
	return s.issue(OpCreate, 0, func(ctx context.Context, id string) Result {
		task, err := svc.Create(ctx, payload)
		if err == nil && task.ID == 0 {
			err = service.Errorf(string(OpCreate), 0, "response has no id")
		}
		return Created{ReqID: id, Task: task, Error: err}
	}), true
}

// Toggle issues a full update of task id with Completed flipped.
// Unknown ids are ignored: ok is false and nothing is sent.
//
// On success the value that was sent is written to the task as it stands
// when the result is resolved. Two toggles issued before either resolves
// both send the same value, so the task ends up with that value.
func (s *Store) Toggle(taskID int) (req Request, ok bool) {
	task, found := s.state.Find(taskID)
	if !found {
		return Request{}, false
	}
	task.Completed = !task.Completed

	svc := s.svc
	return s.issue(OpUpdate, taskID, func(ctx context.Context, id string) Result {
		_, err := svc.Update(ctx, task)
		return Toggled{ReqID: id, ID: task.ID, Completed: task.Completed, Error: err}
	}), true
}

// Delete issues a delete request. On success the task with that id is
// removed and every other task is left alone.
func (s *Store) Delete(taskID int) Request {
	svc := s.svc
	return s.issue(OpDelete, taskID, func(ctx context.Context, id string) Result {
		err := svc.Delete(ctx, taskID)
		return Deleted{ReqID: id, ID: taskID, Error: err}
	})
}

// Resolve applies a Result to the current state. A failed result leaves the
// state untouched; its error is logged and returned. After Close every
// result is dropped.
func (s *Store) Resolve(r Result) error {
	op := s.pending[r.RequestID()]
	delete(s.pending, r.RequestID())

	if s.closed {
		s.log.Debug("dropping result after close", "req", r.RequestID(), "op", op)
		return r.Err()
	}

	if err := r.Err(); err != nil {
		s.log.Warn("request failed", "req", r.RequestID(), "op", op, "err", err)
		return err
	}

	r.apply(&s.state)
	s.log.Debug("request applied", "req", r.RequestID(), "op", op, "tasks", len(s.state.Tasks))
	return nil
}

// Do performs req and resolves its result in one step.
// Used by callers that have no event loop of their own.
func (s *Store) Do(ctx context.Context, req Request) error {
	return s.Resolve(req.Do(ctx))
}

// Close marks the view as torn down. Requests still in flight complete,
// but their results no longer change the state.
func (s *Store) Close() {
	s.closed = true
}

func (s *Store) issue(op Op, taskID int, run func(ctx context.Context, id string) Result) Request {
	id := uuid.NewString()
	s.pending[id] = op
	s.log.Debug("request issued", "req", id, "op", op, "task_id", taskID)
	return Request{
		ID:     id,
		Op:     op,
		TaskID: taskID,
		run: func(ctx context.Context) Result {
			return run(ctx, id)
		},
	}
}
