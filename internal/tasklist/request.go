package tasklist

import (
	"context"

	"tasklist/internal/service"
)

// Op names the Task Service operation behind a request.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Request is one issued Task Service call. Do performs the call without
// touching any State, so it may run off the event loop.
type Request struct {
	ID     string
	Op     Op
	TaskID int // 0 for list and create
	run    func(ctx context.Context) Result
}

// Do performs the call and returns its Result, to be passed to Store.Resolve.
func (r Request) Do(ctx context.Context) Result {
	return r.run(ctx)
}

// Result is the outcome of a Request.
type Result interface {
	RequestID() string
	Err() error
	apply(s *State)
}

// Loaded is the result of a list request.
type Loaded struct {
	ReqID string
	Tasks []service.Task
	Error error
}

func (r Loaded) RequestID() string { return r.ReqID }
func (r Loaded) Err() error        { return r.Error }
func (r Loaded) apply(s *State)    { s.replaceTasks(r.Tasks) }

// Created is the result of a create request.
type Created struct {
	ReqID string
	Task  service.Task
	Error error
}

func (r Created) RequestID() string { return r.ReqID }
func (r Created) Err() error        { return r.Error }
func (r Created) apply(s *State)    { s.appendTask(r.Task) }

// Toggled is the result of the update sent by a toggle. Completed is the
// value that was sent; the service's response body is not used.
type Toggled struct {
	ReqID     string
	ID        int
	Completed bool
	Error     error
}

func (r Toggled) RequestID() string { return r.ReqID }
func (r Toggled) Err() error        { return r.Error }
func (r Toggled) apply(s *State)    { s.setCompleted(r.ID, r.Completed) }

// Deleted is the result of a delete request.
type Deleted struct {
	ReqID string
	ID    int
	Error error
}

func (r Deleted) RequestID() string { return r.ReqID }
func (r Deleted) Err() error        { return r.Error }
func (r Deleted) apply(s *State)    { s.removeTask(r.ID) }
