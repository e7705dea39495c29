package service

import (
	"errors"
	"fmt"
)

// ErrService is the single failure kind for Task Service calls.
// Transport failures, non-success responses and undecodable bodies all match it.
var ErrService = errors.New("task service error")

// Error describes one failed Task Service call.
type Error struct {
	Op     string // "list", "create", "update" or "delete"
	Status int    // HTTP status, 0 when the request never got a response
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports every *Error as ErrService.
func (e *Error) Is(target error) bool { return target == ErrService }

// Errorf builds an *Error for op with a formatted cause.
func Errorf(op string, status int, format string, args ...any) *Error {
	return &Error{Op: op, Status: status, Err: fmt.Errorf(format, args...)}
}
