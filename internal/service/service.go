// Package service defines the backend-agnostic interface for Task Service operations.
package service

import "context"

// Service defines the interface for the remote Task Service.
// All network calls made by the view go through this interface.
type Service interface {
	// List returns every task the service holds, in service order.
	List(ctx context.Context) ([]Task, error)

	// Create creates a task and returns the service's copy,
	// including the id it assigned.
	Create(ctx context.Context, task NewTask) (Task, error)

	// Update replaces the task with task.ID and returns the service's copy.
	Update(ctx context.Context, task Task) (Task, error)

	// Delete deletes the task with the given id.
	Delete(ctx context.Context, id int) error
}
