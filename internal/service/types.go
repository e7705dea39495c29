// Package service defines the backend-agnostic interface for Task Service operations.
package service

// Task represents a single to-do item.
type Task struct {
	ID        int    `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

// NewTask is the create payload. It never carries an id.
type NewTask struct {
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}
