// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task id).
	UserError = 1

	// ConfigError indicates invalid configuration (bad --url or --user).
	ConfigError = 2

	// BackendError indicates a Task Service failure: network or non-success response.
	BackendError = 3
)
