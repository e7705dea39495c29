package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

// withTimeout bounds ctx by cfg.Timeout when one is set.
func withTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// reportError prints err and maps it to an exit code.
// A 404 from the Task Service for a known task id is a user error.
func reportError(errOut io.Writer, taskID int, err error) int {
	var svcErr *service.Error
	if taskID > 0 && errors.As(err, &svcErr) && svcErr.Status == http.StatusNotFound {
		fmt.Fprintf(errOut, "error: task not found: %d\n", taskID)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
