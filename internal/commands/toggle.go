package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
	"tasklist/internal/tasklist"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
// It loads the list first so the full record can be sent back with
// completed flipped.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Flip a task between completed and pending" }
func (c *ToggleCmd) Usage() string      { return "tasklist toggle <id>" }
func (c *ToggleCmd) NeedsService() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		if errors.Is(err, ErrTaskIDRequired) {
			fmt.Fprintln(errOut, "error: task id required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	store := tasklist.NewStore(svc, cfg.UserID, cfg.Log)
	if err := store.Do(ctx, store.Load()); err != nil {
		return reportError(errOut, 0, err)
	}

	req, ok := store.Toggle(id)
	if !ok {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}
	if err := store.Do(ctx, req); err != nil {
		return reportError(errOut, id, err)
	}

	if !cfg.Quiet {
		task, _ := store.State().Find(id)
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
