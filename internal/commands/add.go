package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
	"tasklist/internal/tasklist"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "tasklist add <text...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: task text required")
		return exitcode.UserError
	}

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	store := tasklist.NewStore(svc, cfg.UserID, cfg.Log)
	store.SetDraft(text)
	req, _ := store.AddTask()
	if err := store.Do(ctx, req); err != nil {
		return reportError(errOut, 0, err)
	}

	if !cfg.Quiet {
		// The store held no tasks before, so the created one is the only one.
		for _, task := range store.State().Tasks {
			output.FormatTask(out, task)
		}
	}
	return exitcode.Success
}
