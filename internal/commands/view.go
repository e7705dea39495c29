package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	tea "charm.land/bubbletea/v2"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
	"tasklist/internal/tasklist"
	"tasklist/internal/ui"
)

func init() {
	RegisterDefault(&ViewCmd{})
}

// ViewCmd implements the interactive view.
// Handles both `tasklist` (no args) and `tasklist view`.
type ViewCmd struct {
	filter string
}

// SetFilter sets the initial filter name (for testing).
func (c *ViewCmd) SetFilter(name string) {
	c.filter = name
}

func (c *ViewCmd) Name() string       { return "view" }
func (c *ViewCmd) Aliases() []string  { return nil }
func (c *ViewCmd) Synopsis() string   { return "Open the interactive task list" }
func (c *ViewCmd) Usage() string      { return "tasklist view [--filter all|completed|pending]" }
func (c *ViewCmd) NeedsService() bool { return true }
func (c *ViewCmd) Interactive() bool  { return true }

func (c *ViewCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", string(tasklist.FilterAll), "")
	fs.StringVar(&c.filter, "f", string(tasklist.FilterAll), "")
}

func (c *ViewCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter := tasklist.FilterAll
	if c.filter != "" {
		f, err := tasklist.ParseFilter(c.filter)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		filter = f
	}

	store := tasklist.NewStore(svc, cfg.UserID, cfg.Log)
	store.SetFilter(filter)

	// The view has no overall deadline; --timeout is not applied here.
	if err := ui.Run(ctx, store, tea.WithOutput(out)); err != nil && ctx.Err() == nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
