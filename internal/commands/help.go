package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "tasklist help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	WriteUsage(out, DefaultRegistry)
	return exitcode.Success
}

// WriteUsage prints the usage of every command in r followed by the
// common flags.
func WriteUsage(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "Usage:")
	if def, ok := r.Default(); ok {
		fmt.Fprintf(w, "  %-58s %s\n", "tasklist", def.Synopsis())
	}
	for _, c := range r.All() {
		fmt.Fprintf(w, "  %-58s %s\n", c.Usage(), c.Synopsis())
	}
	fmt.Fprint(w, commonFlagsText)
}

const commonFlagsText = `
Common flags:
  --url <base>       Task Service URL (env ` + config.EnvBaseURL + `, default ` + config.DefaultBaseURL + `)
  --user <id>        Owner id for created tasks (env ` + config.EnvUserID + `, default 1)
  --timeout <dur>    Per-command request deadline, e.g. 5s (default none)
  --quiet            Suppress informational output
  --debug            Enable debug logs (stderr, or the debug log for view)
`
