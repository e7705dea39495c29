package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> the registry's default command (the interactive view)
	if len(args) == 0 {
		cmd, ok := d.registry.Default()
		if !ok {
			fmt.Fprintln(errOut, "error: no command given")
			return exitcode.UserError
		}
		return d.dispatchCommand(ctx, cmd, nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	url     string
	user    int
	timeout time.Duration
	quiet   bool
	debug   bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.url, "url", "", "")
	fs.IntVar(&f.user, "user", 0, "")
	fs.DurationVar(&f.timeout, "timeout", 0, "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// userID returns the --user value, or nil when the flag was not given so
// the environment and default apply.
func (f *commonFlags) userID(fs *flag.FlagSet) *int {
	var set bool
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "user" {
			set = true
		}
	})
	if !set {
		return nil
	}
	return &f.user
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	if common.timeout < 0 {
		fmt.Fprintf(errOut, "error: invalid timeout: %s\n", common.timeout)
		return exitcode.ConfigError
	}

	cfg, err := config.New(common.url, common.userID(fs))
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	cfg.Timeout = common.timeout
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug

	var closeLog func()
	cfg.Log, closeLog = newLogger(cfg, cmd, errOut)
	defer closeLog()

	var svc service.Service
	if cmd.NeedsService() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no task service configured")
			return exitcode.ConfigError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	cfg.Log.Debug("dispatch", "command", cmd.Name(), "url", cfg.BaseURL, "user", cfg.UserID)
	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// newLogger returns the logger for cmd. Interactive commands own the
// terminal, so they log to the debug log file when --debug is set and
// nowhere otherwise.
func newLogger(cfg *config.Config, cmd commands.Command, errOut io.Writer) (*slog.Logger, func()) {
	if !commands.IsInteractive(cmd) {
		return logging.New(errOut, cfg.Debug), func() {}
	}
	if !cfg.Debug {
		return logging.Discard(), func() {}
	}
	if err := cfg.EnsureStateDir(); err != nil {
		return logging.Discard(), func() {}
	}
	log, f, err := logging.OpenFile(cfg.DebugLogPath(), true)
	if err != nil {
		return logging.Discard(), func() {}
	}
	return log, func() { f.Close() }
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// Missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		return errStr
	}

	// Unknown flag
	if name, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}

	return errStr
}
