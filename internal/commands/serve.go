package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"tasklist/internal/config"
	"tasklist/internal/devserver"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

// EnvDatabaseURL selects the Postgres store for serve.
const EnvDatabaseURL = "TASKLIST_DATABASE_URL"

const shutdownTimeout = 5 * time.Second

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the development Task Service.
type ServeCmd struct {
	addr        string
	databaseURL string
}

// SetAddr sets the listen address (for testing).
func (c *ServeCmd) SetAddr(addr string) {
	c.addr = addr
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run a development Task Service" }
func (c *ServeCmd) Usage() string      { return "tasklist serve [--addr <host:port>] [--database-url <url>]" }
func (c *ServeCmd) NeedsService() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", ":8080", "")
	fs.StringVar(&c.databaseURL, "database-url", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	store, closeStore, err := c.openStore(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: database: %v\n", err)
		return exitcode.ConfigError
	}
	defer closeStore()

	ln, err := net.Listen("tcp", c.addr)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	srv := &http.Server{
		Handler:           devserver.New(store, cfg.Log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on http://%s%s\n", ln.Addr(), devserver.BasePath)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
	case <-ctx.Done():
		cfg.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(errOut, "error: shutdown: %v\n", err)
			return exitcode.BackendError
		}
	}
	return exitcode.Success
}

// openStore picks the Postgres store when a database URL is configured and
// the in-memory store otherwise.
func (c *ServeCmd) openStore(ctx context.Context) (devserver.Store, func(), error) {
	dsn := c.databaseURL
	if dsn == "" {
		dsn = os.Getenv(EnvDatabaseURL)
	}
	if dsn == "" {
		return devserver.NewMemoryStore(), func() {}, nil
	}

	pg, err := devserver.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return pg, func() { pg.Close() }, nil
}
