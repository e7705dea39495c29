// Package config resolves Task Service settings and the XDG state directory.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "tasklist"

	// DefaultBaseURL is the Task Service used when nothing else is configured.
	DefaultBaseURL = "https://dummyjson.com/todos"

	// DefaultUserID is the owner id stamped on every task this client creates.
	DefaultUserID = 1

	// DebugLogFile is the log filename used by the interactive view.
	DebugLogFile = "debug.log"

	// Environment overrides for the common flags.
	EnvBaseURL = "TASKLIST_URL"
	EnvUserID  = "TASKLIST_USER_ID"
)

// Config holds Task Service settings and output switches.
type Config struct {
	// BaseURL is the Task Service collection URL, e.g. https://host/todos.
	BaseURL string

	// UserID is the owner id for created tasks.
	UserID int

	// Timeout bounds each one-shot command's request. Zero means none.
	Timeout time.Duration

	// StateDir holds the interactive view's debug log.
	StateDir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Log receives diagnostics. Never nil once dispatched.
	Log *slog.Logger
}

// New creates a Config. An empty baseURL falls back to TASKLIST_URL and then
// the default. A nil userID falls back to TASKLIST_USER_ID and then the
// default; an explicit one is used as given, including 0.
func New(baseURL string, userID *int) (*Config, error) {
	if baseURL == "" {
		baseURL = os.Getenv(EnvBaseURL)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid service url: %s", baseURL)
	}

	id, err := resolveUserID(userID)
	if err != nil {
		return nil, err
	}

	return &Config{
		BaseURL:  baseURL,
		UserID:   id,
		StateDir: DefaultStateDir(),
	}, nil
}

func resolveUserID(userID *int) (int, error) {
	id := DefaultUserID
	switch {
	case userID != nil:
		id = *userID
	case os.Getenv(EnvUserID) != "":
		env := os.Getenv(EnvUserID)
		n, err := strconv.Atoi(env)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", EnvUserID, env)
		}
		id = n
	}
	if id < 1 {
		return 0, fmt.Errorf("invalid user id: %d", id)
	}
	return id, nil
}

// DefaultStateDir returns the default state directory.
// Uses XDG_STATE_HOME if set, otherwise $HOME/.local/state.
func DefaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".local", "state", AppName)
}

// DebugLogPath returns the path of the interactive view's debug log.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.StateDir, DebugLogFile)
}

// EnsureStateDir creates the state directory if it doesn't exist.
func (c *Config) EnsureStateDir() error {
	return os.MkdirAll(c.StateDir, 0700)
}
