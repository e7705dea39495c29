// Package rest implements the service.Service interface over the Task Service's JSON REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/internal/service"
)

const (
	// AddPath is appended to the base URL for creates.
	AddPath = "/add"

	// UserAgent identifies this client to the Task Service.
	UserAgent = "tasklist"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 1 << 20
)

// Client implements service.Service over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	log     *slog.Logger
}

// New creates a client for cfg.BaseURL. No client-side timeout is set;
// callers bound requests through the context when they need to.
func New(cfg *config.Config, log *slog.Logger) *Client {
	c := NewWithHTTPClient(cfg.BaseURL, &http.Client{})
	if log != nil {
		c.log = log
	}
	return c
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logging.Discard(),
	}
}

// wireTask mirrors service.Task but keeps a missing id distinguishable from 0.
type wireTask struct {
	ID        *int   `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

func (w wireTask) task() service.Task {
	t := service.Task{Todo: w.Todo, Completed: w.Completed, UserID: w.UserID}
	if w.ID != nil {
		t.ID = *w.ID
	}
	return t
}

type listResponse struct {
	Todos []wireTask `json:"todos"`
}

// List returns every task in service order.
// Entries without an id are dropped.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	var resp listResponse
	if err := c.do(ctx, "list", http.MethodGet, c.baseURL, nil, &resp); err != nil {
		return nil, err
	}

	result := make([]service.Task, 0, len(resp.Todos))
	for i, w := range resp.Todos {
		if w.ID == nil {
			c.log.Warn("dropping listed task without id", "index", i, "todo", w.Todo)
			continue
		}
		result = append(result, w.task())
	}
	return result, nil
}

// Create posts task and returns the service's copy with its assigned id.
func (c *Client) Create(ctx context.Context, task service.NewTask) (service.Task, error) {
	var resp wireTask
	if err := c.do(ctx, "create", http.MethodPost, c.baseURL+AddPath, task, &resp); err != nil {
		return service.Task{}, err
	}
	if resp.ID == nil {
		return service.Task{}, service.Errorf("create", 0, "response has no id")
	}
	return resp.task(), nil
}

// Update replaces the task with task.ID.
func (c *Client) Update(ctx context.Context, task service.Task) (service.Task, error) {
	var resp wireTask
	if err := c.do(ctx, "update", http.MethodPut, c.taskURL(task.ID), task, &resp); err != nil {
		return service.Task{}, err
	}
	updated := resp.task()
	if resp.ID == nil {
		updated.ID = task.ID
	}
	return updated, nil
}

// Delete deletes the task with the given id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, "delete", http.MethodDelete, c.taskURL(id), nil, nil)
}

func (c *Client) taskURL(id int) string {
	return c.baseURL + "/" + strconv.Itoa(id)
}

// do sends one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, op, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &service.Error{Op: op, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &service.Error{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	c.log.Debug("http request", "op", op, "method", method, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(op, 0, err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxBodyBytes)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(limited)
		return wrapError(op, resp.StatusCode, errors.New(statusText(resp.StatusCode, msg)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, limited)
		return nil
	}
	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return &service.Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// statusText prefers the service's own {"message": ...} over the bare status text.
func statusText(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return text
	}
	return http.StatusText(status)
}

// wrapError wraps transport and status errors with user-friendly messages.
func wrapError(op string, status int, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &service.Error{Op: op, Err: errors.New("request timed out")}
	}
	if status == http.StatusNotFound {
		return &service.Error{Op: op, Status: status, Err: errors.New("not found")}
	}
	return &service.Error{Op: op, Status: status, Err: err}
}
