package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tasklist/internal/logging"
	"tasklist/internal/service"
)

func newTestServer(t *testing.T, seed ...service.Task) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(NewMemoryStore(seed...), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp, decoded
}

func TestServer_ListWrapsTodos(t *testing.T) {
	srv := newTestServer(t,
		service.Task{ID: 1, Todo: "Buy milk", UserID: 1},
		service.Task{ID: 2, Todo: "Walk dog", Completed: true, UserID: 1},
	)

	resp, body := doJSON(t, http.MethodGet, srv.URL+BasePath, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	todos, ok := body["todos"].([]any)
	if !ok || len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %v", body["todos"])
	}
	first := todos[0].(map[string]any)
	if first["todo"] != "Buy milk" || first["userId"] != float64(1) {
		t.Errorf("unexpected first todo: %v", first)
	}
}

func TestServer_ListEmptyIsArray(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodGet, srv.URL+BasePath, "")
	if _, ok := body["todos"].([]any); !ok {
		t.Errorf("expected todos array, got %#v", body["todos"])
	}
}

func TestServer_CreateAssignsSequentialIDs(t *testing.T) {
	srv := newTestServer(t, service.Task{ID: 4, Todo: "seed", UserID: 1})

	resp, body := doJSON(t, http.MethodPost, srv.URL+BasePath+"/add", `{"todo":"New","completed":false,"userId":1}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if body["id"] != float64(5) {
		t.Errorf("expected id 5, got %v", body["id"])
	}
	if body["todo"] != "New" {
		t.Errorf("expected todo 'New', got %v", body["todo"])
	}
}

func TestServer_CreateValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]string{
		"empty todo":   `{"todo":"  ","userId":1}`,
		"missing user": `{"todo":"x"}`,
		"bad json":     `{`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodPost, srv.URL+BasePath+"/add", payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
			if body["message"] == "" {
				t.Error("expected message")
			}
		})
	}
}

func TestServer_UpdateUsesPathID(t *testing.T) {
	srv := newTestServer(t, service.Task{ID: 3, Todo: "Read", UserID: 1})

	resp, body := doJSON(t, http.MethodPut, srv.URL+BasePath+"/3", `{"id":99,"todo":"Read","completed":true,"userId":1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["id"] != float64(3) || body["completed"] != true {
		t.Errorf("unexpected update response: %v", body)
	}
}

func TestServer_UpdateMissing(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPut, srv.URL+BasePath+"/8", `{"todo":"x","userId":1}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if body["message"] != "Todo with id '8' not found" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestServer_DeleteReturnsTask(t *testing.T) {
	srv := newTestServer(t,
		service.Task{ID: 1, Todo: "one", UserID: 1},
		service.Task{ID: 2, Todo: "two", UserID: 1},
	)

	resp, body := doJSON(t, http.MethodDelete, srv.URL+BasePath+"/1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["todo"] != "one" {
		t.Errorf("expected deleted task body, got %v", body)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+BasePath+"/1", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+BasePath+"/2", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected remaining task, got %d", resp.StatusCode)
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		headers     string
		allowOrigin string
	}{
		{"allowed header", "content-type", "*"},
		{"disallowed header", "x-foo", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodOptions, srv.URL+BasePath+"/add", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", "POST")
			// Browsers send request header names lowercased.
			req.Header.Set("Access-Control-Request-Headers", tt.headers)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("preflight: %v", err)
			}
			resp.Body.Close()

			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.allowOrigin {
				t.Errorf("expected allow-origin %q, got %q", tt.allowOrigin, got)
			}
		})
	}
}

func TestServer_BodyTooLarge(t *testing.T) {
	h := New(NewMemoryStore(), nil).Handler()
	big := `{"todo":"` + strings.Repeat("a", maxBodyBytes) + `","userId":1}`

	for _, path := range []string{BasePath + "/add", BasePath + "/1"} {
		method := http.MethodPost
		if path != BasePath+"/add" {
			method = http.MethodPut
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(big))
		req.Header.Set("Content-Type", "application/json")
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("%s %s: expected 413, got %d", method, path, rec.Code)
		}
	}
}

func TestServer_EncodeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	s := New(NewMemoryStore(), logging.New(&buf, false))

	rec := httptest.NewRecorder()
	s.respondWithJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "encode error") {
		t.Errorf("expected error body, got %q", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "encode response") {
		t.Errorf("expected log line, got %q", buf.String())
	}
}
