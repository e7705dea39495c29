package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"tasklist/internal/logging"
	"tasklist/internal/service"
)

// BasePath is where the task collection is mounted.
const BasePath = "/todos"

// maxBodyBytes caps request bodies accepted by create and update.
const maxBodyBytes = 1 << 20

// Server serves the Task Service REST contract from a Store.
type Server struct {
	store Store
	log   *slog.Logger
}

// New creates a Server. A nil log discards output.
func New(store Store, log *slog.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{store: store, log: log}
}

// Handler returns the routed, CORS-enabled HTTP handler.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc(BasePath, s.listTasks).Methods(http.MethodGet)
	router.HandleFunc(BasePath+"/add", s.createTask).Methods(http.MethodPost)
	router.HandleFunc(BasePath+"/{id:[0-9]+}", s.getTask).Methods(http.MethodGet)
	router.HandleFunc(BasePath+"/{id:[0-9]+}", s.updateTask).Methods(http.MethodPut)
	router.HandleFunc(BasePath+"/{id:[0-9]+}", s.deleteTask).Methods(http.MethodDelete)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			s.log.Debug("write response", "err", err)
		}
	})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}

type listBody struct {
	Todos []service.Task `json:"todos"`
	Total int            `json:"total"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, "list", 0, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, listBody{Todos: tasks, Total: len(tasks), Limit: len(tasks)})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var body service.NewTask
	if !s.decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Todo) == "" {
		s.respondWithMessage(w, http.StatusBadRequest, "todo is required")
		return
	}
	if body.UserID < 1 {
		s.respondWithMessage(w, http.StatusBadRequest, "userId is required")
		return
	}

	created, err := s.store.Create(r.Context(), body)
	if err != nil {
		s.storeError(w, "create", 0, err)
		return
	}
	s.log.Info("task created", "id", created.ID)
	s.respondWithJSON(w, http.StatusCreated, created)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	task, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, "get", id, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var body service.Task
	if !s.decodeBody(w, r, &body) {
		return
	}
	// The path id wins over any id in the body.
	body.ID = id

	updated, err := s.store.Update(r.Context(), body)
	if err != nil {
		s.storeError(w, "update", id, err)
		return
	}
	s.log.Info("task updated", "id", id, "completed", updated.Completed)
	s.respondWithJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	deleted, err := s.store.Delete(r.Context(), id)
	if err != nil {
		s.storeError(w, "delete", id, err)
		return
	}
	s.log.Info("task deleted", "id", id)
	s.respondWithJSON(w, http.StatusOK, deleted)
}

func (s *Server) storeError(w http.ResponseWriter, op string, id int, err error) {
	if errors.Is(err, ErrNotFound) {
		s.respondWithMessage(w, http.StatusNotFound, fmt.Sprintf("Todo with id '%d' not found", id))
		return
	}
	s.log.Error("store error", "op", op, "id", id, "err", err)
	s.respondWithMessage(w, http.StatusInternalServerError, "store error")
}

// pathID reads the {id} route variable; the route regexp guarantees digits.
func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// decodeBody decodes a JSON request body of at most maxBodyBytes into v.
// On failure it writes the error response and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.respondWithMessage(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	s.respondWithMessage(w, http.StatusBadRequest, "invalid json")
	return false
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("encode response", "err", err)
		code = http.StatusInternalServerError
		response = []byte(`{"message":"encode error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		s.log.Debug("write response", "err", err)
	}
}

func (s *Server) respondWithMessage(w http.ResponseWriter, code int, msg string) {
	s.respondWithJSON(w, code, map[string]string{"message": msg})
}
