// Package httpapi exposes the lesson service over HTTP and provides the
// matching client. The wire contract is small JSON documents; the input
// descriptor travels as the raw JSON the catalog authored.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/sensei/internal/adapters/memory"
	"github.com/aretw0/sensei/internal/logging"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/aretw0/sensei/pkg/ports"
)

// ContentPublisher fans a content-changed signal out to running clients.
type ContentPublisher interface {
	PublishContentChanged(ctx context.Context) error
}

// Server serves the reference lesson service. It wraps the in-memory
// service with the HTTP surface, admin reload and metrics.
type Server struct {
	svc         *memory.Service
	bus         ContentPublisher
	catalogPath string
	logger      *slog.Logger

	mu       sync.Mutex
	warnings []string

	attempts *prometheus.CounterVec
	registry *prometheus.Registry
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithBus connects a publisher notified after every successful reload.
func WithBus(bus ContentPublisher) ServerOption {
	return func(s *Server) {
		s.bus = bus
	}
}

// WithCatalogPath enables the admin reload endpoint, re-reading the
// catalog from this path.
func WithCatalogPath(path string) ServerOption {
	return func(s *Server) {
		s.catalogPath = path
	}
}

// WithServerLogger sets the server logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the reference server over an in-memory service.
func NewServer(svc *memory.Service, opts ...ServerOption) *Server {
	s := &Server{
		svc:      svc,
		logger:   logging.NewNop(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.attempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sensei_attempts_total",
		Help: "Graded attempts by result.",
	}, []string{"result"})
	s.registry.MustRegister(s.attempts)
	s.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sensei_open_sessions",
		Help: "Grading sessions currently held.",
	}, func() float64 { return float64(svc.OpenSessions()) }))

	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/lessons", s.listLessons)
	r.Get("/lessons/{lesson}/tasks/{task}", s.getTask)
	r.Post("/attempts", s.attempt)
	r.Post("/sessions", s.openSession)
	r.Delete("/sessions/{session}", s.closeSession)
	r.Get("/warnings", s.listWarnings)
	r.Post("/admin/reload", s.reload)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

type errorDoc struct {
	Error string `json:"error"`
}

type taskDoc struct {
	Text  string          `json:"text"`
	Input json.RawMessage `json:"input"`
}

type attemptRequest struct {
	Session string `json:"session,omitempty"`
	Lesson  string `json:"lesson"`
	Task    string `json:"task"`
	Input   string `json:"input"`
}

type attemptDoc struct {
	Result    string            `json:"result"`
	Responses []lesson.Response `json:"responses,omitempty"`
}

type sessionRequest struct {
	Lesson string `json:"lesson"`
}

type sessionDoc struct {
	Session string `json:"session"`
}

type lessonsDoc struct {
	Lessons []ports.LessonSummary `json:"lessons"`
}

type warningsDoc struct {
	Warnings []string `json:"warnings"`
}

func (s *Server) listLessons(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.svc.UnlockedLessons(r.Context(), r.URL.Query().Get("modality"))
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, lessonsDoc{Lessons: summaries})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	text, raw, err := s.svc.GetTaskDescription(r.Context(),
		chi.URLParam(r, "lesson"), chi.URLParam(r, "task"))
	if err != nil {
		s.fail(w, http.StatusNotFound, err)
		return
	}
	s.respond(w, http.StatusOK, taskDoc{Text: text, Input: raw})
}

func (s *Server) attempt(w http.ResponseWriter, r *http.Request) {
	var req attemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	result, responses, err := s.svc.AttemptLesson(r.Context(),
		ports.Session(req.Session), req.Lesson, req.Task, req.Input)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			s.fail(w, http.StatusForbidden, err)
			return
		}
		s.fail(w, http.StatusNotFound, err)
		return
	}
	s.attempts.WithLabelValues(result).Inc()
	s.respond(w, http.StatusOK, attemptDoc{Result: result, Responses: responses})
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	session, err := s.svc.OpenSession(r.Context(), req.Lesson)
	if err != nil {
		s.fail(w, http.StatusNotFound, err)
		return
	}
	s.respond(w, http.StatusCreated, sessionDoc{Session: string(session)})
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	err := s.svc.CloseSession(r.Context(), ports.Session(chi.URLParam(r, "session")))
	if err != nil {
		s.fail(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listWarnings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	warnings := append([]string(nil), s.warnings...)
	s.mu.Unlock()
	s.respond(w, http.StatusOK, warningsDoc{Warnings: warnings})
}

// reload re-reads the catalog from disk. A catalog that fails validation
// leaves the served content untouched and becomes a warning the clients
// can fetch.
func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	if s.catalogPath == "" {
		s.fail(w, http.StatusNotFound, errors.New("reload disabled: no catalog path"))
		return
	}

	catalog, err := lesson.LoadCatalog(s.catalogPath)
	if err != nil {
		s.addWarning(err.Error())
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.svc.Replace(catalog)
	s.logger.Info("catalog reloaded", "lessons", len(catalog.Lessons))
	if s.bus != nil {
		if err := s.bus.PublishContentChanged(r.Context()); err != nil {
			s.logger.Warn("publish content changed", "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addWarning(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, msg)
}

func (s *Server) respond(w http.ResponseWriter, status int, doc any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.respond(w, status, errorDoc{Error: err.Error()})
}
