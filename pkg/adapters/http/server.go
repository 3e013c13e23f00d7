package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tape"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxSteps bounds a run request that does not set max_steps.
const DefaultMaxSteps = 10000

// Server exposes the run manager over a JSON API.
type Server struct {
	Manager  *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	MaxSteps int
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithGatherer sets the registry served on /metrics (default: prometheus.DefaultGatherer).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithMaxSteps sets the step limit applied when a run request does not set one.
func WithMaxSteps(n int) Option {
	return func(s *Server) {
		s.MaxSteps = n
	}
}

// NewServer creates a server and subscribes its streams to run changes.
func NewServer(mgr *session.Manager, opts ...Option) *Server {
	s := &Server{
		Manager:  mgr,
		Logger:   logging.NewNop(),
		Gatherer: prometheus.DefaultGatherer,
		MaxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.Logger)
	mgr.Listen(func(runID string, diff *domain.SnapshotDiff) {
		if b, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(runID, string(b))
		}
	})
	return s
}

// NewHandler creates a new HTTP handler for the run manager.
func NewHandler(mgr *session.Manager, opts ...Option) http.Handler {
	return NewServer(mgr, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Get("/{name}", s.GetMachine)
		r.Get("/{name}/graph", s.GetMachineGraph)
		r.Post("/{name}/runs", s.StartRun)
	})

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.ListRuns)
		r.Get("/{id}", s.GetRun)
		r.Delete("/{id}", s.DeleteRun)
		r.Post("/{id}/step", s.StepRun)
		r.Post("/{id}/run", s.RunToHalt)
		r.Get("/{id}/accepted", s.GetAccepted)
		r.Get("/{id}/events", s.SubscribeEvents)
		r.Get("/{id}/ws", s.ServeWS)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StartRunRequest is the body of POST /machines/{name}/runs.
type StartRunRequest struct {
	Input string `json:"input"`
}

// RunRequest is the body of POST /runs/{id}/run.
type RunRequest struct {
	MaxSteps int `json:"max_steps"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string        `json:"error"`
	Run   *session.View `json:"run,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "turing-http",
		"version": turing.Version,
		"runs":    s.Manager.Len(),
	})
}

// ListMachines handles the GET /machines request.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names, err := s.Manager.Loader().List(r.Context())
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"machines": names})
}

// GetMachine handles the GET /machines/{name} request.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	def, err := s.Manager.Loader().Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, def)
}

// GetMachineGraph handles the GET /machines/{name}/graph request.
func (s *Server) GetMachineGraph(w http.ResponseWriter, r *http.Request) {
	def, err := s.Manager.Loader().Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(def, nil))
}

// StartRun handles the POST /machines/{name}/runs request.
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	var body StartRunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		s.Logger.Warn("StartRun: Invalid request body", "err", err)
		return
	}

	input, err := runner.SanitizeInput(body.Input)
	if err == nil {
		var id string
		_, id, err = s.Manager.Start(r.Context(), chi.URLParam(r, "name"), input)
		if err == nil {
			s.respondView(w, r, id, http.StatusCreated)
			return
		}
	}
	s.fail(w, r, err, nil)
}

// ListRuns handles the GET /runs request.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]session.Info{"runs": s.Manager.List(r.Context())})
}

// GetRun handles the GET /runs/{id} request.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

// StepRun handles the POST /runs/{id}/step request.
func (s *Server) StepRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Manager.Step(r.Context(), id); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.respondView(w, r, id, http.StatusOK)
}

// RunToHalt handles the POST /runs/{id}/run request.
// Without a positive max_steps the server limit applies.
func (s *Server) RunToHalt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body RunRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			s.Logger.Warn("RunToHalt: Invalid request body", "err", err)
			return
		}
	}

	if _, err := s.Manager.RunToHalt(r.Context(), id, s.stepLimit(body.MaxSteps)); err != nil {
		var view *session.View
		if errors.Is(err, runner.ErrStepLimit) {
			view, _ = s.Manager.View(r.Context(), id, s.window(r))
		}
		s.fail(w, r, err, view)
		return
	}
	s.respondView(w, r, id, http.StatusOK)
}

// stepLimit returns requested when positive, otherwise the server limit.
func (s *Server) stepLimit(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.MaxSteps
}

// GetAccepted handles the GET /runs/{id}/accepted request.
func (s *Server) GetAccepted(w http.ResponseWriter, r *http.Request) {
	accepted, err := s.Manager.Accepted(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"accepted": accepted})
}

// DeleteRun handles the DELETE /runs/{id} request.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.Manager.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondView(w http.ResponseWriter, r *http.Request, id string, status int) {
	view, err := s.Manager.View(r.Context(), id, s.window(r))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.writeJSON(w, status, view)
}

// window reads ?window=, defaulting to tape.DefaultRadius; "none" or a negative value omits the rendering.
func (s *Server) window(r *http.Request) int {
	raw := r.URL.Query().Get("window")
	if raw == "" {
		return tape.DefaultRadius
	}
	if raw == "none" {
		return -1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return tape.DefaultRadius
	}
	return n
}

// StatusCode maps engine and store errors to HTTP statuses.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrMachineNotFound), errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInputSymbol),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyHalted), errors.Is(err, domain.ErrStillRunning):
		return http.StatusConflict
	case errors.Is(err, runner.ErrStepLimit),
		errors.Is(err, domain.ErrInvalidDefinition),
		errors.Is(err, domain.ErrDuplicateTransition),
		errors.Is(err, domain.ErrInvalidDirection):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, view *session.View) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.Logger.Warn("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Run: view})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}
