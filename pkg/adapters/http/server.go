package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/debloat"
	"github.com/aretw0/debloat/internal/logging"
	"github.com/aretw0/debloat/pkg/domain"
	"github.com/aretw0/debloat/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Engine is the part of the debloat engine the HTTP API needs.
type Engine interface {
	Catalog() *domain.Catalog
	Session(ctx context.Context, id string) (*debloat.Session, error)
}

// Server holds the handlers of the HTTP API.
type Server struct {
	Engine  Engine
	Streams *observability.Broadcaster
	Metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithBroadcaster enables the SSE endpoint. The broadcaster must also observe the engine.
func WithBroadcaster(b *observability.Broadcaster) Option {
	return func(s *Server) {
		s.Streams = b
	}
}

// WithMetrics exposes /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/catalog", server.GetCatalog)
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics.Handler())
	}

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", server.GetSession)
		r.Post("/run", server.StartRun)
		r.Post("/options/{optionID}/toggle", server.ToggleOption)
		r.Post("/categories/{categoryID}/toggle", server.ToggleCategory)
		r.Post("/theme/toggle", server.ToggleTheme)
		r.Get("/events", server.SubscribeEvents)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if spec, err := Spec(r.Context()); err == nil && spec.Info != nil {
		apiVersion = spec.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "debloat-http",
		"version":     debloat.Version,
		"api_version": apiVersion,
	})
}

// GetCatalog handles the GET /catalog request.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Catalog())
}

// GetSession handles the GET /sessions/{sessionID} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.View())
}

// StartRun handles the POST /sessions/{sessionID}/run request.
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	accepted := sess.Start(r.Context())
	status := http.StatusAccepted
	if !accepted {
		status = http.StatusOK
	}
	s.writeJSON(w, status, map[string]bool{"accepted": accepted})
}

// ToggleOption handles the POST /sessions/{sessionID}/options/{optionID}/toggle request.
func (s *Server) ToggleOption(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "optionID")
	enabled, err := sess.ToggleOption(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"option_id": id, "enabled": enabled})
}

// ToggleCategory handles the POST /sessions/{sessionID}/categories/{categoryID}/toggle request.
func (s *Server) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "categoryID")
	collapsed, err := sess.ToggleCategory(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"category_id": id, "collapsed": collapsed})
}

// ToggleTheme handles the POST /sessions/{sessionID}/theme/toggle request.
func (s *Server) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	theme, err := sess.ToggleTheme(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

// SubscribeEvents handles the GET /sessions/{sessionID}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	if s.Streams == nil {
		http.Error(w, "Streaming not enabled", http.StatusNotImplemented)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	// Subscribe before taking the snapshot so no update falls in between.
	ch, cancel := s.Streams.Subscribe(sess.ID())
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sess.ID())
	if err := writeEvent(w, "snapshot", sess.View()); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sess.ID())
			return
		case u, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, string(u.Kind), u); err != nil {
				s.logger.Warn("SSE write failed", "session_id", sess.ID(), "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*debloat.Session, bool) {
	sess, err := s.Engine.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownOption),
		errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	default:
		s.logger.Error("Request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}
