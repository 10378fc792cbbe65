package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aretw0/ooor/internal/logging"
	"github.com/aretw0/ooor/pkg/config"
	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager is what the admin API needs from the session manager.
type Manager interface {
	Resolve(src config.Source) domain.Config
	Session(ctx context.Context, src config.Source, id string, web domain.WebSession) (*session.Session, bool, error)
	Registry() *session.Registry
	Reset()
}

// ConfigRequest carries a raw config: a descriptor string, a mapping, or both
// (the descriptor then goes in as "ooor_url").
type ConfigRequest struct {
	Descriptor string         `json:"descriptor,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
}

func (c ConfigRequest) source() config.Source {
	switch {
	case c.Descriptor != "" && c.Config == nil:
		return config.FromString(c.Descriptor)
	case c.Descriptor != "":
		m := make(map[string]any, len(c.Config)+1)
		for k, v := range c.Config {
			m[k] = v
		}
		m[domain.KeyOoorURL] = c.Descriptor
		return config.FromMap(m)
	}
	return config.FromMap(c.Config)
}

// SessionRequest is the body of POST /sessions.
type SessionRequest struct {
	ConfigRequest
	ID         string            `json:"id,omitempty"`
	WebSession domain.WebSession `json:"web_session,omitempty"`
}

// SessionResponse describes a retrieved session. Passwords are masked.
type SessionResponse struct {
	Key        string            `json:"key"`
	ID         string            `json:"id"`
	Reused     bool              `json:"reused"`
	Config     domain.Config     `json:"config"`
	WebSession domain.WebSession `json:"web_session"`
}

// Server serves the admin API.
type Server struct {
	manager  Manager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithGatherer exposes the given metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the admin HTTP handler.
func NewHandler(manager Manager, opts ...Option) http.Handler {
	s := &Server{
		manager:  manager,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.Health)
	r.Post("/resolve", s.Resolve)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.OpenSession)
		r.Delete("/", s.ResetSessions)
		r.Get("/{key}", s.GetWebSession)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Resolve handles POST /resolve.
func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	var body ConfigRequest
	if !s.decode(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, s.manager.Resolve(body.source()).Masked())
}

// OpenSession handles POST /sessions: resolve, retrieve and register.
func (s *Server) OpenSession(w http.ResponseWriter, r *http.Request) {
	var body SessionRequest
	if !s.decode(w, r, &body) {
		return
	}

	sess, reused, err := s.manager.Session(r.Context(), body.source(), body.ID, body.WebSession)
	if err != nil {
		s.logger.Error("OpenSession failed", "err", err)
		http.Error(w, "session cache unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		Key:        s.manager.Registry().KeyFor(sess),
		ID:         sess.ID,
		Reused:     reused,
		Config:     sess.Config.Masked(),
		WebSession: sess.WebSession(),
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"keys": s.manager.Registry().Keys()})
}

// ResetSessions handles DELETE /sessions.
func (s *Server) ResetSessions(w http.ResponseWriter, r *http.Request) {
	s.manager.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// GetWebSession handles GET /sessions/{key}. Keys must be path-escaped.
func (s *Server) GetWebSession(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		http.Error(w, "invalid session key", http.StatusBadRequest)
		return
	}

	ws, found, err := s.manager.Registry().WebSession(r.Context(), key)
	if err != nil {
		s.logger.Error("GetWebSession failed", "key", key, "err", err)
		http.Error(w, "session cache unavailable", http.StatusBadGateway)
		return
	}
	if !found {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	http.Error(w, "Invalid request body", http.StatusBadRequest)
	s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
