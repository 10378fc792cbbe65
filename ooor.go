package ooor

import (
	"context"
	"log/slog"

	"github.com/aretw0/ooor/internal/logging"
	"github.com/aretw0/ooor/pkg/adapters/memory"
	"github.com/aretw0/ooor/pkg/config"
	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/session"
)

// Version is the library version, overridable at link time.
var Version = "0.1.0-dev"

// Manager is the high-level entry point: it resolves raw configs and hands
// out reusable sessions.
type Manager struct {
	resolver *config.Resolver
	registry *session.Registry
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Manager.
type Option func(*Manager)

// WithResolver injects a custom resolver.
func WithResolver(r *config.Resolver) Option {
	return func(m *Manager) {
		m.resolver = r
	}
}

// WithRegistry injects a registry, typically one backed by Redis.
func WithRegistry(r *session.Registry) Option {
	return func(m *Manager) {
		m.registry = r
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// New creates a Manager. Without options it resolves from the environment
// and keeps web sessions in memory.
func New(opts ...Option) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	if m.resolver == nil {
		m.resolver = config.NewResolver(config.WithLogger(m.logger))
	}
	if m.registry == nil {
		m.registry = session.NewRegistry(memory.NewCache(), session.WithLogger(m.logger))
	}
	return m
}

// Resolver returns the underlying resolver.
func (m *Manager) Resolver() *config.Resolver {
	return m.resolver
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *session.Registry {
	return m.registry
}

// Resolve is a shortcut for Resolver().Resolve.
func (m *Manager) Resolve(src config.Source) domain.Config {
	return m.resolver.Resolve(src)
}

// Session resolves src and returns the session for id, registering it when
// it was freshly built. reused reports whether an already registered session
// was returned.
//
// With session sharing enabled and no explicit id, the session_id carried by
// web selects the session.
func (m *Manager) Session(ctx context.Context, src config.Source, id string, web domain.WebSession) (s *session.Session, reused bool, err error) {
	cfg := m.resolver.Resolve(src)
	if cfg.SessionSharing && id == "" {
		id = web.SessionID()
	}

	s, err = m.registry.RetrieveSession(ctx, cfg, id, web)
	if err != nil {
		return nil, false, err
	}

	if current, ok := m.registry.Lookup(m.registry.KeyFor(s)); ok && current == s {
		return s, true, nil
	}
	if err := m.registry.RegisterSession(ctx, s); err != nil {
		return nil, false, err
	}
	m.logger.Info("Opened session", "key", m.registry.KeyFor(s), "config", s.Config)
	return s, false, nil
}

// Reset drops every in-process session.
func (m *Manager) Reset() {
	m.registry.Reset()
}
