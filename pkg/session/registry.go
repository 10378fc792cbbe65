package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/aretw0/ooor/internal/logging"
	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/observability"
	"github.com/aretw0/ooor/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a registration may hold the distributed lock.
const DefaultLockTTL = 30 * time.Second

// Registry maps session keys to live Sessions within one process.
//
// A single RWMutex guards the session and connection maps; each Session
// guards its own web session. Concurrent registrations of the same key are
// last-writer-wins. Across processes, WithLocker serializes registrations of
// the same key. The registry is a best-effort cache, not a source of truth.
type Registry struct {
	cache        ports.SessionCache
	defaults     domain.Config
	locker       ports.DistributedLocker
	lockTTL      time.Duration
	cacheTimeout time.Duration
	logger       *slog.Logger
	metrics      *observability.Metrics
	newID        func() string

	mu          sync.RWMutex
	sessions    map[string]*Session
	connections map[string]*Connection
}

// Option configures the Registry.
type Option func(*Registry)

// WithDefaults sets the config merged beneath every requested config.
func WithDefaults(defaults domain.Config) Option {
	return func(r *Registry) {
		r.defaults = defaults
	}
}

// WithLocker serializes registrations of the same key across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(r *Registry) {
		r.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.lockTTL = ttl
	}
}

// WithCacheTimeout bounds every cache call. Zero leaves the caller's context untouched.
func WithCacheTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.cacheTimeout = d
	}
}

// WithLogger configures a logger for the Registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithIDGenerator replaces NewID for sessions retrieved without an id.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		r.newID = fn
	}
}

// NewID returns a random 16-byte identifier, hex encoded.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// NewRegistry creates an empty Registry persisting web sessions into cache.
func NewRegistry(cache ports.SessionCache, opts ...Option) *Registry {
	r := &Registry{
		cache:       cache,
		lockTTL:     DefaultLockTTL,
		logger:      logging.NewNop(),
		newID:       NewID,
		sessions:    make(map[string]*Session),
		connections: make(map[string]*Connection),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RetrieveSession returns the session for cfg and id.
//
// An empty id gets a fresh random one; domain.NoWeb keys the session by
// connection identity. An existing session with the same identity is reused
// and web is merged into it. Otherwise (no entry, cfg.Reload, or an entry
// for a different url/database/username) a new, unregistered Session is
// built; call RegisterSession once it is initialized.
//
// The only error source is the cache, consulted when a new session is built
// for an external id so that its persisted web session is restored.
func (r *Registry) RetrieveSession(ctx context.Context, cfg domain.Config, id string, web domain.WebSession) (*Session, error) {
	generated := id == ""
	if generated {
		id = r.newID()
	}
	cfg = r.withDefaults(cfg)

	key := id
	if id == domain.NoWeb {
		key = cfg.NoWebKey()
	}

	r.mu.RLock()
	existing, found := r.sessions[key]
	r.mu.RUnlock()

	var outcome string
	switch {
	case !found:
		outcome = observability.OutcomeCreated
	case cfg.Reload:
		outcome = observability.OutcomeReloaded
	case existing.Config.NoWebKey() != cfg.NoWebKey():
		outcome = observability.OutcomeStale
		r.logger.Debug("Session identity changed, rebuilding",
			"key", key,
			"was", existing.Config.NoWebKey(),
			"now", cfg.NoWebKey(),
		)
	default:
		existing.MergeWebSession(web)
		r.metrics.Retrieved(observability.OutcomeReused)
		return existing, nil
	}

	payload := domain.WebSession{}
	if !found && !generated && id != domain.NoWeb {
		persisted, ok, err := r.WebSession(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			payload.Merge(persisted)
		}
	}
	payload.Merge(web)

	r.metrics.Retrieved(outcome)
	return &Session{
		ID:         id,
		Config:     cfg,
		Connection: r.Connection(cfg),
		CreatedAt:  time.Now(),
		web:        payload,
	}, nil
}

// KeyFor returns the key a session is registered under: the web session's
// session_id when session sharing is on, else its id, else its connection
// identity for domain.NoWeb sessions.
func (r *Registry) KeyFor(s *Session) string {
	if s.Config.SessionSharing {
		if sid := s.WebSession().SessionID(); sid != "" {
			return sid
		}
	}
	if s.ID != domain.NoWeb {
		return s.ID
	}
	return s.Config.NoWebKey()
}

// RegisterSession persists the session's web session to the cache and stores
// the session in the registry under KeyFor(s). Cache failures are returned
// and leave the registry unchanged.
func (r *Registry) RegisterSession(ctx context.Context, s *Session) (err error) {
	key := r.KeyFor(s)
	defer func() { r.metrics.Registered(err) }()

	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, key, r.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to lock session %q: %w", key, err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				r.logger.Warn("Failed to release session lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	cctx, cancel := r.cacheContext(ctx)
	defer cancel()
	if err := r.cache.Write(cctx, key, s.WebSession()); err != nil {
		return fmt.Errorf("failed to persist web session %q: %w", key, err)
	}

	r.mu.Lock()
	r.sessions[key] = s
	n := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActive(n)
	r.logger.Debug("Registered session", "key", key, "config", s.Config)
	return nil
}

// Lookup returns the session registered under key.
func (r *Registry) Lookup(key string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[key]
	return s, ok
}

// WebSession reads the web session persisted under key. A missing entry is
// reported as ok == false, not as an error.
func (r *Registry) WebSession(ctx context.Context, key string) (domain.WebSession, bool, error) {
	cctx, cancel := r.cacheContext(ctx)
	defer cancel()

	ws, err := r.cache.Read(cctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read web session %q: %w", key, err)
	}
	return ws, true, nil
}

// Connection returns the connection for cfg's identity, creating it on first use.
func (r *Registry) Connection(cfg domain.Config) *Connection {
	key := cfg.NoWebKey()

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.connections[key]; ok {
		return c
	}
	c := &Connection{Config: cfg, CreatedAt: time.Now()}
	r.connections[key] = c
	return c
}

// Keys returns the registered session keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.sessions))
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Reset drops every session and connection held by this process.
// The cache is left alone; its entries expire on their own.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.sessions = make(map[string]*Session)
	r.connections = make(map[string]*Connection)
	r.mu.Unlock()

	r.metrics.Reset()
	r.metrics.SetActive(0)
}

// withDefaults fills the zero fields of cfg from the registry defaults.
// Neither the caller's Extra map nor the defaults' is shared with the result.
func (r *Registry) withDefaults(cfg domain.Config) domain.Config {
	if len(cfg.Extra) > 0 || len(r.defaults.Extra) > 0 {
		extra := make(map[string]any, len(cfg.Extra)+len(r.defaults.Extra))
		maps.Copy(extra, cfg.Extra)
		cfg.Extra = extra
	}
	if err := mergo.Merge(&cfg, r.defaults); err != nil {
		r.logger.Warn("Failed to merge default config", "err", err)
	}
	return cfg
}

func (r *Registry) cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cacheTimeout > 0 {
		return context.WithTimeout(ctx, r.cacheTimeout)
	}
	return ctx, func() {}
}
