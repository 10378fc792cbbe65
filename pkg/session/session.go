package session

import (
	"sync"
	"time"

	"github.com/aretw0/ooor/pkg/domain"
)

// Connection is the handle shared by every Session that targets the same
// url, database and username. The RPC client that talks over it lives
// outside this module.
type Connection struct {
	Config    domain.Config
	CreatedAt time.Time
}

// Key returns the connection identity.
func (c *Connection) Key() string {
	return c.Config.NoWebKey()
}

// Session binds one Config and one WebSession to a Connection.
// Sessions are created by a Registry; the web session is mutated in place
// when later requests merge their payload into it.
type Session struct {
	ID         string
	Config     domain.Config
	Connection *Connection
	CreatedAt  time.Time

	mu  sync.RWMutex
	web domain.WebSession
}

// WebSession returns a snapshot of the web session.
func (s *Session) WebSession() domain.WebSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.web.Clone()
}

// MergeWebSession merges ws into the web session; later writes win.
func (s *Session) MergeWebSession(ws domain.WebSession) {
	if len(ws) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.web == nil {
		s.web = domain.WebSession{}
	}
	s.web.Merge(ws)
}

// SetWebValue sets a single web session entry.
func (s *Session) SetWebValue(key string, value any) {
	s.MergeWebSession(domain.WebSession{key: value})
}

// Locale is a shortcut for WebSession().Locale().
func (s *Session) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.web.Locale()
}
