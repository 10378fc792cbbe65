package ports

import (
	"context"

	"github.com/aretw0/ooor/pkg/domain"
)

// SessionCache persists web sessions so they survive process restarts and
// can be shared between server processes. Expiry is owned by the implementation.
type SessionCache interface {
	// Read returns the web session stored under key.
	// Returns domain.ErrSessionNotFound if nothing is stored there.
	Read(ctx context.Context, key string) (domain.WebSession, error)

	// Write stores ws under key, replacing any previous value.
	Write(ctx context.Context, key string, ws domain.WebSession) error

	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Lister is implemented by caches able to enumerate their keys.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}
