package middleware

import (
	"context"
	"errors"

	"github.com/aretw0/ooor/pkg/ports"
)

// Middleware wraps a SessionCache to add behavior.
type Middleware func(ports.SessionCache) ports.SessionCache

// Chain applies mws to cache so that the first middleware is the outermost.
func Chain(cache ports.SessionCache, mws ...Middleware) ports.SessionCache {
	for i := len(mws) - 1; i >= 0; i-- {
		cache = mws[i](cache)
	}
	return cache
}

func list(ctx context.Context, next ports.SessionCache) ([]string, error) {
	lister, ok := next.(ports.Lister)
	if !ok {
		return nil, errors.New("underlying cache cannot list its keys")
	}
	return lister.List(ctx)
}
