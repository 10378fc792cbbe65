package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/ports"
)

// Mask replaces the value of a masked field.
const Mask = "***"

type maskMiddleware struct {
	next     ports.SessionCache
	patterns []*regexp.Regexp
}

// NewMaskMiddleware masks, before persisting, the values of web session
// fields (at any depth) whose key matches one of the patterns. The caller's
// web session is left untouched. It panics on an invalid pattern.
func NewMaskMiddleware(patterns []string) Middleware {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionCache) ports.SessionCache {
		return &maskMiddleware{next: next, patterns: compiled}
	}
}

func (m *maskMiddleware) Write(ctx context.Context, key string, ws domain.WebSession) error {
	masked := ws.Clone()
	maskMap(masked, m.patterns)
	return m.next.Write(ctx, key, masked)
}

func (m *maskMiddleware) Read(ctx context.Context, key string) (domain.WebSession, error) {
	return m.next.Read(ctx, key)
}

func (m *maskMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *maskMiddleware) List(ctx context.Context) ([]string, error) {
	return list(ctx, m.next)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			maskMap(sub, patterns)
			continue
		}
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				break
			}
		}
	}
}
