package ooor_test

import (
	"context"
	"testing"

	"github.com/aretw0/ooor"
	"github.com/aretw0/ooor/pkg/adapters/memory"
	"github.com/aretw0/ooor/pkg/config"
	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(cache *memory.Cache) *ooor.Manager {
	noEnv := config.WithLookupEnv(func(string) (string, bool) { return "", false })
	return ooor.New(
		ooor.WithResolver(config.NewResolver(noEnv)),
		ooor.WithRegistry(session.NewRegistry(cache)),
	)
}

func TestManager_NoWebSessionsAreReused(t *testing.T) {
	m := newManager(memory.NewCache())
	ctx := context.Background()
	src := config.FromString("admin:secret@myhost:8069/mydb")

	first, reused, err := m.Session(ctx, src, domain.NoWeb, nil)
	require.NoError(t, err)
	assert.False(t, reused)

	second, reused, err := m.Session(ctx, src, domain.NoWeb, nil)
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Same(t, first, second)

	assert.Equal(t, "http://myhost:8069", first.Config.URL)
	assert.Equal(t, "mydb", first.Config.Database)
}

func TestManager_ReloadBuildsNewSession(t *testing.T) {
	m := newManager(memory.NewCache())
	ctx := context.Background()

	first, _, err := m.Session(ctx, config.FromMap(map[string]any{"database": "db"}), domain.NoWeb, nil)
	require.NoError(t, err)

	second, reused, err := m.Session(ctx, config.FromMap(map[string]any{"database": "db", "reload": true}), domain.NoWeb, nil)
	require.NoError(t, err)
	assert.False(t, reused)
	assert.NotSame(t, first, second)

	current, ok := m.Registry().Lookup(first.Config.NoWebKey())
	require.True(t, ok)
	assert.Same(t, second, current, "the reloaded session replaces the old one")
}

func TestManager_SessionSharingUsesPayloadID(t *testing.T) {
	cache := memory.NewCache()
	m := newManager(cache)
	ctx := context.Background()
	src := config.FromMap(map[string]any{"session_sharing": true})

	first, _, err := m.Session(ctx, src, "", domain.WebSession{"session_id": "odoo-sid", "locale": "en_US"})
	require.NoError(t, err)

	second, reused, err := m.Session(ctx, src, "", domain.WebSession{"session_id": "odoo-sid", "locale": "fr_FR"})
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Same(t, first, second)
	assert.Equal(t, "fr_FR", first.Locale())

	persisted, err := cache.Read(ctx, "odoo-sid")
	require.NoError(t, err)
	assert.Equal(t, "en_US", persisted.Locale(), "merges after registration stay in process")
}

func TestManager_WebSessionSurvivesRestart(t *testing.T) {
	cache := memory.NewCache()
	ctx := context.Background()
	src := config.FromString("demo@erp/demo")

	_, _, err := newManager(cache).Session(ctx, src, "browser-1", domain.WebSession{"uid": 7})
	require.NoError(t, err)

	restarted := newManager(cache)
	s, reused, err := restarted.Session(ctx, src, "browser-1", nil)
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, 7, s.WebSession()["uid"])
}

func TestManager_Reset(t *testing.T) {
	m := newManager(memory.NewCache())
	ctx := context.Background()

	_, _, err := m.Session(ctx, config.FromMap(nil), domain.NoWeb, nil)
	require.NoError(t, err)
	require.Equal(t, 1, m.Registry().Len())

	m.Reset()
	assert.Equal(t, 0, m.Registry().Len())
}
