package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/ooor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionCacheContract runs a suite of tests to verify that a SessionCache
// implementation adheres to the interface contract.
func RunSessionCacheContract(t *testing.T, cache SessionCache) {
	ctx := context.Background()
	key := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Write and Read", func(t *testing.T) {
		ws := domain.WebSession{
			"session_id": "abc123",
			"locale":     "en_US",
		}

		require.NoError(t, cache.Write(ctx, key, ws), "Write should not return error")

		loaded, err := cache.Read(ctx, key)
		require.NoError(t, err, "Read should not return error")
		assert.Equal(t, "abc123", loaded.SessionID())
		assert.Equal(t, "en_US", loaded.Locale())
	})

	t.Run("Write Replaces", func(t *testing.T) {
		require.NoError(t, cache.Write(ctx, key, domain.WebSession{"locale": "fr_FR"}))

		loaded, err := cache.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "fr_FR", loaded.Locale())
		assert.Empty(t, loaded.SessionID(), "previous fields must not leak into the new value")
	})

	t.Run("Read Isolated", func(t *testing.T) {
		require.NoError(t, cache.Write(ctx, key, domain.WebSession{"locale": "de_DE"}))

		loaded, err := cache.Read(ctx, key)
		require.NoError(t, err)
		loaded["locale"] = "mutated"

		again, err := cache.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "de_DE", again.Locale(), "mutating a read value must not change the cache")
	})

	t.Run("Nested Values Isolated", func(t *testing.T) {
		nested := map[string]any{"lang": "en_US"}
		require.NoError(t, cache.Write(ctx, key, domain.WebSession{"context": nested}))
		nested["lang"] = "fr_FR"

		loaded, err := cache.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "en_US", loaded.Locale(), "mutating the written value must not change the cache")

		loaded["context"].(map[string]any)["lang"] = "pt_BR"
		again, err := cache.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "en_US", again.Locale(), "mutating a nested read value must not change the cache")
	})

	t.Run("Read Non-Existent", func(t *testing.T) {
		_, err := cache.Read(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Write(ctx, key, domain.WebSession{"locale": "en_US"}))
		require.NoError(t, cache.Delete(ctx, key), "Delete should not return error")

		_, err := cache.Read(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Read after Delete should return ErrSessionNotFound")

		assert.NoError(t, cache.Delete(ctx, key), "deleting a missing key is not an error")
	})
}
