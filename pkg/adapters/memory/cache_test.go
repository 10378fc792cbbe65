package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/ooor/pkg/adapters/memory"
	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Contract(t *testing.T) {
	cache := memory.NewCache()
	ports.RunSessionCacheContract(t, cache)
}

func TestMemoryCache_WriteCopies(t *testing.T) {
	cache := memory.NewCache()
	ctx := context.Background()

	ws := domain.WebSession{"locale": "en_US"}
	require.NoError(t, cache.Write(ctx, "k", ws))
	ws["locale"] = "fr_FR"

	loaded, err := cache.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "en_US", loaded.Locale())
}

func TestMemoryCache_List(t *testing.T) {
	cache := memory.NewCache()
	ctx := context.Background()

	_ = cache.Write(ctx, "a", domain.WebSession{})
	_ = cache.Write(ctx, "b", domain.WebSession{})

	keys, err := cache.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}
