package file

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/ooor/pkg/domain"
)

const ext = ".json"

// Cache implements ports.SessionCache on the local filesystem, one JSON
// file per key. Keys are base64url-encoded into file names because no-web
// keys carry URL characters.
type Cache struct {
	BasePath string
}

// NewCache creates a Cache rooted at basePath (".ooor/sessions" when empty).
func NewCache(basePath string) *Cache {
	if basePath == "" {
		basePath = filepath.Join(".ooor", "sessions")
	}
	return &Cache{BasePath: basePath}
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.BasePath, base64.RawURLEncoding.EncodeToString([]byte(key))+ext)
}

// Write stores ws atomically: temp file, fsync, rename.
func (c *Cache) Write(ctx context.Context, key string, ws domain.WebSession) error {
	if err := os.MkdirAll(c.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure cache directory: %w", err)
	}

	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal web session: %w", err)
	}

	tmpFile, err := os.CreateTemp(c.BasePath, "websession-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path(key)); err != nil {
		return fmt.Errorf("failed to move web session into place: %w", err)
	}
	return nil
}

// Read loads the web session stored under key.
func (c *Cache) Read(ctx context.Context, key string) (domain.WebSession, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read web session file: %w", err)
	}

	ws := domain.WebSession{}
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to unmarshal web session: %w", err)
	}
	return ws, nil
}

// Delete removes the file for key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete web session file: %w", err)
	}
	return nil
}

// List returns the stored keys.
func (c *Cache) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(c.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list web sessions: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ext {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSuffix(name, ext))
		if err != nil {
			continue // not ours
		}
		keys = append(keys, string(raw))
	}
	return keys, nil
}
