package config_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/ooor/pkg/config"
	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(vars map[string]string) config.Option {
	return config.WithLookupEnv(func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	})
}

func TestResolve_Defaults(t *testing.T) {
	r := config.NewResolver(fakeEnv(nil))

	cfg := r.Resolve(config.FromMap(nil))
	assert.Equal(t, domain.Config{URL: "http://localhost:8069", Username: "admin"}, cfg)
}

func TestResolve_NeverLeavesURLOrUsernameUnset(t *testing.T) {
	r := config.NewResolver(fakeEnv(nil), config.WithDefaults(domain.Config{}))

	sources := map[string]config.Source{
		"empty map":        config.FromMap(map[string]any{}),
		"blank values":     config.FromMap(map[string]any{"url": "", "username": ""}),
		"nil values":       config.FromMap(map[string]any{"url": nil, "username": nil}),
		"empty descriptor": config.FromString(""),
		"garbage":          config.FromString("::@@//"),
		"missing file":     config.FromFile(filepath.Join(t.TempDir(), "nope.yml")),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			cfg := r.Resolve(src)
			assert.NotEmpty(t, cfg.URL)
			assert.NotEmpty(t, cfg.Username)
		})
	}
}

func TestResolve_EmptyDescriptorIgnoresEnvURL(t *testing.T) {
	r := config.NewResolver(fakeEnv(map[string]string{"OOOR_URL": "bob@erp.example.com/sales"}))

	cfg := r.Resolve(config.FromString(""))
	assert.Equal(t, config.Defaults(), cfg)

	cfg = r.Resolve(config.FromMap(nil))
	assert.Equal(t, "http://erp.example.com:8069", cfg.URL, "mappings still fall back to OOOR_URL")
}

func TestResolve_Descriptor(t *testing.T) {
	r := config.NewResolver(fakeEnv(nil))

	cfg := r.Resolve(config.FromString("admin:secret@myhost:8069/mydb"))
	assert.Equal(t, domain.Config{
		URL:      "http://myhost:8069",
		Username: "admin",
		Password: "secret",
		Database: "mydb",
	}, cfg)
}

func TestResolve_DescriptorOverwritesMapping(t *testing.T) {
	r := config.NewResolver(fakeEnv(nil))

	cfg := r.Resolve(config.FromMap(map[string]any{
		"ooor_url": "demo@erp:8070/demo",
		"url":      "http://ignored:1",
		"database": "ignored",
		"reload":   true,
	}))

	assert.Equal(t, "http://erp:8070", cfg.URL)
	assert.Equal(t, "demo", cfg.Username)
	assert.Equal(t, "demo", cfg.Database)
	assert.True(t, cfg.Reload, "non-descriptor options survive")
	assert.NotContains(t, cfg.Extra, "ooor_url")
}

func TestResolve_EnvDescriptorOnlyWithoutExplicitKey(t *testing.T) {
	env := fakeEnv(map[string]string{domain.EnvURL: "env@envhost/envdb"})
	r := config.NewResolver(env)

	cfg := r.Resolve(config.FromMap(map[string]any{}))
	assert.Equal(t, "http://envhost:8069", cfg.URL)
	assert.Equal(t, "env", cfg.Username)
	assert.Equal(t, "envdb", cfg.Database)

	cfg = r.Resolve(config.FromMap(map[string]any{"ooor_url": "explicit@host/db"}))
	assert.Equal(t, "explicit", cfg.Username)
}

func TestResolve_EnvOverrides(t *testing.T) {
	env := fakeEnv(map[string]string{
		domain.EnvUsername: "envuser",
		domain.EnvPassword: "envpass",
		domain.EnvDatabase: "envdb",
	})
	r := config.NewResolver(env)

	cfg := r.Resolve(config.FromString("admin:secret@myhost/mydb"))
	assert.Equal(t, "http://myhost:8069", cfg.URL)
	assert.Equal(t, "envuser", cfg.Username)
	assert.Equal(t, "envpass", cfg.Password)
	assert.Equal(t, "envdb", cfg.Database)
}

func TestResolve_WeaklyTypedOptions(t *testing.T) {
	r := config.NewResolver(fakeEnv(nil))

	cfg := r.Resolve(config.FromMap(map[string]any{
		"reload":                  "true",
		"session_sharing":         1,
		"disable_locale_switcher": "false",
		"timeout":                 30,
	}))

	assert.True(t, cfg.Reload)
	assert.True(t, cfg.SessionSharing)
	assert.False(t, cfg.DisableLocaleSwitcher)
	assert.Equal(t, 30, cfg.Extra["timeout"])
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	r := config.NewResolver(fakeEnv(nil))
	raw := map[string]any{"ooor_url": "admin@host"}

	_ = r.Resolve(config.FromMap(raw))
	assert.Equal(t, map[string]any{"ooor_url": "admin@host"}, raw)
}

func TestResolve_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ooor.yml")
	require.NoError(t, os.WriteFile(path, []byte("ooor_url: admin@erp:443/prod\nsession_sharing: true\n"), 0o644))

	r := config.NewResolver(fakeEnv(nil))
	cfg := r.Resolve(config.FromString(path))

	assert.Equal(t, "https://erp:443", cfg.URL)
	assert.Equal(t, "prod", cfg.Database)
	assert.True(t, cfg.SessionSharing)
}

func TestResolve_FileDevelopmentSectionAndLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ooor.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
development:
  url: http://dev-erp:8069
  database: dev
  log_level: 0
production:
  url: https://erp:443
`), 0o644))

	cfg := config.NewResolver(fakeEnv(nil)).Resolve(config.FromFile(path))

	assert.Equal(t, "http://dev-erp:8069", cfg.URL)
	assert.Equal(t, "dev", cfg.Database)
	assert.Equal(t, "0", cfg.LogLevel)
	assert.Empty(t, cfg.Extra, "sections must not leak into Extra")
}

func TestResolve_FileLoadFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	failing := ports.ConfigLoaderFunc(func(string) (map[string]any, error) {
		return nil, errors.New("permission denied")
	})

	r := config.NewResolver(fakeEnv(nil), config.WithLoader(failing), config.WithLogger(logger))
	cfg := r.Resolve(config.FromFile("ooor.yml"))

	assert.Equal(t, config.Defaults(), cfg)
	assert.Contains(t, buf.String(), "permission denied")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestResolve_CustomDefaultsOnlyFillMissing(t *testing.T) {
	defaults := domain.Config{URL: "http://erp:8069", Username: "bot", Database: "main"}
	r := config.NewResolver(fakeEnv(nil), config.WithDefaults(defaults))

	cfg := r.Resolve(config.FromMap(map[string]any{"username": "alice"}))
	assert.Equal(t, "http://erp:8069", cfg.URL)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, "main", cfg.Database)
}

func TestFromString_DetectsFiles(t *testing.T) {
	r := config.NewResolver(fakeEnv(nil), config.WithLoader(ports.ConfigLoaderFunc(
		func(path string) (map[string]any, error) {
			return map[string]any{"database": path}, nil
		},
	)))

	assert.Equal(t, "conf/ooor.YAML", r.Resolve(config.FromString("conf/ooor.YAML")).Database)
	assert.Empty(t, r.Resolve(config.FromString("host/db")).Password)
}
