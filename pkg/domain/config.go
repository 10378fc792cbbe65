package domain

import (
	"fmt"
	"log/slog"
	"maps"
)

// Config is the canonical connection configuration.
// URL and Username are always set once a Config leaves the resolver. Empty
// optional fields mean "absent" and are omitted from every rendered form.
type Config struct {
	URL      string `json:"url" yaml:"url" mapstructure:"url"`
	Username string `json:"username" yaml:"username" mapstructure:"username"`
	Password string `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	Database string `json:"database,omitempty" yaml:"database,omitempty" mapstructure:"database"`

	// Reload forces the registry to build a fresh Session even when one is cached.
	Reload bool `json:"reload,omitempty" yaml:"reload,omitempty" mapstructure:"reload"`
	// SessionSharing keys registration by the session_id found in the WebSession.
	SessionSharing bool `json:"session_sharing,omitempty" yaml:"session_sharing,omitempty" mapstructure:"session_sharing"`
	// DisableLocaleSwitcher is consumed by request middleware, not by this module.
	DisableLocaleSwitcher bool `json:"disable_locale_switcher,omitempty" yaml:"disable_locale_switcher,omitempty" mapstructure:"disable_locale_switcher"`
	// LogLevel of a default config sets the process log level ("debug", "warn", 0-4...).
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" mapstructure:"log_level"`

	// Extra carries pass-through options untouched.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" mapstructure:",remain"`
}

// NoWebKey returns the deterministic composite of url, database and username.
// Equal connection parameters always yield the same key.
func (c Config) NoWebKey() string {
	return fmt.Sprintf("%s-%s-%s", c.URL, c.Database, c.Username)
}

// Map renders the mapping form of the config. Absent optional fields and
// false flags are left out rather than stored as zero values.
func (c Config) Map() map[string]any {
	m := make(map[string]any, 4+len(c.Extra))
	maps.Copy(m, c.Extra)
	if c.URL != "" {
		m[KeyURL] = c.URL
	}
	if c.Username != "" {
		m[KeyUsername] = c.Username
	}
	if c.Password != "" {
		m[KeyPassword] = c.Password
	}
	if c.Database != "" {
		m[KeyDatabase] = c.Database
	}
	if c.Reload {
		m[KeyReload] = true
	}
	if c.SessionSharing {
		m[KeySessionSharing] = true
	}
	if c.DisableLocaleSwitcher {
		m[KeyDisableLocaleSwitcher] = true
	}
	if c.LogLevel != "" {
		m[KeyLogLevel] = c.LogLevel
	}
	return m
}

// Masked returns a copy with the password hidden, for display.
func (c Config) Masked() Config {
	out := c
	if out.Password != "" {
		out.Password = "********"
	}
	out.Extra = maps.Clone(c.Extra)
	return out
}

// LogValue keeps passwords out of structured logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String(KeyURL, c.URL),
		slog.String(KeyUsername, c.Username),
		slog.String(KeyDatabase, c.Database),
		slog.Bool("has_password", c.Password != ""),
	)
}
