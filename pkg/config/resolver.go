package config

import (
	"log/slog"
	"maps"
	"os"

	"dario.cat/mergo"
	"github.com/aretw0/ooor/internal/logging"
	"github.com/aretw0/ooor/pkg/adapters/file"
	"github.com/aretw0/ooor/pkg/connstr"
	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Resolver turns a Source into a canonical domain.Config.
// It performs no network I/O and is safe for concurrent use.
type Resolver struct {
	loader    ports.ConfigLoader
	lookupEnv func(string) (string, bool)
	defaults  domain.Config
	logger    *slog.Logger
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLoader sets the config file loader (default: YAML/JSON file loader).
func WithLoader(loader ports.ConfigLoader) Option {
	return func(r *Resolver) {
		r.loader = loader
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) {
		r.lookupEnv = fn
	}
}

// WithDefaults replaces the built-in defaults. Empty url or username still
// fall back to the built-in values.
func WithDefaults(defaults domain.Config) Option {
	return func(r *Resolver) {
		r.defaults = defaults
	}
}

// WithLogger configures a logger for load warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Defaults returns the built-in default config.
func Defaults() domain.Config {
	return domain.Config{
		URL:      domain.DefaultURL,
		Username: domain.DefaultUsername,
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		loader:    file.NewLoader(),
		lookupEnv: os.LookupEnv,
		defaults:  Defaults(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces the canonical config for src. URL and Username are
// always set on the result.
func (r *Resolver) Resolve(src Source) domain.Config {
	values := map[string]any{}
	var cs string

	switch src.kind {
	case kindFile:
		loaded, err := r.loader.Load(src.path)
		if err != nil {
			r.logger.Warn("Failed to load config file, using empty config",
				"path", src.path,
				"err", err,
			)
		} else {
			values = maps.Clone(loaded)
		}
	case kindDescriptor:
		cs = src.descriptor
	case kindMap:
		values = maps.Clone(src.values)
	}
	if values == nil {
		values = map[string]any{}
	}

	// A descriptor source is parsed even when empty; only mappings and files
	// fall back to ooor_url and then OOOR_URL.
	hasDescriptor := src.kind == kindDescriptor
	if !hasDescriptor {
		if v, ok := values[domain.KeyOoorURL].(string); ok && v != "" {
			cs, hasDescriptor = v, true
		} else if v, ok := r.lookupEnv(domain.EnvURL); ok && v != "" {
			cs, hasDescriptor = v, true
		}
	}
	delete(values, domain.KeyOoorURL)

	// The descriptor is authoritative: its fields overwrite the mapping.
	if hasDescriptor {
		maps.Copy(values, connstr.Parse(cs).Map())
	}

	r.overrideFromEnv(values, domain.EnvPassword, domain.KeyPassword)
	r.overrideFromEnv(values, domain.EnvUsername, domain.KeyUsername)
	r.overrideFromEnv(values, domain.EnvDatabase, domain.KeyDatabase)

	if err := mergo.Merge(&values, r.defaults.Map()); err != nil {
		r.logger.Warn("Failed to apply config defaults", "err", err)
	}

	cfg := r.decode(values)
	if cfg.URL == "" {
		cfg.URL = domain.DefaultURL
	}
	if cfg.Username == "" {
		cfg.Username = domain.DefaultUsername
	}

	r.logger.Debug("Resolved connection config", "config", cfg)
	return cfg
}

func (r *Resolver) overrideFromEnv(values map[string]any, env, key string) {
	if v, ok := r.lookupEnv(env); ok {
		values[key] = v
	}
}

// decode maps values onto a Config. Fields that fail to decode keep their
// zero value; the failure is logged.
func (r *Resolver) decode(values map[string]any) domain.Config {
	var cfg domain.Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		r.logger.Warn("Failed to build config decoder", "err", err)
		return cfg
	}
	if err := decoder.Decode(values); err != nil {
		r.logger.Warn("Some config options could not be decoded", "err", err)
	}
	return cfg
}
