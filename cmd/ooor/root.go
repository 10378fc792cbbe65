package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/aretw0/ooor/internal/logging"
	"github.com/aretw0/ooor/pkg/adapters/file"
	"github.com/aretw0/ooor/pkg/adapters/redis"
	"github.com/aretw0/ooor/pkg/config"
	"github.com/aretw0/ooor/pkg/persistence/middleware"
	"github.com/aretw0/ooor/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ooor",
	Short: "ooor resolves OpenERP/Odoo connections and manages their sessions",
	Long: `ooor turns connection descriptors, config files and OOOR_* environment
variables into canonical connection configs, and inspects the web sessions
persisted by the session registry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			if _, err := logging.ParseLevel(lvl); err != nil {
				return err
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-level", "", "Log level: debug, info, warn, error, or 0-4 (default warn)")
	flags.String("env", "", "Config file section to use (default development)")
	flags.String("redis-addr", "", "Redis address for the session cache (file cache when empty)")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database number")
	flags.String("cache-dir", ".ooor/sessions", "Directory of the file session cache")
	flags.String("cache-key", "", "Base64 AES-256 key encrypting cached web sessions (or OOOR_CACHE_KEY)")
	flags.StringSlice("mask", nil, "Regexp of web session fields masked before caching (repeatable)")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	return newLoggerWithDefault(cmd, "")
}

// newLoggerWithDefault uses fallback (a config log_level) when neither
// --debug nor --log-level is given.
func newLoggerWithDefault(cmd *cobra.Command, fallback string) *slog.Logger {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return logging.New(slog.LevelDebug)
	}
	lvl, _ := cmd.Flags().GetString("log-level")
	if lvl == "" {
		lvl = fallback
	}
	if lvl == "" {
		return logging.New(slog.LevelWarn)
	}
	level, err := logging.ParseLevel(lvl)
	if err != nil {
		logger := logging.New(slog.LevelWarn)
		logger.Warn("Ignoring log level", "err", err)
		return logger
	}
	return logging.New(level)
}

func newResolver(cmd *cobra.Command, logger *slog.Logger) *config.Resolver {
	env, _ := cmd.Flags().GetString("env")
	return config.NewResolver(
		config.WithLoader(file.NewLoader(file.WithEnvironment(env))),
		config.WithLogger(logger),
	)
}

// newCache returns the Redis cache when --redis-addr is set, the file cache otherwise,
// wrapped by the masking and encryption middlewares when configured.
// The locker is nil for the file cache.
func newCache(cmd *cobra.Command, logger *slog.Logger) (ports.SessionCache, ports.DistributedLocker, error) {
	mws, err := cacheMiddlewares(cmd, logger)
	if err != nil {
		return nil, nil, err
	}

	addr, _ := cmd.Flags().GetString("redis-addr")
	if addr == "" {
		dir, _ := cmd.Flags().GetString("cache-dir")
		return middleware.Chain(file.NewCache(dir), mws...), nil, nil
	}
	password, _ := cmd.Flags().GetString("redis-password")
	db, _ := cmd.Flags().GetInt("redis-db")

	cache := redis.New(addr, password, db)
	return middleware.Chain(cache, mws...), redis.NewLocker(cache.Client(), "ooor:"), nil
}

func cacheMiddlewares(cmd *cobra.Command, logger *slog.Logger) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware

	if patterns, _ := cmd.Flags().GetStringSlice("mask"); len(patterns) > 0 {
		for _, p := range patterns {
			if _, err := regexp.Compile(p); err != nil {
				return nil, fmt.Errorf("invalid --mask pattern %q: %w", p, err)
			}
		}
		mws = append(mws, middleware.NewMaskMiddleware(patterns))
	}

	encoded, _ := cmd.Flags().GetString("cache-key")
	if encoded == "" {
		encoded = os.Getenv("OOOR_CACHE_KEY")
	}
	if encoded != "" {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(key) != 32 {
			return nil, errors.New("cache key must be 32 base64-encoded bytes")
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: key,
			Logger:    logger,
		}))
	}
	return mws, nil
}
