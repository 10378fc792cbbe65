package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/ooor"
	httpAdapter "github.com/aretw0/ooor/pkg/adapters/http"
	"github.com/aretw0/ooor/pkg/config"
	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/observability"
	"github.com/aretw0/ooor/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the session admin HTTP server",
	Long:  `Serves the resolve/session admin API and Prometheus metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		cacheTimeout, _ := cmd.Flags().GetDuration("cache-timeout")
		configPath, _ := cmd.Flags().GetString("config")
		logger := newLogger(cmd)

		// The default config is merged beneath every session's config; its
		// log_level applies unless a flag overrides it.
		var defaults domain.Config
		if configPath != "" {
			defaults = newResolver(cmd, logger).Resolve(config.FromFile(configPath))
			logger = newLoggerWithDefault(cmd, defaults.LogLevel)
			logger.Info("Loaded default config", "path", configPath, "config", defaults)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())

		cache, locker, err := newCache(cmd, logger)
		if err != nil {
			return err
		}
		registryOpts := []session.Option{
			session.WithLogger(logger),
			session.WithMetrics(observability.NewMetrics(reg)),
			session.WithCacheTimeout(cacheTimeout),
		}
		if configPath != "" {
			registryOpts = append(registryOpts, session.WithDefaults(defaults))
		}
		if locker != nil {
			registryOpts = append(registryOpts, session.WithLocker(locker))
		}

		manager := ooor.New(
			ooor.WithLogger(logger),
			ooor.WithResolver(newResolver(cmd, logger)),
			ooor.WithRegistry(session.NewRegistry(cache, registryOpts...)),
		)

		srv := &http.Server{
			Addr: ":" + port,
			Handler: httpAdapter.NewHandler(manager,
				httpAdapter.WithGatherer(reg),
				httpAdapter.WithLogger(logger),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting ooor admin server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8070", "Port to listen on")
	serveCmd.Flags().String("config", "", "Default config file (YAML), e.g. config/ooor.yml")
	serveCmd.Flags().Duration("cache-timeout", 2*time.Second, "Timeout for each session cache call")
}
