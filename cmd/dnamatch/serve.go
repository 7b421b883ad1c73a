package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dnamatch/internal/config"
	"github.com/kailas-cloud/dnamatch/internal/metrics"
	"github.com/kailas-cloud/dnamatch/internal/tracing"
	chiTransport "github.com/kailas-cloud/dnamatch/internal/transport/chi"
	"github.com/kailas-cloud/dnamatch/internal/transport/matcher"
	healthuc "github.com/kailas-cloud/dnamatch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/dnamatch/internal/usecase/search"
	"github.com/kailas-cloud/dnamatch/internal/version"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the search web UI",
		Long: `Serve the search web UI and its JSON API. One search session is
shared by every visitor; it stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), g)
		},
	}
}

func runServe(ctx context.Context, g *globalFlags) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger, err := g.newLogger(g.env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dnamatch web UI",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", g.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("matcher_endpoint", cfg.Matcher.Endpoint),
	)

	shutdownTracing, err := tracing.Init(tracing.Config{
		ServiceName: cfg.Tracing.ServiceName,
		Enabled:     cfg.Tracing.Enabled,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	srv := newHTTPServer(&cfg, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("Error flushing traces", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// newHTTPServer is the composition root of the web UI.
func newHTTPServer(cfg *config.Config, logger *zap.Logger) *http.Server {
	// Register matcher metrics explicitly (no init())
	metrics.RegisterMatcherMetrics()

	client := matcher.NewClient(&matcher.Config{
		Endpoint: cfg.Matcher.Endpoint,
		Logger:   logger,
	})
	session := searchuc.New(client, logger)
	server := chiTransport.NewServer(session, cfg.Web.DefaultK, logger).
		WithHealth(healthuc.New(client))

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      chiTransport.NewRouter(server, cfg.Web.AllowedOrigins, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}
}
