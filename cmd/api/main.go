package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"panic-buying/internal/api"
	"panic-buying/internal/config"
	"panic-buying/internal/emit"
	"panic-buying/internal/logging"
	"panic-buying/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel, os.Stderr)
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
		logger = logging.NewJSONLogger(cfg.LogLevel, os.Stderr)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.ServerConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := api.Options{
		ScenarioDir: cfg.ScenarioDir,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
		Cache:       store.NewResultCache(cfg.CacheTTL, cfg.CacheSize),
		Logger:      logger,
	}

	// An empty RUNS_DB disables persistence.
	if cfg.RunsDB != "" {
		db, err := store.New(cfg.RunsDB)
		if err != nil {
			return fmt.Errorf("opening run store: %w", err)
		}
		defer db.Close()
		opts.Store = db
		logger.Info("run store opened", "path", cfg.RunsDB)
	}

	if cfg.MQTT.Enabled() {
		sink, err := emit.NewMQTTSink(cfg.MQTT, false)
		if err != nil {
			return err
		}
		defer sink.Close()
		opts.Sink = sink
		logger.Info("publishing runs over MQTT", "broker", cfg.MQTT.Broker, "prefix", cfg.MQTT.TopicPrefix)
	}

	if cfg.CacheTTL > 0 {
		janitorStop := make(chan struct{})
		defer close(janitorStop)
		opts.Cache.StartJanitor(cfg.CacheTTL, janitorStop)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           api.NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", "addr", srv.Addr, "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
