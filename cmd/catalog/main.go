// Command catalog serves the MCP catalog API, optionally refreshing the
// catalog on a schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mcpcatalog/registry/internal/api"
	"github.com/mcpcatalog/registry/internal/config"
	"github.com/mcpcatalog/registry/internal/database"
	"github.com/mcpcatalog/registry/internal/enrich"
	"github.com/mcpcatalog/registry/internal/ingest"
	"github.com/mcpcatalog/registry/internal/logger"
	"github.com/mcpcatalog/registry/internal/scheduler"
	"github.com/mcpcatalog/registry/internal/service"
	"github.com/mcpcatalog/registry/internal/telemetry"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("catalog server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, metricsHandler, err := telemetry.NewMetrics()
	if err != nil {
		return err
	}

	var db database.Database
	if cfg.DatabaseURL != "" {
		pg, err := database.NewPostgreSQL(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = pg.Close() }()
		db = pg
	} else {
		log.Warn("no database configured, serving from local snapshot only")
	}

	catalog := service.NewCatalogService(db, cfg.SnapshotPath, log)
	server := api.NewServer(cfg, catalog, metricsHandler, log)

	if cfg.RefreshIntervalHours > 0 {
		runner := buildRunner(cfg, db, log, metrics)
		sched := scheduler.New(runner, cfg.RefreshIntervalHours, log)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildRunner(cfg *config.Config, db database.Database, log *zap.Logger, metrics *telemetry.Metrics) *ingest.Runner {
	var store enrich.Store = enrich.NewMemoryStore()
	if cfg.RedisURL != "" {
		if opts, err := redis.ParseURL(cfg.RedisURL); err == nil {
			store = enrich.NewRedisStore(redis.NewClient(opts))
		} else {
			log.Warn("invalid redis URL, using in-process cache", zap.Error(err))
		}
	}

	client := enrich.NewClient(cfg.GithubAPIURL, cfg.GithubToken)
	enricher := enrich.NewEnricher(client, store, cfg.CacheTTL, cfg.EnrichDelay(), log, metrics)

	return ingest.NewRunner(ingest.RunnerOptions{
		ReadmePath:       cfg.ReadmePath,
		SnapshotPath:     cfg.SnapshotPath,
		FullSnapshotPath: cfg.FullSnapshotPath,
		MaxCatalogSize:   cfg.MaxCatalogSize,
		EnrichLimit:      cfg.EnrichLimit(),
	}, enricher, db, log, metrics)
}
