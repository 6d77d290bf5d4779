// Command scrape runs the README-to-catalog ingestion pipeline once: parse
// the servers README, enrich the top entries from the GitHub API, rank, and
// persist. A persistence failure exits non-zero so operators see it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mcpcatalog/registry/internal/config"
	"github.com/mcpcatalog/registry/internal/database"
	"github.com/mcpcatalog/registry/internal/enrich"
	"github.com/mcpcatalog/registry/internal/ingest"
	"github.com/mcpcatalog/registry/internal/logger"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GithubToken == "" {
		log.Warn("GITHUB_TOKEN not set, anonymous quota applies",
			zap.Int("enrich_limit", cfg.EnrichLimit()))
	}

	var db database.Database
	if cfg.DatabaseURL != "" {
		pg, err := database.NewPostgreSQL(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer func() { _ = pg.Close() }()
		db = pg
	}

	var store enrich.Store = enrich.NewMemoryStore()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("invalid redis URL", zap.Error(err))
		}
		store = enrich.NewRedisStore(redis.NewClient(opts))
	}

	client := enrich.NewClient(cfg.GithubAPIURL, cfg.GithubToken)
	enricher := enrich.NewEnricher(client, store, cfg.CacheTTL, cfg.EnrichDelay(), log, nil)

	runner := ingest.NewRunner(ingest.RunnerOptions{
		ReadmePath:       cfg.ReadmePath,
		SnapshotPath:     cfg.SnapshotPath,
		FullSnapshotPath: cfg.FullSnapshotPath,
		MaxCatalogSize:   cfg.MaxCatalogSize,
		EnrichLimit:      cfg.EnrichLimit(),
	}, enricher, db, log, nil)

	if err := runner.Run(ctx); err != nil {
		log.Fatal("pipeline run failed", zap.Error(err))
	}
}
