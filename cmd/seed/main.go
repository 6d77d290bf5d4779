// Command seed loads a catalog snapshot file and upserts it into the remote
// table. Useful for bootstrapping a fresh database from a committed
// snapshot without re-running the full pipeline.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mcpcatalog/registry/internal/config"
	"github.com/mcpcatalog/registry/internal/database"
	"github.com/mcpcatalog/registry/internal/logger"
	"github.com/mcpcatalog/registry/internal/snapshot"
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

	if cfg.DatabaseURL == "" {
		log.Fatal("MCP_CATALOG_DATABASE_URL is required for seeding")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records, err := snapshot.Read(cfg.SnapshotPath)
	if err != nil {
		log.Fatal("failed to read snapshot", zap.String("path", cfg.SnapshotPath), zap.Error(err))
	}

	db, err := database.NewPostgreSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := db.UpsertRecords(ctx, records); err != nil {
		log.Fatal("failed to seed catalog", zap.Error(err))
	}

	verified, featured := 0, 0
	for _, rec := range records {
		if rec.IsVerified {
			verified++
		}
		if rec.IsFeatured {
			featured++
		}
	}
	log.Info("catalog seeded",
		zap.Int("records", len(records)),
		zap.Int("verified", verified),
		zap.Int("featured", featured))
}
