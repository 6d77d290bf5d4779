// Package ingest combines parsed README entries with enriched repository
// metadata into the ranked catalog, and drives the full pipeline run.
package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mcpcatalog/registry/internal/database"
	"github.com/mcpcatalog/registry/internal/enrich"
	"github.com/mcpcatalog/registry/internal/parser"
	"github.com/mcpcatalog/registry/internal/repourl"
	"github.com/mcpcatalog/registry/internal/snapshot"
	"github.com/mcpcatalog/registry/internal/telemetry"
	"github.com/mcpcatalog/registry/pkg/model"
)

// RunnerOptions configures one pipeline run.
type RunnerOptions struct {
	ReadmePath       string
	SnapshotPath     string // ranked, capped catalog shipped to the consumer
	FullSnapshotPath string // full enriched set kept for reference
	MaxCatalogSize   int
	EnrichLimit      int
}

// Runner executes the phased ingestion pipeline: parse, merge, enrich, rank,
// persist. State is created per run; there is no hidden cross-call coupling.
type Runner struct {
	opts     RunnerOptions
	enricher *enrich.Enricher
	db       database.Database // nil means snapshot-only run
	log      *zap.Logger
	metrics  *telemetry.Metrics
}

func NewRunner(opts RunnerOptions, enricher *enrich.Enricher, db database.Database, log *zap.Logger, metrics *telemetry.Metrics) *Runner {
	return &Runner{
		opts:     opts,
		enricher: enricher,
		db:       db,
		log:      log,
		metrics:  metrics,
	}
}

// Run executes a full pipeline pass. Enrichment problems degrade the data;
// persistence problems fail the run, because downstream consumers depend on
// the sink being fresh and complete.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.New().String()
	log := r.log.With(zap.String("run_id", runID))

	doc, err := os.ReadFile(r.opts.ReadmePath)
	if err != nil {
		return fmt.Errorf("failed to read README: %w", err)
	}

	entries := parser.Parse(string(doc))
	r.metrics.RecordsParsed(ctx, len(entries))
	log.Info("parsed README", zap.Int("entries", len(entries)))

	records, skipped := r.buildRecords(entries, log)
	r.metrics.EntriesSkipped(ctx, skipped)

	records = Dedupe(records)
	log.Info("merged records",
		zap.Int("active", len(records)),
		zap.Int("url_skipped", skipped))

	r.enrichRecords(ctx, records)

	Rank(records)

	capped := records
	if r.opts.MaxCatalogSize > 0 && len(capped) > r.opts.MaxCatalogSize {
		capped = capped[:r.opts.MaxCatalogSize]
	}

	if err := r.persist(ctx, capped, records); err != nil {
		return err
	}

	r.metrics.PipelineRun(ctx)
	r.logSummary(log, capped)
	return nil
}

// buildRecords normalizes, categorizes and filters parsed entries. Archived
// entries are excluded from the active dataset entirely, not merely
// de-prioritized. Entries whose URL does not normalize are dropped with a
// warning and counted.
func (r *Runner) buildRecords(entries []model.RawEntry, log *zap.Logger) ([]*model.CatalogRecord, int) {
	var records []*model.CatalogRecord
	skipped := 0

	for _, entry := range entries {
		if entry.Section == model.SectionArchived {
			continue
		}
		ref, ok := repourl.Normalize(entry.SourceURL)
		if !ok {
			skipped++
			log.Warn("failed to normalize repository URL", zap.String("url", entry.SourceURL))
			continue
		}
		records = append(records, NewRecord(entry, ref))
	}

	return records, skipped
}

// enrichRecords fetches live metadata for the top-priority slice of the
// catalog: reference first, then official, then community. Records the
// enricher never reaches keep their parse-time fallback values.
func (r *Runner) enrichRecords(ctx context.Context, records []*model.CatalogRecord) {
	prioritized := make([]*model.CatalogRecord, 0, len(records))
	for _, pick := range []func(*model.CatalogRecord) bool{
		func(rec *model.CatalogRecord) bool { return rec.IsFeatured },
		func(rec *model.CatalogRecord) bool { return rec.IsVerified && !rec.IsFeatured },
		func(rec *model.CatalogRecord) bool { return !rec.IsVerified },
	} {
		for _, rec := range records {
			if pick(rec) {
				prioritized = append(prioritized, rec)
			}
		}
	}

	reqs := make([]enrich.Request, 0, len(prioritized))
	for _, rec := range prioritized {
		ref, ok := repourl.Normalize(rec.GitHubURL)
		if !ok {
			continue
		}
		reqs = append(reqs, enrich.Request{SourceURL: rec.GitHubURL, Ref: ref})
	}

	results := r.enricher.EnrichAll(ctx, reqs, r.opts.EnrichLimit)

	now := time.Now()
	for _, rec := range records {
		if md, ok := results[rec.GitHubURL]; ok {
			ApplyMetadata(rec, md, now)
		}
	}
}

// persist writes both snapshots and upserts the remote table. Any failure
// here is fatal for the run.
func (r *Runner) persist(ctx context.Context, capped, full []*model.CatalogRecord) error {
	if err := snapshot.Write(r.opts.SnapshotPath, deref(capped)); err != nil {
		return fmt.Errorf("failed to write catalog snapshot: %w", err)
	}
	if r.opts.FullSnapshotPath != "" {
		if err := snapshot.Write(r.opts.FullSnapshotPath, deref(full)); err != nil {
			return fmt.Errorf("failed to write full snapshot: %w", err)
		}
	}

	if r.db != nil {
		if err := r.db.UpsertRecords(ctx, deref(capped)); err != nil {
			return fmt.Errorf("failed to upsert catalog records: %w", err)
		}
	}

	return nil
}

func (r *Runner) logSummary(log *zap.Logger, records []*model.CatalogRecord) {
	categories := make(map[string]int)
	featured, verified, withStars := 0, 0, 0
	for _, rec := range records {
		categories[rec.Category]++
		if rec.IsFeatured {
			featured++
		}
		if rec.IsVerified {
			verified++
		}
		if rec.RepoStars > 0 {
			withStars++
		}
	}

	log.Info("pipeline run complete",
		zap.Int("records", len(records)),
		zap.Int("featured", featured),
		zap.Int("verified", verified),
		zap.Int("with_stars", withStars),
		zap.Any("categories", categories))
}

func deref(records []*model.CatalogRecord) []model.CatalogRecord {
	out := make([]model.CatalogRecord, len(records))
	for i, rec := range records {
		out[i] = *rec
	}
	return out
}
