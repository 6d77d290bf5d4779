package enrich

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mcpcatalog/registry/internal/telemetry"
	"github.com/mcpcatalog/registry/pkg/model"
)

// Request identifies one repository to enrich. SourceURL is the cache key;
// Ref is the normalized identity used for the API call.
type Request struct {
	SourceURL string
	Ref       model.RepoRef
}

// Enricher paces sequential metadata lookups against the GitHub API quota.
// Calls are issued strictly sequentially with an explicit delay between
// requests; concurrent fan-out is deliberately avoided.
type Enricher struct {
	client  *Client
	store   Store
	ttl     time.Duration
	delay   time.Duration
	log     *zap.Logger
	metrics *telemetry.Metrics
}

// NewEnricher builds an Enricher. delay may be zero in tests.
func NewEnricher(client *Client, store Store, ttl, delay time.Duration, log *zap.Logger, metrics *telemetry.Metrics) *Enricher {
	return &Enricher{
		client:  client,
		store:   store,
		ttl:     ttl,
		delay:   delay,
		log:     log,
		metrics: metrics,
	}
}

// Lookup resolves metadata for a single repository, serving from the cache
// when fresh. Every caller tolerates a stale or fallback value rather than
// blocking.
func (e *Enricher) Lookup(ctx context.Context, req Request) (RepoMetadata, error) {
	if md, ok, err := e.store.Get(ctx, req.SourceURL); err == nil && ok {
		return md, nil
	} else if err != nil {
		e.log.Warn("cache read failed", zap.String("url", req.SourceURL), zap.Error(err))
	}

	e.metrics.EnrichCall(ctx)
	md, err := e.client.Fetch(ctx, req.Ref)
	if err != nil {
		return RepoMetadata{}, err
	}

	if err := e.store.Set(ctx, req.SourceURL, md, e.ttl); err != nil {
		e.log.Warn("cache write failed", zap.String("url", req.SourceURL), zap.Error(err))
	}
	return md, nil
}

// EnrichAll resolves metadata for up to limit requests in order. On a
// quota-exceeded signal the loop stops early and the remaining entries are
// left for the caller's fallback values; this is a fail-fast degrade, not a
// retry. Any other per-entry error is logged and skipped.
func (e *Enricher) EnrichAll(ctx context.Context, reqs []Request, limit int) map[string]RepoMetadata {
	results := make(map[string]RepoMetadata)

	if limit > len(reqs) {
		limit = len(reqs)
	}

	fetched := 0
	for i := 0; i < limit; i++ {
		req := reqs[i]

		if md, ok, err := e.store.Get(ctx, req.SourceURL); err == nil && ok {
			results[req.SourceURL] = md
			continue
		}

		e.metrics.EnrichCall(ctx)
		md, err := e.client.Fetch(ctx, req.Ref)
		if err != nil {
			if errors.Is(err, ErrQuotaExceeded) {
				e.metrics.QuotaHalt(ctx)
				e.log.Warn("quota exhausted, halting enrichment for this run",
					zap.Int("fetched", fetched), zap.Int("remaining", limit-i))
				break
			}
			e.metrics.EnrichFailure(ctx)
			e.log.Warn("metadata fetch failed",
				zap.String("repo", req.Ref.Key()), zap.Error(err))
			continue
		}

		if err := e.store.Set(ctx, req.SourceURL, md, e.ttl); err != nil {
			e.log.Warn("cache write failed", zap.String("url", req.SourceURL), zap.Error(err))
		}
		results[req.SourceURL] = md
		fetched++

		if e.delay > 0 && i < limit-1 {
			select {
			case <-time.After(e.delay):
			case <-ctx.Done():
				return results
			}
		}
	}

	e.log.Info("enrichment complete", zap.Int("fetched", fetched), zap.Int("requested", limit))
	return results
}
