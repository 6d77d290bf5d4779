package database

import (
	"context"
	"sort"
	"sync"

	"github.com/mcpcatalog/registry/pkg/model"
)

// MemoryDB is an in-memory implementation of the Database interface, used in
// tests and snapshot-only deployments.
type MemoryDB struct {
	mu      sync.RWMutex
	records map[string]model.CatalogRecord // keyed by slug
	order   []string                       // slugs in first-insert order
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{records: make(map[string]model.CatalogRecord)}
}

func (db *MemoryDB) UpsertRecords(ctx context.Context, records []model.CatalogRecord) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	for _, rec := range records {
		if _, exists := db.records[rec.Slug]; !exists {
			db.order = append(db.order, rec.Slug)
		}
		db.records[rec.Slug] = rec
	}
	return nil
}

func (db *MemoryDB) ListRecords(ctx context.Context) ([]model.CatalogRecord, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	records := make([]model.CatalogRecord, 0, len(db.order))
	for _, slug := range db.order {
		records = append(records, db.records[slug])
	}

	// Same display order as the PostgreSQL implementation.
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}
		if a.IsVerified != b.IsVerified {
			return a.IsVerified
		}
		if a.RepoStars != b.RepoStars {
			return a.RepoStars > b.RepoStars
		}
		return a.Slug < b.Slug
	})

	return records, nil
}

func (db *MemoryDB) GetBySlug(ctx context.Context, slug string) (*model.CatalogRecord, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	if rec, ok := db.records[slug]; ok {
		recCopy := rec
		return &recCopy, nil
	}
	return nil, ErrNotFound
}

// Close is a no-op for the in-memory database.
func (db *MemoryDB) Close() error {
	return nil
}
