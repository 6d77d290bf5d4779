// Package database persists the ranked catalog in a remote table keyed by
// slug.
package database

import (
	"context"
	"errors"

	"github.com/mcpcatalog/registry/pkg/model"
)

// Common database errors
var (
	ErrNotFound = errors.New("record not found")
	ErrDatabase = errors.New("database error")
)

// Database defines the catalog persistence operations. Upserts replace the
// row's fields on slug conflict; records absent from a run are left
// untouched.
type Database interface {
	// UpsertRecords writes the ranked catalog, keyed by slug.
	UpsertRecords(ctx context.Context, records []model.CatalogRecord) error
	// ListRecords returns the catalog ordered featured-first, then by stars.
	ListRecords(ctx context.Context) ([]model.CatalogRecord, error)
	// GetBySlug retrieves a single record.
	GetBySlug(ctx context.Context, slug string) (*model.CatalogRecord, error)
	// Close closes the connection.
	Close() error
}
