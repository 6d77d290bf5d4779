package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcpcatalog/registry/pkg/model"
)

// PostgreSQL is an implementation of the Database interface using PostgreSQL
type PostgreSQL struct {
	pool *pgxpool.Pool
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS mcp_servers (
	id               TEXT NOT NULL,
	name             TEXT NOT NULL,
	slug             TEXT NOT NULL UNIQUE,
	description      TEXT NOT NULL DEFAULT '',
	long_description TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT 'Utility',
	github_url       TEXT NOT NULL,
	npm_package      TEXT,
	author           TEXT NOT NULL DEFAULT '',
	repo_stars       INTEGER,
	rating           DOUBLE PRECISION,
	last_updated     TEXT NOT NULL DEFAULT '',
	is_verified      BOOLEAN NOT NULL DEFAULT FALSE,
	is_featured      BOOLEAN NOT NULL DEFAULT FALSE,
	tags             TEXT[]
);
CREATE INDEX IF NOT EXISTS idx_mcp_servers_category ON mcp_servers (category);
CREATE INDEX IF NOT EXISTS idx_mcp_servers_rank ON mcp_servers (is_featured DESC, repo_stars DESC);
`

// NewPostgreSQL creates a new instance of the PostgreSQL database and
// ensures the catalog table exists.
func NewPostgreSQL(ctx context.Context, connectionURI string) (*PostgreSQL, error) {
	config, err := pgxpool.ParseConfig(connectionURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	// Stability-focused pool defaults; the working set is small.
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = 30 * time.Minute
	config.MaxConnLifetime = 2 * time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to run catalog migration: %w", err)
	}

	return &PostgreSQL{pool: pool}, nil
}

const upsertSQL = `
INSERT INTO mcp_servers (
	id, name, slug, description, long_description, category, github_url,
	npm_package, author, repo_stars, rating, last_updated, is_verified,
	is_featured, tags
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (slug) DO UPDATE SET
	id = EXCLUDED.id,
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	long_description = EXCLUDED.long_description,
	category = EXCLUDED.category,
	github_url = EXCLUDED.github_url,
	npm_package = EXCLUDED.npm_package,
	author = EXCLUDED.author,
	repo_stars = EXCLUDED.repo_stars,
	rating = EXCLUDED.rating,
	last_updated = EXCLUDED.last_updated,
	is_verified = EXCLUDED.is_verified,
	is_featured = EXCLUDED.is_featured,
	tags = EXCLUDED.tags
`

// UpsertRecords writes all records in a single transaction. Conflict on slug
// replaces the row's fields; rows absent from this run are not deleted.
func (db *PostgreSQL) UpsertRecords(ctx context.Context, records []model.CatalogRecord) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		rollbackCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		_ = tx.Rollback(rollbackCtx)
	}()

	for _, rec := range records {
		var npmPackage *string
		if rec.NPMPackage != "" {
			npmPackage = &rec.NPMPackage
		}

		_, err := tx.Exec(ctx, upsertSQL,
			rec.ID, rec.Name, rec.Slug, rec.Description, rec.LongDescription,
			rec.Category, rec.GitHubURL, npmPackage, rec.Author, rec.RepoStars,
			rec.Rating, rec.LastUpdated, rec.IsVerified, rec.IsFeatured, rec.Tags,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert record %s: %w", rec.Slug, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const selectColumns = `
	id, name, slug, description, long_description, category, github_url,
	COALESCE(npm_package, ''), author, COALESCE(repo_stars, 0),
	COALESCE(rating, 0), last_updated, is_verified, is_featured,
	COALESCE(tags, '{}')
`

// ListRecords returns the catalog in display order: featured first, then by
// descending stars.
func (db *PostgreSQL) ListRecords(ctx context.Context) ([]model.CatalogRecord, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM mcp_servers
		ORDER BY is_featured DESC, is_verified DESC, repo_stars DESC NULLS LAST, slug
	`, selectColumns)

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var records []model.CatalogRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// GetBySlug retrieves a single catalog record.
func (db *PostgreSQL) GetBySlug(ctx context.Context, slug string) (*model.CatalogRecord, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	query := fmt.Sprintf(`SELECT %s FROM mcp_servers WHERE slug = $1`, selectColumns)

	rows, err := db.pool.Query(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get record by slug: %w", err)
		}
		return nil, ErrNotFound
	}

	rec, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanRecord(rows pgx.Rows) (model.CatalogRecord, error) {
	var rec model.CatalogRecord
	err := rows.Scan(
		&rec.ID, &rec.Name, &rec.Slug, &rec.Description, &rec.LongDescription,
		&rec.Category, &rec.GitHubURL, &rec.NPMPackage, &rec.Author,
		&rec.RepoStars, &rec.Rating, &rec.LastUpdated, &rec.IsVerified,
		&rec.IsFeatured, &rec.Tags,
	)
	if err != nil {
		return model.CatalogRecord{}, fmt.Errorf("failed to scan record row: %w", err)
	}

	// The remote schema stores only the verified/featured flags; community
	// membership is the complement of verified.
	rec.IsCommunity = !rec.IsVerified
	return rec, nil
}

// Close closes the database connection
func (db *PostgreSQL) Close() error {
	db.pool.Close()
	return nil
}

// IsNotFound reports whether err is the catalog's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}
