// Package service implements the catalog read path: remote-preferred,
// snapshot-fallback loading plus query-time filtering and sorting.
package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mcpcatalog/registry/internal/database"
	"github.com/mcpcatalog/registry/internal/ingest"
	"github.com/mcpcatalog/registry/internal/snapshot"
	"github.com/mcpcatalog/registry/pkg/model"
)

// SortMode selects one of the four consumer sort orders.
type SortMode string

const (
	SortPopular      SortMode = "popular"
	SortRecent       SortMode = "recent"
	SortAlphabetical SortMode = "alphabetical"
	SortRating       SortMode = "rating"
)

// Query carries the user-driven filter parameters applied at read time.
type Query struct {
	Search   string
	Category string
	Sort     SortMode
}

// CatalogService reads the persisted catalog. The remote store is preferred
// when reachable and non-empty; the local snapshot is the fallback. When
// both are unavailable the service returns zero records, never an error: the
// consumer has a defined empty state independent of data-source failures.
type CatalogService struct {
	db           database.Database // nil when no remote store is configured
	snapshotPath string
	log          *zap.Logger
}

func NewCatalogService(db database.Database, snapshotPath string, log *zap.Logger) *CatalogService {
	return &CatalogService{
		db:           db,
		snapshotPath: snapshotPath,
		log:          log,
	}
}

// Load returns the full catalog and whether the local fallback was used.
func (s *CatalogService) Load(ctx context.Context) (records []model.CatalogRecord, usedFallback bool) {
	if s.db != nil {
		records, err := s.db.ListRecords(ctx)
		if err != nil {
			s.log.Warn("remote catalog unavailable, falling back to snapshot", zap.Error(err))
		} else if len(records) > 0 {
			return records, false
		}
	}

	records, err := snapshot.Read(s.snapshotPath)
	if err != nil {
		s.log.Warn("snapshot unavailable, serving empty catalog", zap.Error(err))
		return []model.CatalogRecord{}, true
	}
	return records, true
}

// Get returns one record by slug, consulting the same sources as Load.
func (s *CatalogService) Get(ctx context.Context, slug string) (*model.CatalogRecord, error) {
	if s.db != nil {
		rec, err := s.db.GetBySlug(ctx, slug)
		if err == nil {
			return rec, nil
		}
		if !database.IsNotFound(err) {
			s.log.Warn("remote lookup failed, falling back to snapshot", zap.Error(err))
		}
	}

	records, err := snapshot.Read(s.snapshotPath)
	if err != nil {
		return nil, database.ErrNotFound
	}
	for i := range records {
		if records[i].Slug == slug {
			return &records[i], nil
		}
	}
	return nil, database.ErrNotFound
}

// Apply filters and sorts records per the query. Featured records are always
// pinned first regardless of sort mode. Filtering never errs: a query with
// no matches yields an empty slice.
func Apply(records []model.CatalogRecord, q Query) []model.CatalogRecord {
	out := make([]model.CatalogRecord, 0, len(records))
	for _, rec := range records {
		if q.Category != "" && rec.Category != q.Category {
			continue
		}
		if q.Search != "" && !matchesSearch(rec, q.Search) {
			continue
		}
		out = append(out, rec)
	}

	sortRecords(out, q.Sort)
	return out
}

// matchesSearch does a case-insensitive substring match over name,
// description, author and tags.
func matchesSearch(rec model.CatalogRecord, search string) bool {
	needle := strings.ToLower(search)

	for _, haystack := range []string{rec.Name, rec.Description, rec.Author} {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func sortRecords(records []model.CatalogRecord, mode SortMode) {
	switch mode {
	case SortRecent:
		sort.SliceStable(records, func(i, j int) bool {
			return recordAge(records[i]) < recordAge(records[j])
		})
	case SortAlphabetical:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Name) < strings.ToLower(records[j].Name)
		})
	case SortRating:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Rating > records[j].Rating
		})
	default:
		// Popular sorts by actual star count. Stars live on RepoStars; no
		// other field name is consulted.
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].RepoStars > records[j].RepoStars
		})
	}

	// Featured pin, applied last so it wins over every mode.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].IsFeatured && !records[j].IsFeatured
	})
}

// recordAge maps the stored relative timestamp to days; unparseable values
// sort last.
func recordAge(rec model.CatalogRecord) int {
	if days, ok := ingest.ParseRelativeAge(rec.LastUpdated); ok {
		return days
	}
	return 1 << 30
}
