package ingest

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mcpcatalog/registry/internal/categorize"
	"github.com/mcpcatalog/registry/internal/enrich"
	"github.com/mcpcatalog/registry/pkg/model"
)

const (
	maxDescriptionLen     = 150
	maxLongDescriptionLen = 300

	// Default shown until the first enrichment succeeds for an entry.
	defaultLastUpdated = "1 week ago"
)

// NewRecord builds a CatalogRecord from a parsed entry and its normalized
// repository ref. Stars and the relative timestamp carry placeholder values
// until enrichment.
func NewRecord(entry model.RawEntry, ref model.RepoRef) *model.CatalogRecord {
	slug := Slugify(entry.Name)
	category := categorize.Categorize(entry.Name, entry.Description)

	isReference := entry.Section == model.SectionReference
	isOfficial := entry.Section == model.SectionOfficial
	isVerified := isReference || isOfficial

	description := truncate(entry.Description, maxDescriptionLen)
	longDescription := truncate(entry.Description, maxLongDescriptionLen)
	if description == "" {
		description = entry.Name + " MCP server"
		longDescription = description
	}

	provenance := "community"
	switch {
	case isReference:
		provenance = "reference"
	case isOfficial:
		provenance = "official"
	}

	return &model.CatalogRecord{
		ID:              slug,
		Name:            entry.Name,
		Slug:            slug,
		Description:     description,
		LongDescription: longDescription,
		Category:        category,
		GitHubURL:       entry.SourceURL,
		Author:          ref.Owner,
		RepoStars:       0,
		Rating:          Rating(isVerified, 0),
		LastUpdated:     defaultLastUpdated,
		IsVerified:      isVerified,
		IsFeatured:      isReference,
		IsArchived:      entry.Section == model.SectionArchived,
		IsCommunity:     entry.Section == model.SectionCommunity,
		Section:         entry.Section,
		Tags:            buildTags(provenance, category, entry.Name),
	}
}

// buildTags orders tags as provenance, category, name. Empty tags are
// dropped, not null-padded.
func buildTags(provenance, category, name string) []string {
	tags := make([]string, 0, 3)
	for _, tag := range []string{provenance, strings.ToLower(category), strings.ToLower(name)} {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Rating maps trust tier and star count to a deterministic rating in
// [3.5, 5.0]. Verified entries are biased toward the top of the range. A
// monotonic function of stars keeps runs reproducible.
func Rating(verified bool, stars int) float64 {
	boost := math.Log10(float64(stars) + 1)
	if verified {
		return math.Min(5.0, 4.5+boost/10)
	}
	return math.Min(5.0, 3.5+boost/2)
}

// ApplyMetadata refreshes a record with live repository metadata. The remote
// description only replaces generated placeholder text, never a curated
// inline description.
func ApplyMetadata(rec *model.CatalogRecord, md enrich.RepoMetadata, now time.Time) {
	rec.RepoStars = md.Stars
	rec.Rating = Rating(rec.IsVerified, md.Stars)
	if !md.UpdatedAt.IsZero() {
		rec.LastUpdated = FormatRelative(md.UpdatedAt, now)
	}

	if md.Description != "" && (rec.Description == "" || rec.Description == rec.Name+" MCP server") {
		rec.Description = truncate(md.Description, maxDescriptionLen)
		rec.LongDescription = truncate(md.Description, maxLongDescriptionLen)
	}
}

// Dedupe collapses records sharing a slug. The later record in document
// order wins unless the earlier one came from a higher-priority section
// (Reference > Official Integrations > Community). Callers filter archived
// entries before merging.
func Dedupe(records []*model.CatalogRecord) []*model.CatalogRecord {
	bySlug := make(map[string]int)
	var out []*model.CatalogRecord

	for _, rec := range records {
		idx, seen := bySlug[rec.Slug]
		if !seen {
			bySlug[rec.Slug] = len(out)
			out = append(out, rec)
			continue
		}
		if rec.Section.Priority() >= out[idx].Section.Priority() {
			out[idx] = rec
		}
	}

	return out
}

// Rank orders records featured-first, then verified, then by descending
// stars. The sort is stable: ties on stars preserve prior relative order.
func Rank(records []*model.CatalogRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}
		if a.IsVerified != b.IsVerified {
			return a.IsVerified
		}
		return a.RepoStars > b.RepoStars
	})
}

// truncate cuts at a rune boundary so emoji-bearing descriptions stay valid.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
