package ingest_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpcatalog/registry/internal/enrich"
	"github.com/mcpcatalog/registry/internal/ingest"
	"github.com/mcpcatalog/registry/pkg/model"
)

func referenceEntry(name, url, desc string) model.RawEntry {
	return model.RawEntry{Name: name, SourceURL: url, Description: desc, Section: model.SectionReference}
}

func communityEntry(name, url, desc string) model.RawEntry {
	return model.RawEntry{Name: name, SourceURL: url, Description: desc, Section: model.SectionCommunity}
}

func TestNewRecordFlags(t *testing.T) {
	ref := model.RepoRef{Owner: "modelcontextprotocol", Repo: "servers"}

	rec := ingest.NewRecord(referenceEntry("Filesystem", "https://github.com/modelcontextprotocol/servers", "File operations"), ref)
	assert.True(t, rec.IsFeatured)
	assert.True(t, rec.IsVerified, "featured implies verified")
	assert.False(t, rec.IsCommunity)
	assert.Equal(t, "filesystem", rec.Slug)
	assert.Equal(t, rec.Slug, rec.ID)
	assert.Equal(t, "modelcontextprotocol", rec.Author)

	official := ingest.NewRecord(model.RawEntry{
		Name: "Stripe", SourceURL: "https://github.com/stripe/agent-toolkit",
		Section: model.SectionOfficial,
	}, model.RepoRef{Owner: "stripe", Repo: "agent-toolkit"})
	assert.True(t, official.IsVerified)
	assert.False(t, official.IsFeatured)

	community := ingest.NewRecord(communityEntry("Helper", "https://github.com/a/helper", ""), model.RepoRef{Owner: "a", Repo: "helper"})
	assert.False(t, community.IsVerified)
	assert.True(t, community.IsCommunity)
}

func TestNewRecordTags(t *testing.T) {
	rec := ingest.NewRecord(referenceEntry("Postgres Helper", "https://github.com/a/b", "query your postgres database"), model.RepoRef{Owner: "a", Repo: "b"})

	require.Len(t, rec.Tags, 3)
	assert.Equal(t, "reference", rec.Tags[0])
	assert.Equal(t, "database", rec.Tags[1])
	assert.Equal(t, "postgres helper", rec.Tags[2])
}

func TestNewRecordGeneratedDescription(t *testing.T) {
	rec := ingest.NewRecord(communityEntry("Bare", "https://github.com/a/bare", ""), model.RepoRef{Owner: "a", Repo: "bare"})
	assert.Equal(t, "Bare MCP server", rec.Description)
	assert.Equal(t, rec.Description, rec.LongDescription)
}

func TestNewRecordTruncatesDescriptions(t *testing.T) {
	long := strings.Repeat("x", 400)
	rec := ingest.NewRecord(communityEntry("Long", "https://github.com/a/long", long), model.RepoRef{Owner: "a", Repo: "long"})

	assert.Len(t, rec.Description, 150)
	assert.Len(t, rec.LongDescription, 300)
}

func TestRatingBoundsAndBias(t *testing.T) {
	for _, stars := range []int{0, 1, 10, 100, 10000, 1000000} {
		for _, verified := range []bool{true, false} {
			r := ingest.Rating(verified, stars)
			assert.GreaterOrEqual(t, r, 3.5)
			assert.LessOrEqual(t, r, 5.0)
		}
		// Verified entries are biased toward the top of the range.
		assert.Greater(t, ingest.Rating(true, stars), 4.4)
	}

	// Monotonic in stars, so the rating is reproducible and ranks with
	// popularity rather than a random draw.
	assert.Greater(t, ingest.Rating(false, 1000), ingest.Rating(false, 10))
}

func TestApplyMetadata(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	rec := ingest.NewRecord(communityEntry("Thing", "https://github.com/a/thing", ""), model.RepoRef{Owner: "a", Repo: "thing"})

	ingest.ApplyMetadata(rec, enrich.RepoMetadata{
		Stars:       250,
		UpdatedAt:   now.AddDate(0, 0, -3),
		Description: "A remote description",
	}, now)

	assert.Equal(t, 250, rec.RepoStars)
	assert.Equal(t, "3 days ago", rec.LastUpdated)
	assert.Equal(t, "A remote description", rec.Description)
	assert.Equal(t, ingest.Rating(false, 250), rec.Rating)
}

func TestApplyMetadataKeepsCuratedDescription(t *testing.T) {
	now := time.Now()
	rec := ingest.NewRecord(communityEntry("Thing", "https://github.com/a/thing", "Curated inline text"), model.RepoRef{Owner: "a", Repo: "thing"})

	ingest.ApplyMetadata(rec, enrich.RepoMetadata{Stars: 5, UpdatedAt: now, Description: "Remote text"}, now)
	assert.Equal(t, "Curated inline text", rec.Description)
}

func TestDedupePrecedence(t *testing.T) {
	reference := ingest.NewRecord(referenceEntry("Same Name", "https://github.com/a/one", ""), model.RepoRef{Owner: "a", Repo: "one"})
	community := ingest.NewRecord(communityEntry("Same Name", "https://github.com/b/two", ""), model.RepoRef{Owner: "b", Repo: "two"})

	// Earlier Reference beats later Community.
	merged := ingest.Dedupe([]*model.CatalogRecord{reference, community})
	require.Len(t, merged, 1)
	assert.True(t, merged[0].IsVerified)
	assert.True(t, merged[0].IsFeatured)
	assert.Equal(t, "https://github.com/a/one", merged[0].GitHubURL)

	// Later Reference beats earlier Community.
	merged = ingest.Dedupe([]*model.CatalogRecord{community, reference})
	require.Len(t, merged, 1)
	assert.True(t, merged[0].IsFeatured)
}

func TestDedupeLaterWinsAtEqualPriority(t *testing.T) {
	first := ingest.NewRecord(communityEntry("Dup", "https://github.com/a/dup", "first"), model.RepoRef{Owner: "a", Repo: "dup"})
	second := ingest.NewRecord(communityEntry("Dup", "https://github.com/b/dup", "second"), model.RepoRef{Owner: "b", Repo: "dup"})

	merged := ingest.Dedupe([]*model.CatalogRecord{first, second})
	require.Len(t, merged, 1)
	assert.Equal(t, "https://github.com/b/dup", merged[0].GitHubURL)
}

func TestRankOrdering(t *testing.T) {
	records := []*model.CatalogRecord{
		{Slug: "verified", IsVerified: true, RepoStars: 10},
		{Slug: "featured", IsFeatured: true, RepoStars: 1},
		{Slug: "popular", RepoStars: 100},
	}

	ingest.Rank(records)

	// Featured precedes verified precedes stars, regardless of star count.
	assert.Equal(t, "featured", records[0].Slug)
	assert.Equal(t, "verified", records[1].Slug)
	assert.Equal(t, "popular", records[2].Slug)
}

func TestRankStableOnStarTies(t *testing.T) {
	records := []*model.CatalogRecord{
		{Slug: "a", RepoStars: 5},
		{Slug: "b", RepoStars: 5},
		{Slug: "c", RepoStars: 5},
	}

	ingest.Rank(records)
	assert.Equal(t, "a", records[0].Slug)
	assert.Equal(t, "b", records[1].Slug)
	assert.Equal(t, "c", records[2].Slug)
}
