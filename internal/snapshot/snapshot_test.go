package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpcatalog/registry/internal/snapshot"
	"github.com/mcpcatalog/registry/pkg/model"
)

func testRecords() []model.CatalogRecord {
	return []model.CatalogRecord{
		{
			ID: "filesystem", Name: "Filesystem", Slug: "filesystem",
			Description: "File operations", LongDescription: "File operations with access controls",
			Category: "Utility", GitHubURL: "https://github.com/modelcontextprotocol/servers",
			Author: "modelcontextprotocol", RepoStars: 4200, Rating: 4.8,
			LastUpdated: "2 days ago", IsVerified: true, IsFeatured: true,
			Section: model.SectionReference, Tags: []string{"reference", "utility", "filesystem"},
		},
		{
			ID: "weather-helper", Name: "Weather Helper", Slug: "weather-helper",
			Description: "Weather lookups", LongDescription: "Weather lookups",
			Category: "Web", GitHubURL: "https://github.com/someone/weather",
			Author: "someone", RepoStars: 12, Rating: 3.9,
			LastUpdated: "3 weeks ago", IsCommunity: true,
			Section: model.SectionCommunity, Tags: []string{"community", "web", "weather helper"},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servers.json")
	want := testRecords()

	require.NoError(t, snapshot.Write(path, want))

	got, err := snapshot.Read(path)
	require.NoError(t, err)
	assert.Equal(t, want, got, "records must survive the round trip field for field, in order")
}

func TestWriteCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "servers.json")

	require.NoError(t, snapshot.Write(path, testRecords()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteNilRecordsProducesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servers.json")

	require.NoError(t, snapshot.Write(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	got, err := snapshot.Read(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadRejectsInvalidDocument(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not an array", `{"slug": "x"}`},
		{"missing required fields", `[{"id": "x"}]`},
		{"malformed slug", `[{"id": "x", "name": "X", "slug": "Not A Slug", "description": "d", "category": "Utility", "githubUrl": "https://github.com/a/x", "author": "a"}]`},
		{"truncated file", `[{"id": "x", "name":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "servers.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := snapshot.Read(path)
			assert.Error(t, err)
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := snapshot.Read(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
