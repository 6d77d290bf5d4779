package ingest

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the unique, URL-safe identifier for a record from its
// display name: lower-cased, runs of non-alphanumeric characters collapsed
// to a single hyphen, leading and trailing hyphens trimmed. Pure, so slugs
// are stable across runs; the slug is the dedupe and upsert key.
func Slugify(name string) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
