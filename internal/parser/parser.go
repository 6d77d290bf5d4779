// Package parser turns the official MCP servers README into an ordered
// sequence of raw catalog entries. Section membership is positional: each
// entry belongs to the most recent section heading seen before it.
package parser

import (
	"regexp"
	"strings"

	"github.com/mcpcatalog/registry/pkg/model"
)

// Literal heading markers from the upstream README. The emoji prefixes are
// part of the headings and required for a match.
const (
	headingReference = "## 🌟 Reference Servers"
	headingArchived  = "### Archived"
	headingOfficial  = "### 🎖️ Official Integrations"
	headingCommunity = "### 🌍 Community Servers"
)

var (
	linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	// Trailing description after the link, separated by a hyphen or en dash.
	descPattern = regexp.MustCompile(`\)\s*[-–]\s*(.+)$`)
)

// Parse scans the document line by line and emits one RawEntry per list item
// whose link points at a GitHub repository. Output order matches input
// order; later pipeline stages may re-sort, this one must not.
func Parse(doc string) []model.RawEntry {
	var entries []model.RawEntry
	section := model.SectionUnknown

	for _, raw := range strings.Split(doc, "\n") {
		line := strings.TrimSpace(raw)

		// Heading lines transition the section state machine. Membership is
		// single-valued: each transition fully replaces the previous state.
		switch {
		case strings.HasPrefix(line, headingReference):
			section = model.SectionReference
			continue
		case strings.HasPrefix(line, headingArchived):
			section = model.SectionArchived
			continue
		case strings.HasPrefix(line, headingOfficial):
			section = model.SectionOfficial
			continue
		case strings.HasPrefix(line, headingCommunity):
			section = model.SectionCommunity
			continue
		}

		if !strings.HasPrefix(line, "- ") {
			continue
		}

		name, url, ok := parseLink(line)
		if !ok {
			// Not an error: list items without a GitHub link are skipped.
			continue
		}

		description := ""
		if m := descPattern.FindStringSubmatch(line); m != nil {
			description = strings.TrimSpace(m[1])
		}

		entries = append(entries, model.RawEntry{
			Name:        strings.TrimSpace(name),
			SourceURL:   url,
			Description: description,
			Section:     section,
		})
	}

	return entries
}

// parseLink extracts the first markdown link from a line, accepting it only
// when the URL points at a recognized code-hosting domain.
func parseLink(line string) (name, url string, ok bool) {
	m := linkPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	if !strings.Contains(m[2], "github.com") {
		return "", "", false
	}
	return m[1], m[2], true
}
