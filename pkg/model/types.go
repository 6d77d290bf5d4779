package model

import "strings"

// Section identifies the README region an entry was parsed from. It encodes
// the trust tier of the entry: reference servers are maintained in the
// official monorepo, official integrations by the vendor, community servers
// by third parties.
type Section string

const (
	SectionUnknown   Section = ""
	SectionReference Section = "Reference"
	SectionOfficial  Section = "Official Integrations"
	SectionCommunity Section = "Community"
	SectionArchived  Section = "Archived"
)

// Priority orders sections for dedupe precedence. Higher wins.
func (s Section) Priority() int {
	switch s {
	case SectionReference:
		return 3
	case SectionOfficial:
		return 2
	case SectionCommunity:
		return 1
	default:
		return 0
	}
}

// RawEntry is one README line-derived record before enrichment. Entries are
// ephemeral: they exist only between the parser and the merge step.
type RawEntry struct {
	Name        string
	SourceURL   string
	Description string
	Section     Section
}

// RepoRef is the normalized identity of a GitHub repository. Original case
// is preserved for display; identity comparisons go through Key.
type RepoRef struct {
	Owner string
	Repo  string
}

// Key returns the case-insensitive identity of the repository.
func (r RepoRef) Key() string {
	return strings.ToLower(r.Owner + "/" + r.Repo)
}

// CatalogRecord is the unit persisted and displayed. Field names match the
// snapshot JSON format consumed by the frontend.
type CatalogRecord struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Category        string   `json:"category"`
	GitHubURL       string   `json:"githubUrl"`
	NPMPackage      string   `json:"npmPackage,omitempty"`
	Author          string   `json:"author"`
	RepoStars       int      `json:"repoStars"`
	Rating          float64  `json:"rating"`
	LastUpdated     string   `json:"lastUpdated"`
	IsVerified      bool     `json:"isVerified"`
	IsFeatured      bool     `json:"isFeatured"`
	IsArchived      bool     `json:"isArchived,omitempty"`
	IsCommunity     bool     `json:"isCommunity,omitempty"`
	Section         Section  `json:"section,omitempty"`
	Tags            []string `json:"tags"`
}
