// Package categorize maps free-text server names and descriptions to exactly
// one category label.
package categorize

import (
	"regexp"
	"strings"
)

// DefaultCategory is returned when no rule matches.
const DefaultCategory = "Utility"

type rule struct {
	label   string
	pattern *regexp.Regexp
}

// Rule order is a deliberate priority list: an input matching several
// categories' keywords resolves to the first rule below. Database precedes
// Development precedes the generic Web rule, etc. Do not reorder.
var rules = []rule{
	{"Database", regexp.MustCompile(`database|postgres|mysql|sql|mongo|redis|sqlite|clickhouse|astra|pinot|doris|rds|analyticdb|snowflake|bigquery|databricks`)},
	{"Development", regexp.MustCompile(`git|github|gitlab|code|repository|devops|deploy|ci/cd|docker|kubernetes`)},
	{"Communication", regexp.MustCompile(`slack|discord|email|sms|whatsapp|telegram|zoom|teams|notion|confluence`)},
	{"Productivity", regexp.MustCompile(`calendar|todo|task|drive|dropbox|notes|docs|sheets|productivity|office`)},
	{"Web", regexp.MustCompile(`browser|web|fetch|scrape|puppeteer|playwright|crawl|http`)},
	{"AI", regexp.MustCompile(`ai|ml|llm|model|openai|anthropic|hugging|embedding|vector`)},
	{"Finance", regexp.MustCompile(`payment|finance|crypto|blockchain|bitcoin|trading|stock|bank|invoice`)},
	{"Cloud", regexp.MustCompile(`aws|azure|gcp|cloud|kubernetes|terraform|ansible|infrastructure`)},
	{"Security", regexp.MustCompile(`security|auth|oauth|sso|encryption|vault|secret`)},
	{"Analytics", regexp.MustCompile(`analytics|metrics|monitoring|observability|telemetry|sentry|datadog`)},
	{"E-commerce", regexp.MustCompile(`ecommerce|shop|store|product|cart|checkout|stripe|shopify`)},
	{"Media", regexp.MustCompile(`image|video|audio|media|youtube|spotify|podcast|streaming`)},
	{"IoT", regexp.MustCompile(`iot|device|sensor|arduino|raspberry|hardware|home automation|smart home`)},
	{"Search", regexp.MustCompile(`search|elastic|algolia|opensearch|brave search`)},
}

// Categorize returns the category label for a server. Pure and total: the
// same input always yields the same label, and unmatched input yields the
// default.
func Categorize(name, description string) string {
	text := strings.ToLower(name + " " + description)
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.label
		}
	}
	return DefaultCategory
}

// Labels returns the full label set in priority order, default last.
func Labels() []string {
	labels := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		labels = append(labels, r.label)
	}
	return append(labels, DefaultCategory)
}
