package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the catalog.
type Config struct {
	ServerAddress string `env:"MCP_CATALOG_SERVER_ADDRESS" envDefault:":8080"`

	// DatabaseURL is the Postgres connection string for the remote catalog
	// table. When empty, commands fall back to snapshot-only operation.
	DatabaseURL string `env:"MCP_CATALOG_DATABASE_URL"`

	// RedisURL enables the Redis-backed enrichment cache. When empty, an
	// in-process cache is used instead.
	RedisURL string `env:"MCP_CATALOG_REDIS_URL"`

	// GithubToken is optional. Its presence only changes the enrichment
	// pacing delay and batch size, never correctness.
	GithubToken  string `env:"GITHUB_TOKEN"`
	GithubAPIURL string `env:"MCP_CATALOG_GITHUB_API_URL" envDefault:"https://api.github.com"`

	ReadmePath       string `env:"MCP_CATALOG_README_PATH" envDefault:"downloads/README.md"`
	SnapshotPath     string `env:"MCP_CATALOG_SNAPSHOT_PATH" envDefault:"data/servers.json"`
	FullSnapshotPath string `env:"MCP_CATALOG_FULL_SNAPSHOT_PATH" envDefault:"data/servers-all.json"`

	// MaxCatalogSize caps the shipped catalog after ranking. The full
	// enriched set is still written to FullSnapshotPath.
	MaxCatalogSize int `env:"MCP_CATALOG_MAX_SIZE" envDefault:"300"`

	CacheTTL time.Duration `env:"MCP_CATALOG_CACHE_TTL" envDefault:"1h"`

	// RefreshIntervalHours re-runs the ingestion pipeline inside the API
	// server. 0 disables scheduled refresh.
	RefreshIntervalHours int `env:"MCP_CATALOG_REFRESH_INTERVAL_HOURS" envDefault:"0"`

	LogLevel  string `env:"MCP_CATALOG_LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"MCP_CATALOG_LOG_PRETTY" envDefault:"false"`
}

// EnrichLimit returns how many entries a pipeline run enriches. The two
// tiers reflect the authenticated and anonymous GitHub API quotas.
func (c *Config) EnrichLimit() int {
	if c.GithubToken != "" {
		return 200
	}
	return 50
}

// EnrichDelay returns the pacing delay between enrichment requests.
func (c *Config) EnrichDelay() time.Duration {
	if c.GithubToken != "" {
		return 100 * time.Millisecond
	}
	return 1200 * time.Millisecond
}

// NewConfig loads configuration from the environment.
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
