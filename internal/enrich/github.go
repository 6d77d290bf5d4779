// Package enrich fetches live repository metadata from the GitHub API with
// caching and rate-limit handling.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mcpcatalog/registry/pkg/model"
)

// ErrQuotaExceeded signals that the API reported quota exhaustion. It is
// distinguished from transient errors: the current batch stops early instead
// of retrying.
var ErrQuotaExceeded = errors.New("github api quota exceeded")

const httpTimeout = 10 * time.Second

// RepoMetadata is the per-repository result of an enrichment lookup.
type RepoMetadata struct {
	Stars       int       `json:"stars"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Description string    `json:"description"`
}

// Client calls the GitHub repositories API. The token is optional; it only
// raises the caller's quota tier.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient constructs a GitHub API client. baseURL is overridable for
// tests.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// repoResponse mirrors the fields we read from the GitHub repos endpoint.
type repoResponse struct {
	StargazersCount int     `json:"stargazers_count"`
	UpdatedAt       string  `json:"updated_at"`
	Description     *string `json:"description"`
}

// Fetch retrieves star count, last-updated timestamp and description for a
// repository. A 403 or 429 response maps to ErrQuotaExceeded.
func (c *Client) Fetch(ctx context.Context, ref model.RepoRef) (RepoMetadata, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, ref.Owner, ref.Repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return RepoMetadata{}, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return RepoMetadata{}, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return RepoMetadata{}, ErrQuotaExceeded
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return RepoMetadata{}, fmt.Errorf("github returned %d: %s", resp.StatusCode, string(body))
	}

	var repo repoResponse
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return RepoMetadata{}, fmt.Errorf("json decode: %w", err)
	}

	md := RepoMetadata{Stars: repo.StargazersCount}
	if repo.Description != nil {
		md.Description = *repo.Description
	}
	if t, err := time.Parse(time.RFC3339, repo.UpdatedAt); err == nil {
		md.UpdatedAt = t
	} else {
		md.UpdatedAt = time.Now()
	}

	return md, nil
}
