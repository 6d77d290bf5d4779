// Package repourl extracts a canonical (owner, repo) pair from a GitHub URL.
package repourl

import (
	"strings"

	"github.com/mcpcatalog/registry/pkg/model"
)

const githubHost = "github.com/"

// Normalize derives a RepoRef from a raw hosting URL. URLs differing only by
// trailing slash, .git suffix, query string, anchor, or /tree/ and /blob/
// sub-paths normalize to the same ref. Returns ok=false when the URL does
// not decompose into owner and repo; callers treat that as "skip this
// entry" and count it separately from successes.
func Normalize(rawURL string) (model.RepoRef, bool) {
	idx := strings.Index(rawURL, githubHost)
	if idx < 0 {
		return model.RepoRef{}, false
	}
	rest := rawURL[idx+len(githubHost):]

	// Identity is the repository, not a file or ref inside it.
	for _, marker := range []string{"/tree/", "/blob/"} {
		if i := strings.Index(rest, marker); i >= 0 {
			rest = rest[:i]
		}
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 {
		return model.RepoRef{}, false
	}

	owner := parts[0]
	repo := strings.TrimSuffix(parts[1], ".git")
	if i := strings.IndexAny(repo, "#?"); i >= 0 {
		repo = repo[:i]
	}

	if owner == "" || repo == "" {
		return model.RepoRef{}, false
	}

	return model.RepoRef{Owner: owner, Repo: repo}, true
}
