package enrich_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mcpcatalog/registry/internal/enrich"
	"github.com/mcpcatalog/registry/pkg/model"
)

// fakeGitHub serves the repos endpoint and counts requests so tests can
// assert exactly how many lookups reached the network.
type fakeGitHub struct {
	calls      atomic.Int64
	quotaAfter int64 // respond 403 from this call number on; 0 disables
	failRepos  map[string]int
}

func (f *fakeGitHub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := f.calls.Add(1)
		if f.quotaAfter > 0 && n >= f.quotaAfter {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if code, ok := f.failRepos[r.URL.Path]; ok {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"stargazers_count": %d, "updated_at": "2025-06-01T00:00:00Z", "description": "repo %s"}`,
			n*10, r.URL.Path)
	}
}

func newTestEnricher(t *testing.T, fake *fakeGitHub) (*enrich.Enricher, *enrich.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	store := enrich.NewMemoryStore()
	client := enrich.NewClient(srv.URL, "")
	return enrich.NewEnricher(client, store, time.Hour, 0, zap.NewNop(), nil), store
}

func makeRequests(n int) []enrich.Request {
	reqs := make([]enrich.Request, 0, n)
	for i := 0; i < n; i++ {
		owner := fmt.Sprintf("owner%d", i)
		reqs = append(reqs, enrich.Request{
			SourceURL: fmt.Sprintf("https://github.com/%s/repo", owner),
			Ref:       model.RepoRef{Owner: owner, Repo: "repo"},
		})
	}
	return reqs
}

func TestEnrichAllFetchesUpToLimit(t *testing.T) {
	fake := &fakeGitHub{}
	enricher, _ := newTestEnricher(t, fake)

	results := enricher.EnrichAll(context.Background(), makeRequests(10), 4)

	assert.Len(t, results, 4)
	assert.EqualValues(t, 4, fake.calls.Load())
}

func TestEnrichAllQuotaHaltStopsBatch(t *testing.T) {
	fake := &fakeGitHub{quotaAfter: 5}
	enricher, _ := newTestEnricher(t, fake)
	reqs := makeRequests(10)

	results := enricher.EnrichAll(context.Background(), reqs, 10)

	// Four lookups succeeded, the fifth hit the quota, and no request after
	// it reached the network.
	assert.Len(t, results, 4)
	assert.EqualValues(t, 5, fake.calls.Load())
	for _, req := range reqs[4:] {
		_, halted := results[req.SourceURL]
		assert.False(t, halted, "entries past the halt must keep their fallbacks")
	}
}

func TestEnrichAllSkipsTransientFailures(t *testing.T) {
	fake := &fakeGitHub{failRepos: map[string]int{
		"/repos/owner1/repo": http.StatusInternalServerError,
	}}
	enricher, _ := newTestEnricher(t, fake)
	reqs := makeRequests(3)

	results := enricher.EnrichAll(context.Background(), reqs, 3)

	// The failing entry is absent; the entries around it are unaffected.
	assert.Len(t, results, 2)
	assert.Contains(t, results, reqs[0].SourceURL)
	assert.NotContains(t, results, reqs[1].SourceURL)
	assert.Contains(t, results, reqs[2].SourceURL)
	assert.EqualValues(t, 3, fake.calls.Load())
}

func TestEnrichAllServesSecondRunFromCache(t *testing.T) {
	fake := &fakeGitHub{}
	enricher, _ := newTestEnricher(t, fake)
	reqs := makeRequests(3)

	first := enricher.EnrichAll(context.Background(), reqs, 3)
	require.Len(t, first, 3)
	require.EqualValues(t, 3, fake.calls.Load())

	second := enricher.EnrichAll(context.Background(), reqs, 3)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 3, fake.calls.Load(), "second run must not hit the network")
}

func TestLookupCachesResult(t *testing.T) {
	fake := &fakeGitHub{}
	enricher, store := newTestEnricher(t, fake)
	req := makeRequests(1)[0]

	md, err := enricher.Lookup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 10, md.Stars)

	cached, ok, err := store.Get(context.Background(), req.SourceURL)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, md, cached)

	again, err := enricher.Lookup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, md, again)
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := enrich.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", enrich.RepoMetadata{Stars: 7}, -time.Second))

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries must read as misses")
}
