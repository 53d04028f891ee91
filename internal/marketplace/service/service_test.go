package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openforge-dev/openforge-backend/internal/cache"
	"github.com/openforge-dev/openforge-backend/internal/github"
	"github.com/openforge-dev/openforge-backend/internal/marketplace/service"
)

type fakeReader struct {
	searchCalls  int
	detailCalls  int
	readmeCalls  int
	lastQuery    string
	searchResult *github.SearchResult
	searchErr    error
	repo         *github.Repository
	repoErr      error
	readme       *github.Readme
	readmeOK     bool
	readmeErr    error
}

func (f *fakeReader) SearchRepositories(ctx context.Context, query string) (*github.SearchResult, error) {
	f.searchCalls++
	f.lastQuery = query
	return f.searchResult, f.searchErr
}

func (f *fakeReader) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	f.detailCalls++
	return f.repo, f.repoErr
}

func (f *fakeReader) GetReadme(ctx context.Context, owner, repo string) (*github.Readme, bool, error) {
	f.readmeCalls++
	return f.readme, f.readmeOK, f.readmeErr
}

// memStore is an in-memory Store with a controllable clock.
type memStore struct {
	now     time.Time
	entries map[string]memEntry
}

type memEntry struct {
	payload   []byte
	expiresAt time.Time
}

func newMemStore() *memStore {
	return &memStore{now: time.Now(), entries: map[string]memEntry{}}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok := m.entries[key]
	if !ok || !m.now.Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (m *memStore) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	m.entries[key] = memEntry{payload: payload, expiresAt: m.now.Add(ttl)}
	return nil
}

func sampleRepo() github.Repository {
	return github.Repository{
		ID:              1,
		Name:            "demo-app",
		FullName:        "octocat/demo-app",
		Description:     "demo",
		HTMLURL:         "https://github.com/octocat/demo-app",
		Topics:          []string{"openforge", "python"},
		StargazersCount: 4,
		Language:        "Python",
		Owner:           github.Owner{Login: "octocat", AvatarURL: "https://avatars.test/1"},
		CreatedAt:       "2026-01-01T00:00:00Z",
	}
}

func TestListRepositories_TransformsAndCaches(t *testing.T) {
	reader := &fakeReader{searchResult: &github.SearchResult{TotalCount: 1, Items: []github.Repository{sampleRepo()}}}
	store := newMemStore()
	svc := service.NewService(reader, store)

	payload, err := svc.ListRepositories(context.Background(), "  demo  ")
	require.NoError(t, err)
	assert.Equal(t, "topic:openforge demo in:name", reader.lastQuery)

	var result service.ListResult
	require.NoError(t, json.Unmarshal(payload, &result))
	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Repositories, 1)
	assert.Equal(t, "octocat/demo-app", result.Repositories[0].FullName)
	assert.Equal(t, "octocat", result.Repositories[0].Owner.Login)

	_, ok, err := store.Get(context.Background(), cache.ListKey("demo"))
	require.NoError(t, err)
	assert.True(t, ok, "transformed result stored under the trimmed key")
}

func TestListRepositories_EmptySearchQueriesTopicOnly(t *testing.T) {
	reader := &fakeReader{searchResult: &github.SearchResult{}}
	svc := service.NewService(reader, newMemStore())

	_, err := svc.ListRepositories(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "topic:openforge", reader.lastQuery)
}

func TestListRepositories_CacheAsideWithinAndAfterTTL(t *testing.T) {
	reader := &fakeReader{searchResult: &github.SearchResult{TotalCount: 1, Items: []github.Repository{sampleRepo()}}}
	store := newMemStore()
	svc := service.NewService(reader, store)
	ctx := context.Background()

	first, err := svc.ListRepositories(ctx, "demo")
	require.NoError(t, err)
	second, err := svc.ListRepositories(ctx, "demo")
	require.NoError(t, err)

	assert.Equal(t, 1, reader.searchCalls, "second query within the TTL is served from cache")
	assert.JSONEq(t, string(first), string(second))

	store.now = store.now.Add(cache.DefaultTTL + time.Minute)
	_, err = svc.ListRepositories(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, 2, reader.searchCalls, "expired entry forces a second upstream call")
}

func TestListRepositories_UpstreamErrorPassesThrough(t *testing.T) {
	wantErr := &github.APIError{Kind: github.KindRateLimited, StatusCode: 403}
	reader := &fakeReader{searchErr: wantErr}
	svc := service.NewService(reader, newMemStore())

	_, err := svc.ListRepositories(context.Background(), "")
	assert.Equal(t, github.KindRateLimited, github.KindOf(err))
}

func TestRepositoryDetail_AttachesReadme(t *testing.T) {
	repo := sampleRepo()
	reader := &fakeReader{
		repo:     &repo,
		readme:   &github.Readme{Content: "# Demo", HTMLURL: "https://github.com/octocat/demo-app/blob/main/README.md"},
		readmeOK: true,
	}
	svc := service.NewService(reader, newMemStore())

	payload, err := svc.RepositoryDetail(context.Background(), "octocat", "demo-app")
	require.NoError(t, err)

	var detail service.RepositoryDetail
	require.NoError(t, json.Unmarshal(payload, &detail))
	require.NotNil(t, detail.Readme)
	assert.Equal(t, "# Demo", detail.Readme.Content)
}

func TestRepositoryDetail_MissingReadmeIsNull(t *testing.T) {
	repo := sampleRepo()
	reader := &fakeReader{repo: &repo}
	svc := service.NewService(reader, newMemStore())

	payload, err := svc.RepositoryDetail(context.Background(), "octocat", "demo-app")
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Equal(t, "null", string(raw["readme"]))
}

func TestRepositoryDetail_ReadmeFetchFailureIsNonFatal(t *testing.T) {
	repo := sampleRepo()
	reader := &fakeReader{repo: &repo, readmeErr: errors.New("boom")}
	svc := service.NewService(reader, newMemStore())

	payload, err := svc.RepositoryDetail(context.Background(), "octocat", "demo-app")
	require.NoError(t, err)

	var detail service.RepositoryDetail
	require.NoError(t, json.Unmarshal(payload, &detail))
	assert.Nil(t, detail.Readme)
}

func TestRepositoryDetail_CacheHitSkipsUpstream(t *testing.T) {
	repo := sampleRepo()
	reader := &fakeReader{repo: &repo}
	store := newMemStore()
	svc := service.NewService(reader, store)
	ctx := context.Background()

	_, err := svc.RepositoryDetail(ctx, "octocat", "demo-app")
	require.NoError(t, err)
	_, err = svc.RepositoryDetail(ctx, "octocat", "demo-app")
	require.NoError(t, err)

	assert.Equal(t, 1, reader.detailCalls)
	assert.Equal(t, 1, reader.readmeCalls)
}

func TestNewService_NilStoreDegrades(t *testing.T) {
	reader := &fakeReader{searchResult: &github.SearchResult{}}
	svc := service.NewService(reader, nil)

	_, err := svc.ListRepositories(context.Background(), "")
	require.NoError(t, err)
	_, err = svc.ListRepositories(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, reader.searchCalls, "no store means every query goes upstream")
}
