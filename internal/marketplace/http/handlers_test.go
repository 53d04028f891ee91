package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openforge-dev/openforge-backend/internal/github"
)

type stubBrowser struct {
	listPayload   json.RawMessage
	listErr       error
	detailPayload json.RawMessage
	detailErr     error
	gotSearch     string
	gotOwner      string
	gotRepo       string
}

func (s *stubBrowser) ListRepositories(ctx context.Context, search string) (json.RawMessage, error) {
	s.gotSearch = search
	return s.listPayload, s.listErr
}

func (s *stubBrowser) RepositoryDetail(ctx context.Context, owner, repo string) (json.RawMessage, error) {
	s.gotOwner, s.gotRepo = owner, repo
	return s.detailPayload, s.detailErr
}

func newTestRouter(browser *stubBrowser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(browser).Register(r.Group("/api/marketplace"))
	return r
}

func TestListRepositories_ServesPayloadVerbatim(t *testing.T) {
	browser := &stubBrowser{listPayload: json.RawMessage(`{"total_count":0,"repositories":[]}`)}
	r := newTestRouter(browser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/marketplace/repos?search=demo", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "demo", browser.gotSearch)
	assert.JSONEq(t, `{"total_count":0,"repositories":[]}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestRepositoryDetail_RoutesParams(t *testing.T) {
	browser := &stubBrowser{detailPayload: json.RawMessage(`{"id":1,"readme":null}`)}
	r := newTestRouter(browser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/marketplace/repos/octocat/demo-app", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "octocat", browser.gotOwner)
	assert.Equal(t, "demo-app", browser.gotRepo)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", &github.APIError{Kind: github.KindNotFound, StatusCode: 404}, http.StatusNotFound},
		{"rate limited", &github.APIError{Kind: github.KindRateLimited, StatusCode: 403}, http.StatusServiceUnavailable},
		{"network", &github.APIError{Kind: github.KindNetwork}, http.StatusServiceUnavailable},
		{"upstream", &github.APIError{Kind: github.KindUpstream, StatusCode: 500}, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubBrowser{detailErr: tc.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/marketplace/repos/octocat/demo-app", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
		})
	}
}
