package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openforge-dev/openforge-backend/internal/clerk"
	"github.com/openforge-dev/openforge-backend/internal/projects/domain"
	"github.com/openforge-dev/openforge-backend/internal/projects/service"
)

type stubProvisioner struct {
	result *service.CreateProjectResult
	err    error
	gotIn  service.CreateProjectInput
	caller string
}

func (s *stubProvisioner) CreateProject(ctx context.Context, callerID string, in service.CreateProjectInput) (*service.CreateProjectResult, error) {
	s.caller = callerID
	s.gotIn = in
	return s.result, s.err
}

type stubCatalog struct {
	views      []service.ProjectView
	listErr    error
	starred    bool
	toggleErr  error
	gotFilter  service.Filter
	gotProject string
}

func (s *stubCatalog) List(ctx context.Context, userID string, filter service.Filter) ([]service.ProjectView, error) {
	s.gotFilter = filter
	return s.views, s.listErr
}

func (s *stubCatalog) ToggleStar(ctx context.Context, projectID, userID string) (bool, error) {
	s.gotProject = projectID
	return s.starred, s.toggleErr
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(clerk.ContextUserKey, "user_1")
		c.Next()
	})
	h.Register(r.Group("/api"))
	return r
}

func TestCreateProject_Created(t *testing.T) {
	prov := &stubProvisioner{result: &service.CreateProjectResult{
		ProjectID:    "proj-1",
		Name:         "demo-app",
		RemoteRepoID: "42",
		RemoteURL:    "https://github.com/octocat/demo-app",
		CreatedAt:    time.Now(),
	}}
	r := newTestRouter(NewHandler(prov, &stubCatalog{}))

	body, _ := json.Marshal(map[string]any{
		"name":      "demo-app",
		"techStack": []string{"Go"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user_1", prov.caller)
	assert.Equal(t, "demo-app", prov.gotIn.Name)

	var resp struct {
		Project service.CreateProjectResult `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "proj-1", resp.Project.ProjectID)
}

func TestCreateProject_InvalidBody(t *testing.T) {
	r := newTestRouter(NewHandler(&stubProvisioner{}, &stubCatalog{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader([]byte("{not json")))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProject_FailureEnvelopes(t *testing.T) {
	cases := []struct {
		reason service.FailureReason
		status int
	}{
		{service.ReasonValidation, http.StatusBadRequest},
		{service.ReasonAuth, http.StatusUnauthorized},
		{service.ReasonGitHubAPI, http.StatusBadGateway},
		{service.ReasonDatabase, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.reason), func(t *testing.T) {
			prov := &stubProvisioner{err: &service.ProvisionError{Reason: tc.reason, Message: "boom"}}
			r := newTestRouter(NewHandler(prov, &stubCatalog{}))

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader([]byte(`{"name":"x"}`)))
			r.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(tc.reason), resp["reason"])
			assert.Equal(t, "boom", resp["message"])
		})
	}
}

func TestListProjects(t *testing.T) {
	catalog := &stubCatalog{views: []service.ProjectView{
		{Project: domain.Project{ID: "p1", Name: "demo", OwnerID: "user_1"}, Starred: true},
	}}
	r := newTestRouter(NewHandler(&stubProvisioner{}, catalog))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/projects?filter=starred", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.FilterStarred, catalog.gotFilter)

	var resp struct {
		Projects []projectResponse `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "p1", resp.Projects[0].ID)
	assert.True(t, resp.Projects[0].Starred)
	assert.NotNil(t, resp.Projects[0].TechStack, "nil slices render as empty arrays")
}

func TestListProjects_Empty(t *testing.T) {
	r := newTestRouter(NewHandler(&stubProvisioner{}, &stubCatalog{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"projects":[]}`, w.Body.String())
}

func TestToggleStar(t *testing.T) {
	catalog := &stubCatalog{starred: true}
	r := newTestRouter(NewHandler(&stubProvisioner{}, catalog))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/projects/p1/star", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p1", catalog.gotProject)
	assert.JSONEq(t, `{"starred":true}`, w.Body.String())
}

func TestToggleStar_NotFound(t *testing.T) {
	catalog := &stubCatalog{toggleErr: domain.ErrProjectNotFound}
	r := newTestRouter(NewHandler(&stubProvisioner{}, catalog))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/projects/missing/star", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleStar_StoreFailure(t *testing.T) {
	catalog := &stubCatalog{toggleErr: errors.New("db down")}
	r := newTestRouter(NewHandler(&stubProvisioner{}, catalog))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/projects/p1/star", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
