package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openforge-dev/openforge-backend/internal/clerk"
	"github.com/openforge-dev/openforge-backend/internal/users/domain"
)

type stubProfiles struct {
	user       *domain.User
	err        error
	gotUser    string
	gotProfile domain.Profile
}

func (s *stubProfiles) Sync(ctx context.Context, clerkUserID string, p domain.Profile) (*domain.User, error) {
	s.gotUser = clerkUserID
	s.gotProfile = p
	return s.user, s.err
}

func newTestRouter(profiles *stubProfiles) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(clerk.ContextUserKey, "user_1")
		c.Next()
	})
	NewHandler(profiles).Register(r.Group("/api"))
	return r
}

func TestSyncProfile(t *testing.T) {
	profiles := &stubProfiles{user: &domain.User{ClerkUserID: "user_1", Name: "Alice", Level: 1}}
	r := newTestRouter(profiles)

	body, _ := json.Marshal(map[string]any{
		"name":            "Alice",
		"email":           "alice@example.com",
		"githubConnected": true,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/sync", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_1", profiles.gotUser)
	assert.Equal(t, "Alice", profiles.gotProfile.Name)
	assert.True(t, profiles.gotProfile.GitHubConnected)

	var resp struct {
		User domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp.User.Name)
}

func TestSyncProfile_MissingName(t *testing.T) {
	r := newTestRouter(&stubProfiles{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/sync", bytes.NewReader([]byte(`{"email":"x@y.z"}`)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
