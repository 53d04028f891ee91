package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openforge-dev/openforge-backend/internal/clerk"
	"github.com/openforge-dev/openforge-backend/internal/dashboard/service"
)

type stubAggregator struct {
	overview *service.Overview
	err      error
	gotUser  string
}

func (s *stubAggregator) Overview(ctx context.Context, userID string) (*service.Overview, error) {
	s.gotUser = userID
	return s.overview, s.err
}

func newTestRouter(agg *stubAggregator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(clerk.ContextUserKey, "user_1")
		c.Next()
	})
	NewHandler(agg).Register(r.Group("/api"))
	return r
}

func TestOverview(t *testing.T) {
	agg := &stubAggregator{overview: &service.Overview{
		User:    service.UserSummary{ID: "user_1", Name: "Alice", Level: 2},
		Metrics: service.Metrics{Streak: 3},
	}}
	r := newTestRouter(agg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_1", agg.gotUser)

	var resp struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
		Metrics struct {
			Streak int `json:"streak"`
		} `json:"additionalMetrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp.User.Name)
	assert.Equal(t, 3, resp.Metrics.Streak)
}

func TestOverview_Failure(t *testing.T) {
	r := newTestRouter(&stubAggregator{err: errors.New("db down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
