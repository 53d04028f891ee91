package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openforge-dev/openforge-backend/internal/github"
)

// Browser serves marketplace queries.
type Browser interface {
	ListRepositories(ctx context.Context, search string) (json.RawMessage, error)
	RepositoryDetail(ctx context.Context, owner, repo string) (json.RawMessage, error)
}

// Handler exposes the marketplace endpoints. Responses are the cached
// payloads written through verbatim.
type Handler struct {
	browser Browser
}

func NewHandler(browser Browser) *Handler {
	return &Handler{browser: browser}
}

// Register registers the marketplace routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/repos", h.ListRepositories)
	rg.GET("/repos/:owner/:repo", h.RepositoryDetail)
}

// ListRepositories serves the repository listing, filtered by the optional
// search query param.
func (h *Handler) ListRepositories(c *gin.Context) {
	payload, err := h.browser.ListRepositories(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// RepositoryDetail serves one repository with its README.
func (h *Handler) RepositoryDetail(c *gin.Context) {
	payload, err := h.browser.RepositoryDetail(c.Request.Context(), c.Param("owner"), c.Param("repo"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch github.KindOf(err) {
	case github.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "repository not found"})
	case github.KindRateLimited:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "GitHub API rate limit exceeded. Please try again later."})
	case github.KindNetwork:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to reach GitHub"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "GitHub API error"})
	}
}
