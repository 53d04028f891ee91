package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openforge-dev/openforge-backend/internal/clerk"
	"github.com/openforge-dev/openforge-backend/internal/users/domain"
)

// ProfileStore syncs identity-provider profiles into the local users table.
type ProfileStore interface {
	Sync(ctx context.Context, clerkUserID string, p domain.Profile) (*domain.User, error)
}

// Handler exposes the user endpoints.
type Handler struct {
	profiles ProfileStore
}

func NewHandler(profiles ProfileStore) *Handler {
	return &Handler{profiles: profiles}
}

// Register registers the user routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/users/sync", h.SyncProfile)
}

type syncRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email"`
	AvatarURL       string `json:"avatarUrl,omitempty"`
	GitHubUserID    string `json:"githubUserId,omitempty"`
	GitHubConnected bool   `json:"githubConnected,omitempty"`
}

// SyncProfile upserts the caller's profile from the identity provider.
func (h *Handler) SyncProfile(c *gin.Context) {
	userID := clerk.CallerID(c)

	var body syncRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.profiles.Sync(c.Request.Context(), userID, domain.Profile{
		Name:            body.Name,
		Email:           body.Email,
		AvatarURL:       body.AvatarURL,
		GitHubUserID:    body.GitHubUserID,
		GitHubConnected: body.GitHubConnected,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sync user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
