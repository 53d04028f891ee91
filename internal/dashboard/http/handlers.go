package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openforge-dev/openforge-backend/internal/clerk"
	"github.com/openforge-dev/openforge-backend/internal/dashboard/service"
)

// Aggregator builds the per-user dashboard payload.
type Aggregator interface {
	Overview(ctx context.Context, userID string) (*service.Overview, error)
}

// Handler exposes the dashboard endpoint.
type Handler struct {
	aggregator Aggregator
}

func NewHandler(aggregator Aggregator) *Handler {
	return &Handler{aggregator: aggregator}
}

// Register registers the dashboard routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Overview)
}

// Overview serves the caller's dashboard.
func (h *Handler) Overview(c *gin.Context) {
	ov, err := h.aggregator.Overview(c.Request.Context(), clerk.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, ov)
}
