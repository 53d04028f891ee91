package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openforge-dev/openforge-backend/internal/clerk"
	"github.com/openforge-dev/openforge-backend/internal/projects/domain"
	"github.com/openforge-dev/openforge-backend/internal/projects/service"
)

// Provisioner runs the create-project pipeline.
type Provisioner interface {
	CreateProject(ctx context.Context, callerID string, in service.CreateProjectInput) (*service.CreateProjectResult, error)
}

// Catalog serves listings and star toggles.
type Catalog interface {
	List(ctx context.Context, userID string, filter service.Filter) ([]service.ProjectView, error)
	ToggleStar(ctx context.Context, projectID, userID string) (bool, error)
}

// Handler exposes the project endpoints.
type Handler struct {
	provisioner Provisioner
	catalog     Catalog
}

func NewHandler(provisioner Provisioner, catalog Catalog) *Handler {
	return &Handler{provisioner: provisioner, catalog: catalog}
}

// CreateProject runs the provisioning pipeline for the caller.
func (h *Handler) CreateProject(c *gin.Context) {
	userID := clerk.CallerID(c)

	var body createProjectRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.provisioner.CreateProject(c.Request.Context(), userID, service.CreateProjectInput{
		Name:        body.Name,
		Description: body.Description,
		TechStack:   body.TechStack,
		IsPrivate:   body.IsPrivate,
	})
	if err != nil {
		var perr *service.ProvisionError
		if errors.As(err, &perr) {
			c.JSON(statusForReason(perr.Reason), gin.H{
				"reason":  string(perr.Reason),
				"message": perr.Message,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"reason":  string(service.ReasonUnknown),
			"message": "Project creation failed unexpectedly.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": result})
}

// ListProjects returns the caller's projects under the filter query param.
func (h *Handler) ListProjects(c *gin.Context) {
	userID := clerk.CallerID(c)
	filter := service.ParseFilter(c.Query("filter"))

	views, err := h.catalog.List(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}

	projects := make([]projectResponse, 0, len(views))
	for _, v := range views {
		projects = append(projects, toProjectResponse(v))
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// ToggleStar flips the caller's star on a project.
func (h *Handler) ToggleStar(c *gin.Context) {
	userID := clerk.CallerID(c)
	projectID := c.Param("id")

	starred, err := h.catalog.ToggleStar(c.Request.Context(), projectID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle star"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"starred": starred})
}

// statusForReason maps pipeline failure reasons onto HTTP statuses.
func statusForReason(reason service.FailureReason) int {
	switch reason {
	case service.ReasonValidation:
		return http.StatusBadRequest
	case service.ReasonAuth:
		return http.StatusUnauthorized
	case service.ReasonGitHubAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
