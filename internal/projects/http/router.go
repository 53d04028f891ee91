package http

import "github.com/gin-gonic/gin"

// Register registers the project routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/projects", h.ListProjects)
	rg.POST("/projects", h.CreateProject)
	rg.POST("/projects/:id/star", h.ToggleStar)
}
