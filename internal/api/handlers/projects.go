package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tanwk/gondotrack/internal/api"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/models"
)

// ProjectHandler handles project CRUD
type ProjectHandler struct {
	projects *repository.ProjectRepository
	logger   *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects *repository.ProjectRepository, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// ProjectRequest represents a project create/update request
type ProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Client      string     `json:"client" binding:"required"`
	SiteAddress string     `json:"site_address"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// Create creates a project
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Name and client are required")
		return
	}

	project := &models.Project{
		Name:        req.Name,
		Client:      req.Client,
		SiteAddress: req.SiteAddress,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := h.projects.Create(project); err != nil {
		h.logger.Error("failed to create project", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to create project")
		return
	}

	api.RespondSuccess(c, project)
}

// List lists all projects
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List()
	if err != nil {
		h.logger.Error("failed to list projects", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to list projects")
		return
	}

	api.RespondSuccess(c, projects)
}

// Get retrieves one project
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid project id")
		return
	}

	project, err := h.projects.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Project not found")
			return
		}
		h.logger.Error("failed to get project", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to get project")
		return
	}

	api.RespondSuccess(c, project)
}

// Update updates a project
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid project id")
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Name and client are required")
		return
	}

	project := &models.Project{
		ID:          id,
		Name:        req.Name,
		Client:      req.Client,
		SiteAddress: req.SiteAddress,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := h.projects.Update(project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Project not found")
			return
		}
		h.logger.Error("failed to update project", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to update project")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "Project updated"})
}

// Delete deletes a project
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid project id")
		return
	}

	if err := h.projects.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Project not found")
			return
		}
		h.logger.Error("failed to delete project", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to delete project")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "Project deleted"})
}
