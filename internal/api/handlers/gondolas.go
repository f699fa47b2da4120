package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tanwk/gondotrack/internal/api"
	"github.com/tanwk/gondotrack/internal/api/middleware"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/models"
)

// GondolaHandler handles gondola CRUD, relocation and shift history
type GondolaHandler struct {
	gondolas *repository.GondolaRepository
	shifts   *repository.ShiftRepository
	logger   *slog.Logger
}

// NewGondolaHandler creates a new gondola handler
func NewGondolaHandler(gondolas *repository.GondolaRepository, shifts *repository.ShiftRepository, logger *slog.Logger) *GondolaHandler {
	return &GondolaHandler{gondolas: gondolas, shifts: shifts, logger: logger}
}

// GondolaRequest represents a gondola create/update request
type GondolaRequest struct {
	SerialNumber string     `json:"serial_number" binding:"required"`
	ProjectID    *int64     `json:"project_id"`
	Location     string     `json:"location"`
	Status       string     `json:"status"`
	InstalledAt  *time.Time `json:"installed_at"`
}

// Create registers a gondola unit
// POST /api/gondolas
func (h *GondolaHandler) Create(c *gin.Context) {
	var req GondolaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Serial number is required")
		return
	}

	status := req.Status
	if status == "" {
		status = models.GondolaStatusIdle
	}
	if !validGondolaStatus(status) {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid status")
		return
	}

	gondola := &models.Gondola{
		SerialNumber: req.SerialNumber,
		ProjectID:    req.ProjectID,
		Location:     req.Location,
		Status:       status,
		InstalledAt:  req.InstalledAt,
	}
	if err := h.gondolas.Create(gondola); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			api.RespondError(c, http.StatusConflict, api.CodeConflict, "Serial number already registered")
			return
		}
		h.logger.Error("failed to create gondola", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to create gondola")
		return
	}

	api.RespondSuccess(c, gondola)
}

// List lists gondolas, optionally filtered by ?project_id=
// GET /api/gondolas
func (h *GondolaHandler) List(c *gin.Context) {
	var projectID *int64
	if v := c.Query("project_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid project_id")
			return
		}
		projectID = &id
	}

	gondolas, err := h.gondolas.List(projectID)
	if err != nil {
		h.logger.Error("failed to list gondolas", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to list gondolas")
		return
	}

	api.RespondSuccess(c, gondolas)
}

// Get retrieves one gondola
// GET /api/gondolas/:id
func (h *GondolaHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	gondola, err := h.gondolas.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Gondola not found")
			return
		}
		h.logger.Error("failed to get gondola", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to get gondola")
		return
	}

	api.RespondSuccess(c, gondola)
}

// Update updates a gondola's assignment, location and status
// PUT /api/gondolas/:id
func (h *GondolaHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	var req GondolaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Serial number is required")
		return
	}
	if req.Status != "" && !validGondolaStatus(req.Status) {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid status")
		return
	}

	gondola := &models.Gondola{
		ID:           id,
		SerialNumber: req.SerialNumber,
		ProjectID:    req.ProjectID,
		Location:     req.Location,
		Status:       req.Status,
		InstalledAt:  req.InstalledAt,
	}
	if err := h.gondolas.Update(gondola); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Gondola not found")
			return
		}
		h.logger.Error("failed to update gondola", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to update gondola")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "Gondola updated"})
}

// Delete deletes a gondola
// DELETE /api/gondolas/:id
func (h *GondolaHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	if err := h.gondolas.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Gondola not found")
			return
		}
		h.logger.Error("failed to delete gondola", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to delete gondola")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "Gondola deleted"})
}

// MoveRequest represents a relocation request
type MoveRequest struct {
	ToLocation string `json:"to_location" binding:"required"`
	Note       string `json:"note"`
}

// Move relocates a gondola. The location update and the shift-history row
// are written in one transaction.
// POST /api/gondolas/:id/move
func (h *GondolaHandler) Move(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Target location is required")
		return
	}

	shift, err := h.gondolas.Move(id, req.ToLocation, middleware.UserEmail(c), req.Note, timeNow())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Gondola not found")
			return
		}
		h.logger.Error("failed to move gondola", "gondola_id", id, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to move gondola")
		return
	}

	api.RespondSuccess(c, shift)
}

// ListShifts lists a gondola's relocation history
// GET /api/gondolas/:id/shifts
func (h *GondolaHandler) ListShifts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	shifts, err := h.shifts.ListByGondola(id)
	if err != nil {
		h.logger.Error("failed to list shift records", "gondola_id", id, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to list shift records")
		return
	}

	api.RespondSuccess(c, shifts)
}

func validGondolaStatus(s string) bool {
	switch s {
	case models.GondolaStatusDeployed, models.GondolaStatusIdle,
		models.GondolaStatusMaintenance, models.GondolaStatusDecommissioned:
		return true
	}
	return false
}
