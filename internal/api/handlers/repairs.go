package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanwk/gondotrack/internal/api"
	"github.com/tanwk/gondotrack/internal/api/middleware"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/models"
)

// RepairHandler handles repair logs
type RepairHandler struct {
	repairs *repository.RepairRepository
	logger  *slog.Logger
}

// NewRepairHandler creates a new repair handler
func NewRepairHandler(repairs *repository.RepairRepository, logger *slog.Logger) *RepairHandler {
	return &RepairHandler{repairs: repairs, logger: logger}
}

// RepairRequest represents a repair report
type RepairRequest struct {
	Description string `json:"description" binding:"required"`
}

// Create reports a defect on a gondola
// POST /api/gondolas/:id/repairs
func (h *RepairHandler) Create(c *gin.Context) {
	gondolaID, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	var req RepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Description is required")
		return
	}

	repair := &models.RepairLog{
		GondolaID:   gondolaID,
		Description: req.Description,
		ReportedBy:  middleware.UserEmail(c),
	}
	if err := h.repairs.Create(repair); err != nil {
		h.logger.Error("failed to create repair log", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to create repair log")
		return
	}

	api.RespondSuccess(c, repair)
}

// List lists a gondola's repair logs
// GET /api/gondolas/:id/repairs
func (h *RepairHandler) List(c *gin.Context) {
	gondolaID, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	repairs, err := h.repairs.ListByGondola(gondolaID)
	if err != nil {
		h.logger.Error("failed to list repair logs", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to list repair logs")
		return
	}

	api.RespondSuccess(c, repairs)
}

// Resolve marks a repair as done
// POST /api/repairs/:id/resolve
func (h *RepairHandler) Resolve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid repair id")
		return
	}

	if err := h.repairs.Resolve(id, timeNow()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Repair not found or already resolved")
			return
		}
		h.logger.Error("failed to resolve repair", "repair_id", id, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to resolve repair")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "Repair resolved"})
}
