package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tanwk/gondotrack/internal/api"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/models"
)

// InspectionHandler handles inspection records
type InspectionHandler struct {
	inspections *repository.InspectionRepository
	logger      *slog.Logger
}

// NewInspectionHandler creates a new inspection handler
func NewInspectionHandler(inspections *repository.InspectionRepository, logger *slog.Logger) *InspectionHandler {
	return &InspectionHandler{inspections: inspections, logger: logger}
}

// InspectionRequest represents an inspection record request
type InspectionRequest struct {
	Inspector   string     `json:"inspector" binding:"required"`
	Result      string     `json:"result" binding:"required"`
	Notes       string     `json:"notes"`
	InspectedAt *time.Time `json:"inspected_at"`
}

// Create records an inspection for a gondola
// POST /api/gondolas/:id/inspections
func (h *InspectionHandler) Create(c *gin.Context) {
	gondolaID, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	var req InspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Inspector and result are required")
		return
	}
	if req.Result != models.InspectionResultPass && req.Result != models.InspectionResultFail {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Result must be 'pass' or 'fail'")
		return
	}

	inspectedAt := timeNow()
	if req.InspectedAt != nil {
		inspectedAt = *req.InspectedAt
	}

	inspection := &models.Inspection{
		GondolaID:   gondolaID,
		Inspector:   req.Inspector,
		Result:      req.Result,
		Notes:       req.Notes,
		InspectedAt: inspectedAt,
	}
	if err := h.inspections.Create(inspection); err != nil {
		h.logger.Error("failed to create inspection", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to create inspection")
		return
	}

	api.RespondSuccess(c, inspection)
}

// List lists a gondola's inspections
// GET /api/gondolas/:id/inspections
func (h *InspectionHandler) List(c *gin.Context) {
	gondolaID, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	inspections, err := h.inspections.ListByGondola(gondolaID)
	if err != nil {
		h.logger.Error("failed to list inspections", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to list inspections")
		return
	}

	api.RespondSuccess(c, inspections)
}
