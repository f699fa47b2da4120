package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tanwk/gondotrack/internal/api"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/models"
)

// OrderHandler handles delivery orders
type OrderHandler struct {
	orders *repository.OrderRepository
	logger *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *repository.OrderRepository, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// OrderRequest represents a delivery order create request
type OrderRequest struct {
	ProjectID     int64      `json:"project_id" binding:"required"`
	GondolaID     *int64     `json:"gondola_id"`
	Items         string     `json:"items"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

// Create creates a delivery order with a generated reference number
// POST /api/delivery-orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Project id is required")
		return
	}

	order := &models.DeliveryOrder{
		Reference:     "DO-" + uuid.NewString(),
		ProjectID:     req.ProjectID,
		GondolaID:     req.GondolaID,
		Status:        models.OrderStatusPending,
		Items:         req.Items,
		ScheduledDate: req.ScheduledDate,
	}
	if err := h.orders.Create(order); err != nil {
		h.logger.Error("failed to create delivery order", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to create delivery order")
		return
	}

	api.RespondSuccess(c, order)
}

// Get retrieves one delivery order
// GET /api/delivery-orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid order id")
		return
	}

	order, err := h.orders.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Delivery order not found")
			return
		}
		h.logger.Error("failed to get delivery order", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to get delivery order")
		return
	}

	api.RespondSuccess(c, order)
}

// ListByProject lists a project's delivery orders via ?project_id=
// GET /api/delivery-orders
func (h *OrderHandler) ListByProject(c *gin.Context) {
	var req struct {
		ProjectID int64 `form:"project_id" binding:"required"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "project_id query parameter is required")
		return
	}

	orders, err := h.orders.ListByProject(req.ProjectID)
	if err != nil {
		h.logger.Error("failed to list delivery orders", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to list delivery orders")
		return
	}

	api.RespondSuccess(c, orders)
}

// StatusRequest represents a status transition
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus transitions a delivery order's status
// POST /api/delivery-orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid order id")
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Status is required")
		return
	}
	if req.Status != models.OrderStatusPending &&
		req.Status != models.OrderStatusDelivered &&
		req.Status != models.OrderStatusCancelled {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid status")
		return
	}

	if err := h.orders.UpdateStatus(id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Delivery order not found")
			return
		}
		h.logger.Error("failed to update delivery order", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to update delivery order")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "Delivery order updated"})
}
