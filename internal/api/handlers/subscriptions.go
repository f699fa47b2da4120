package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tanwk/gondotrack/internal/api"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/models"
)

// SubscriptionHandler handles certificate-alert subscription CRUD
type SubscriptionHandler struct {
	subs   *repository.SubscriptionRepository
	logger *slog.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subs *repository.SubscriptionRepository, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs, logger: logger}
}

// SubscriptionRequest represents a subscription upsert request
type SubscriptionRequest struct {
	GondolaID     int64  `json:"gondola_id" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	ThresholdDays int    `json:"threshold_days" binding:"required,min=1"`
	Frequency     string `json:"frequency" binding:"required"`
}

// Upsert creates or updates the subscription for (gondola, email)
// POST /api/subscriptions
func (h *SubscriptionHandler) Upsert(c *gin.Context) {
	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation,
			"gondola_id, email, threshold_days and frequency are required")
		return
	}
	if !validFrequency(req.Frequency) {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Frequency must be daily, weekly or monthly")
		return
	}

	sub := &models.CertAlertSubscription{
		GondolaID:     req.GondolaID,
		Email:         req.Email,
		ThresholdDays: req.ThresholdDays,
		Frequency:     req.Frequency,
	}
	if err := h.subs.Upsert(sub); err != nil {
		h.logger.Error("failed to upsert subscription", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to save subscription")
		return
	}

	api.RespondSuccess(c, sub)
}

// List lists subscriptions, optionally filtered by ?gondola_id=
// GET /api/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	var gondolaID *int64
	if v := c.Query("gondola_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola_id")
			return
		}
		gondolaID = &id
	}

	subs, err := h.subs.List(gondolaID)
	if err != nil {
		h.logger.Error("failed to list subscriptions", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to list subscriptions")
		return
	}

	api.RespondSuccess(c, subs)
}

// Delete deletes a subscription
// DELETE /api/subscriptions/:id
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid subscription id")
		return
	}

	if err := h.subs.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Subscription not found")
			return
		}
		h.logger.Error("failed to delete subscription", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to delete subscription")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "Subscription deleted"})
}
