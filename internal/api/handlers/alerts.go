package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanwk/gondotrack/internal/alert"
	"github.com/tanwk/gondotrack/internal/api"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/models"
)

// AlertHandler handles certificate-expiry alert evaluation and the send log
type AlertHandler struct {
	service *alert.Service
	subs    *repository.SubscriptionRepository
	logs    *repository.AlertLogRepository
	logger  *slog.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(service *alert.Service, subs *repository.SubscriptionRepository, logs *repository.AlertLogRepository, logger *slog.Logger) *AlertHandler {
	return &AlertHandler{
		service: service,
		subs:    subs,
		logs:    logs,
		logger:  logger,
	}
}

// SendAlertRequest represents a certificate alert evaluation request.
// Either an existing subscription is referenced by ID, or the subscription
// for (gondola_id, email) is created/updated from the given settings first.
type SendAlertRequest struct {
	GondolaID      int64  `json:"gondolaId"`
	Email          string `json:"email"`
	Frequency      string `json:"frequency"`
	Threshold      int    `json:"threshold"`
	SubscriptionID *int64 `json:"subscriptionId"`
}

// SendAlertResponse reports the evaluation outcome
type SendAlertResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message,omitempty"`
	Documents []*models.Document `json:"documents,omitempty"`
}

// SendAlert evaluates one subscription now and sends the expiry warning if
// it is due
// POST /api/send-cert-alert
func (h *AlertHandler) SendAlert(c *gin.Context) {
	var req SendAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid request body")
		return
	}

	sub, ok := h.resolveSubscription(c, &req)
	if !ok {
		return
	}

	outcome, err := h.service.Run(c.Request.Context(), sub)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Gondola not found")
			return
		}
		// Send failure: already logged and recorded by the service
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to send alert email")
		return
	}

	api.RespondSuccess(c, SendAlertResponse{
		Success:   outcome.Sent,
		Message:   outcome.Message,
		Documents: outcome.Documents,
	})
}

// ListAlertLog lists recent send attempts
// GET /api/alert-log
func (h *AlertHandler) ListAlertLog(c *gin.Context) {
	entries, err := h.logs.List(100)
	if err != nil {
		h.logger.Error("failed to list alert log", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to list alert log")
		return
	}

	api.RespondSuccess(c, entries)
}

// resolveSubscription loads the referenced subscription or upserts one from
// the request fields
func (h *AlertHandler) resolveSubscription(c *gin.Context, req *SendAlertRequest) (*models.CertAlertSubscription, bool) {
	if req.SubscriptionID != nil {
		sub, err := h.subs.GetByID(*req.SubscriptionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Subscription not found")
				return nil, false
			}
			h.logger.Error("failed to load subscription", "error", err)
			api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to load subscription")
			return nil, false
		}
		return sub, true
	}

	if req.GondolaID <= 0 || req.Email == "" || req.Threshold <= 0 || !validFrequency(req.Frequency) {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation,
			"gondolaId, email, threshold and a valid frequency are required")
		return nil, false
	}

	sub := &models.CertAlertSubscription{
		GondolaID:     req.GondolaID,
		Email:         req.Email,
		ThresholdDays: req.Threshold,
		Frequency:     req.Frequency,
	}
	if err := h.subs.Upsert(sub); err != nil {
		h.logger.Error("failed to upsert subscription", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to save subscription")
		return nil, false
	}

	return sub, true
}

func validFrequency(f string) bool {
	return f == models.FrequencyDaily || f == models.FrequencyWeekly || f == models.FrequencyMonthly
}
