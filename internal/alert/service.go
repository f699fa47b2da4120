package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/mail"
	"github.com/tanwk/gondotrack/internal/models"
)

// Outcome describes one subscription evaluation
type Outcome struct {
	Sent      bool               `json:"sent"`
	Message   string             `json:"message,omitempty"`
	Documents []*models.Document `json:"documents,omitempty"`
}

// Service evaluates subscriptions and dispatches expiry-warning emails.
// It is invoked synchronously from the alert endpoint and from the admin
// CLI; the periodic trigger lives outside this process (operator cron).
type Service struct {
	gondolas *repository.GondolaRepository
	docs     *repository.DocumentRepository
	subs     *repository.SubscriptionRepository
	logs     *repository.AlertLogRepository
	mailer   mail.Sender
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new alert service
func NewService(
	gondolas *repository.GondolaRepository,
	docs *repository.DocumentRepository,
	subs *repository.SubscriptionRepository,
	logs *repository.AlertLogRepository,
	mailer mail.Sender,
	logger *slog.Logger,
) *Service {
	return &Service{
		gondolas: gondolas,
		docs:     docs,
		subs:     subs,
		logs:     logs,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service's clock. For tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run evaluates one subscription and sends the alert if it is due.
// last_sent advances only after a confirmed send, and not in the same
// transaction as the SMTP dispatch, so delivery is at-least-once: a crash
// between the send and the bookkeeping repeats the send next evaluation.
func (s *Service) Run(ctx context.Context, sub *models.CertAlertSubscription) (*Outcome, error) {
	now := s.now()

	gondola, err := s.gondolas.GetByID(sub.GondolaID)
	if err != nil {
		return nil, err
	}

	docs, err := s.docs.ListByGondola(sub.GondolaID)
	if err != nil {
		return nil, err
	}

	qualifying := QualifyingDocuments(docs, sub.ThresholdDays, now)
	if len(qualifying) == 0 {
		return &Outcome{Sent: false, Message: "no certificates due for alert"}, nil
	}

	if !FrequencyGateOpen(sub.Frequency, now) || !ShouldSendForFrequency(sub.Frequency, sub.LastSent, now) {
		return &Outcome{Sent: false, Message: "alert not due for this frequency", Documents: qualifying}, nil
	}

	msg := mail.CertAlertMessage(sub.Email, gondola, qualifying, StartOfDay(now))
	sendErr := s.mailer.Send(ctx, msg)

	entry := &models.AlertLog{
		SubscriptionID: &sub.ID,
		GondolaID:      sub.GondolaID,
		Email:          sub.Email,
		DocumentCount:  len(qualifying),
		Success:        sendErr == nil,
		SentAt:         now,
	}
	if sendErr != nil {
		entry.ErrorMsg = sendErr.Error()
	}
	if err := s.logs.Create(entry); err != nil {
		s.logger.Error("failed to record alert log", "subscription_id", sub.ID, "error", err)
	}

	if sendErr != nil {
		s.logger.Error("failed to send certificate alert",
			"subscription_id", sub.ID, "gondola_id", sub.GondolaID, "error", sendErr)
		return nil, sendErr
	}

	if err := s.subs.AdvanceLastSent(sub.ID, now); err != nil {
		s.logger.Error("failed to advance last_sent", "subscription_id", sub.ID, "error", err)
	}

	return &Outcome{Sent: true, Documents: qualifying}, nil
}

// RunAll evaluates every subscription once. Used by the admin CLI as the
// external periodic entry point. Send failures are logged and skipped so
// one broken recipient does not stop the sweep.
func (s *Service) RunAll(ctx context.Context) (sent int, err error) {
	subs, err := s.subs.List(nil)
	if err != nil {
		return 0, err
	}

	for _, sub := range subs {
		outcome, err := s.Run(ctx, sub)
		if err != nil {
			s.logger.Error("subscription evaluation failed", "subscription_id", sub.ID, "error", err)
			continue
		}
		if outcome.Sent {
			sent++
		}
	}

	return sent, nil
}
