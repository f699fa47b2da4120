// Package otp implements issuance and verification of the 6-digit passcodes
// emailed to users during signup and password reset.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/tanwk/gondotrack/internal/config"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/mail"
	"github.com/tanwk/gondotrack/internal/models"
)

var (
	// ErrInvalidOrExpired is returned when no active code matches a
	// submitted value. Wrong and expired codes are indistinguishable.
	ErrInvalidOrExpired = errors.New("invalid or expired OTP")

	// ErrMailDelivery wraps a failure to email an issued code. The code is
	// already persisted when this is returned; callers decide whether the
	// failure is fatal for their flow.
	ErrMailDelivery = errors.New("failed to deliver OTP email")
)

// Issuer issues, invalidates and verifies one-time passcodes
type Issuer struct {
	otps   *repository.OTPRepository
	mailer mail.Sender
	cfg    *config.Config
	now    func() time.Time
}

// NewIssuer creates a new passcode issuer
func NewIssuer(otps *repository.OTPRepository, mailer mail.Sender, cfg *config.Config) *Issuer {
	return &Issuer{
		otps:   otps,
		mailer: mailer,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithClock overrides the issuer's clock. For tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue generates a uniformly random 6-digit code (leading zeros allowed),
// persists it with the given purpose and lifetime, and emails it to the user.
// A mail failure is reported as ErrMailDelivery with the code already stored.
func (i *Issuer) Issue(ctx context.Context, user *models.User, purpose string, ttl time.Duration) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	now := i.now()
	record := &models.OTP{
		UserID:    user.ID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: now.Add(ttl),
		Verified:  false,
		CreatedAt: now,
	}
	if err := i.otps.Create(record); err != nil {
		return "", err
	}

	msg := mail.OTPMessage(user.Email, code, purpose, ttl)
	if err := i.mailer.Send(ctx, msg); err != nil {
		return code, fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	return code, nil
}

// Resend invalidates all active codes for the user and issues a fresh one
// with the short resend lifetime. The purpose follows the account state:
// SIGNUP while the email is still unverified, FORGOT_PASSWORD afterwards.
func (i *Issuer) Resend(ctx context.Context, user *models.User) (string, error) {
	purposes := []string{models.OTPPurposeSignup, models.OTPPurposeForgotPassword}
	if err := i.otps.InvalidateActive(user.ID, purposes, i.now()); err != nil {
		return "", err
	}

	purpose := models.OTPPurposeForgotPassword
	if !user.Verified {
		purpose = models.OTPPurposeSignup
	}

	return i.Issue(ctx, user, purpose, i.cfg.ResetOTPTTL())
}

// InvalidateActive expires all active codes of the given purposes so a newly
// issued code becomes the only valid one
func (i *Issuer) InvalidateActive(userID int64, purposes ...string) error {
	return i.otps.InvalidateActive(userID, purposes, i.now())
}

// Verify checks a submitted code against the user's active passcodes and
// consumes the match. The most recently created match wins.
func (i *Issuer) Verify(user *models.User, code string) (*models.OTP, error) {
	record, err := i.otps.FindActive(user.ID, code, i.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidOrExpired
	}
	if err != nil {
		return nil, err
	}

	if err := i.otps.MarkVerified(record.ID); err != nil {
		return nil, err
	}
	record.Verified = true

	return record, nil
}

// generateCode returns a uniformly random 6-digit decimal string
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
