package otp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tanwk/gondotrack/internal/config"
	"github.com/tanwk/gondotrack/internal/db"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/mail"
	"github.com/tanwk/gondotrack/internal/models"
)

type fakeSender struct {
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type issuerEnv struct {
	issuer *Issuer
	otps   *repository.OTPRepository
	mailer *fakeSender
	user   *models.User
	now    time.Time
}

func newIssuerEnv(t *testing.T) *issuerEnv {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(database))

	users := repository.NewUserRepository(database.DB)
	otps := repository.NewOTPRepository(database.DB)

	user := &models.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "x"}
	require.NoError(t, users.Create(user))

	cfg := &config.Config{}
	cfg.Auth.SignupOTPTTL = "10m"
	cfg.Auth.ResetOTPTTL = "1m"

	env := &issuerEnv{
		otps:   otps,
		mailer: &fakeSender{},
		user:   user,
		now:    time.Now().UTC().Truncate(time.Second),
	}
	env.issuer = NewIssuer(otps, env.mailer, cfg).WithClock(func() time.Time { return env.now })

	return env
}

func TestIssue(t *testing.T) {
	env := newIssuerEnv(t)

	code, err := env.issuer.Issue(context.Background(), env.user, models.OTPPurposeSignup, 10*time.Minute)
	require.NoError(t, err)
	require.Len(t, code, 6)

	// The code is persisted with the requested lifetime and mailed out
	records, err := env.otps.ListByUser(env.user.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, code, records[0].Code)
	require.Equal(t, models.OTPPurposeSignup, records[0].Purpose)
	require.WithinDuration(t, env.now.Add(10*time.Minute), records[0].ExpiresAt, time.Second)

	require.Len(t, env.mailer.sent, 1)
	require.Equal(t, env.user.Email, env.mailer.sent[0].To)
	require.Contains(t, env.mailer.sent[0].Body, code)
}

func TestIssue_MailFailure(t *testing.T) {
	env := newIssuerEnv(t)
	env.mailer.err = errors.New("smtp down")

	_, err := env.issuer.Issue(context.Background(), env.user, models.OTPPurposeSignup, 10*time.Minute)
	require.ErrorIs(t, err, ErrMailDelivery)

	// The code is already stored; a later resend invalidates it
	records, listErr := env.otps.ListByUser(env.user.ID)
	require.NoError(t, listErr)
	require.Len(t, records, 1)
}

func TestVerify(t *testing.T) {
	env := newIssuerEnv(t)

	code, err := env.issuer.Issue(context.Background(), env.user, models.OTPPurposeSignup, 10*time.Minute)
	require.NoError(t, err)

	record, err := env.issuer.Verify(env.user, code)
	require.NoError(t, err)
	require.Equal(t, models.OTPPurposeSignup, record.Purpose)
	require.True(t, record.Verified)

	// A consumed code cannot be replayed
	_, err = env.issuer.Verify(env.user, code)
	require.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestVerify_WrongAndExpiredIndistinguishable(t *testing.T) {
	env := newIssuerEnv(t)

	code, err := env.issuer.Issue(context.Background(), env.user, models.OTPPurposeForgotPassword, time.Minute)
	require.NoError(t, err)

	_, wrongErr := env.issuer.Verify(env.user, "000000")

	env.now = env.now.Add(2 * time.Minute)
	_, expiredErr := env.issuer.Verify(env.user, code)

	require.ErrorIs(t, wrongErr, ErrInvalidOrExpired)
	require.ErrorIs(t, expiredErr, ErrInvalidOrExpired)
	require.Equal(t, wrongErr, expiredErr)
}

func TestResend_InvalidatesPreviousCode(t *testing.T) {
	env := newIssuerEnv(t)

	first, err := env.issuer.Issue(context.Background(), env.user, models.OTPPurposeSignup, 10*time.Minute)
	require.NoError(t, err)

	env.now = env.now.Add(time.Second)
	second, err := env.issuer.Resend(context.Background(), env.user)
	require.NoError(t, err)

	if first != second {
		_, err = env.issuer.Verify(env.user, first)
		require.ErrorIs(t, err, ErrInvalidOrExpired)
	}

	_, err = env.issuer.Verify(env.user, second)
	require.NoError(t, err)
}

func TestResend_PurposeFollowsAccountState(t *testing.T) {
	env := newIssuerEnv(t)

	// Unverified account: the resend is a signup code
	_, err := env.issuer.Resend(context.Background(), env.user)
	require.NoError(t, err)

	records, err := env.otps.ListByUser(env.user.ID)
	require.NoError(t, err)
	require.Equal(t, models.OTPPurposeSignup, records[0].Purpose)

	// Verified account: the resend is a reset code
	env.user.Verified = true
	env.now = env.now.Add(time.Second)
	_, err = env.issuer.Resend(context.Background(), env.user)
	require.NoError(t, err)

	records, err = env.otps.ListByUser(env.user.ID)
	require.NoError(t, err)
	require.Equal(t, models.OTPPurposeForgotPassword, records[0].Purpose)
}

func TestResend_UsesShortLifetime(t *testing.T) {
	env := newIssuerEnv(t)

	_, err := env.issuer.Resend(context.Background(), env.user)
	require.NoError(t, err)

	records, err := env.otps.ListByUser(env.user.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.WithinDuration(t, env.now.Add(time.Minute), records[0].ExpiresAt, time.Second)
}

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, ch := range code {
			require.True(t, ch >= '0' && ch <= '9')
		}
	}
}
