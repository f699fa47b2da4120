package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tanwk/gondotrack/internal/models"
)

func createTestOTP(t *testing.T, repo *OTPRepository, userID int64, code, purpose string, createdAt time.Time, ttl time.Duration) *models.OTP {
	t.Helper()

	otp := &models.OTP{
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: createdAt.Add(ttl),
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(otp))
	return otp
}

func TestOTPRepository_FindActive(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserRepository(conn)
	repo := NewOTPRepository(conn)

	user := createTestUser(t, users, "alice@example.com")
	now := time.Now().UTC()

	createTestOTP(t, repo, user.ID, "123456", models.OTPPurposeSignup, now, 10*time.Minute)

	got, err := repo.FindActive(user.ID, "123456", now)
	require.NoError(t, err)
	require.Equal(t, models.OTPPurposeSignup, got.Purpose)
	require.False(t, got.Verified)

	_, err = repo.FindActive(user.ID, "000000", now)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOTPRepository_FindActive_Expired(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserRepository(conn)
	repo := NewOTPRepository(conn)

	user := createTestUser(t, users, "alice@example.com")
	now := time.Now().UTC()

	createTestOTP(t, repo, user.ID, "123456", models.OTPPurposeForgotPassword, now.Add(-2*time.Minute), time.Minute)

	_, err := repo.FindActive(user.ID, "123456", now)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOTPRepository_FindActive_NewestWins(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserRepository(conn)
	repo := NewOTPRepository(conn)

	user := createTestUser(t, users, "alice@example.com")
	now := time.Now().UTC()

	// Same code issued twice; the later row is the one that verifies
	createTestOTP(t, repo, user.ID, "123456", models.OTPPurposeSignup, now.Add(-time.Minute), 10*time.Minute)
	latest := createTestOTP(t, repo, user.ID, "123456", models.OTPPurposeForgotPassword, now, 10*time.Minute)

	got, err := repo.FindActive(user.ID, "123456", now)
	require.NoError(t, err)
	require.Equal(t, latest.ID, got.ID)
	require.Equal(t, models.OTPPurposeForgotPassword, got.Purpose)
}

func TestOTPRepository_InvalidateActive(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserRepository(conn)
	repo := NewOTPRepository(conn)

	user := createTestUser(t, users, "alice@example.com")
	now := time.Now().UTC()

	createTestOTP(t, repo, user.ID, "111111", models.OTPPurposeSignup, now, 10*time.Minute)
	createTestOTP(t, repo, user.ID, "222222", models.OTPPurposeForgotPassword, now, 10*time.Minute)

	require.NoError(t, repo.InvalidateActive(user.ID,
		[]string{models.OTPPurposeSignup, models.OTPPurposeForgotPassword}, now.Add(time.Second)))

	_, err := repo.FindActive(user.ID, "111111", now.Add(2*time.Second))
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindActive(user.ID, "222222", now.Add(2*time.Second))
	require.ErrorIs(t, err, ErrNotFound)

	// Rows are kept, not deleted
	all, err := repo.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestOTPRepository_InvalidateActive_PurposeScoped(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserRepository(conn)
	repo := NewOTPRepository(conn)

	user := createTestUser(t, users, "alice@example.com")
	now := time.Now().UTC()

	createTestOTP(t, repo, user.ID, "111111", models.OTPPurposeSignup, now, 10*time.Minute)
	createTestOTP(t, repo, user.ID, "222222", models.OTPPurposeForgotPassword, now, 10*time.Minute)

	require.NoError(t, repo.InvalidateActive(user.ID,
		[]string{models.OTPPurposeForgotPassword}, now.Add(time.Second)))

	// The signup code survives
	_, err := repo.FindActive(user.ID, "111111", now.Add(2*time.Second))
	require.NoError(t, err)
	_, err = repo.FindActive(user.ID, "222222", now.Add(2*time.Second))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOTPRepository_MarkVerified(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserRepository(conn)
	repo := NewOTPRepository(conn)

	user := createTestUser(t, users, "alice@example.com")
	now := time.Now().UTC()

	otp := createTestOTP(t, repo, user.ID, "123456", models.OTPPurposeSignup, now, 10*time.Minute)
	require.NoError(t, repo.MarkVerified(otp.ID))

	// Consumed codes no longer match
	_, err := repo.FindActive(user.ID, "123456", now)
	require.ErrorIs(t, err, ErrNotFound)
}
