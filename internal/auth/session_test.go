package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParseSession(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	now := time.Now()

	token, err := IssueSession(42, "crew@example.com", secret, time.Hour, now)
	require.NoError(t, err)

	claims, err := ParseSession(token, secret)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "crew@example.com", claims.Email)
}

func TestParseSession_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	issuedAt := time.Now().Add(-2 * time.Hour)

	token, err := IssueSession(1, "a@example.com", secret, time.Hour, issuedAt)
	require.NoError(t, err)

	_, err = ParseSession(token, secret)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseSession_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := IssueSession(1, "a@example.com", []byte("right"), time.Hour, time.Now())
	require.NoError(t, err)

	_, err = ParseSession(token, []byte("wrong"))
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseSession_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseSession("not.a.token", []byte("secret"))
	require.ErrorIs(t, err, ErrInvalidSession)

	_, err = ParseSession("", []byte("secret"))
	require.ErrorIs(t, err, ErrInvalidSession)
}
