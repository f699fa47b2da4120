package auth

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestTOTPRoundTrip(t *testing.T) {
	t.Parallel()

	secret, err := GenerateTOTPSecret("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	require.True(t, ValidateTOTP(secret, code))
	require.False(t, ValidateTOTP(secret, "000000"))
}

func TestTOTPProvisioningURL(t *testing.T) {
	t.Parallel()

	url := TOTPProvisioningURL("SECRET123", "alice@example.com")
	require.Contains(t, url, "otpauth://totp/")
	require.Contains(t, url, "SECRET123")
	require.Contains(t, url, "Gondotrack")
}
