package auth

import (
	"fmt"
	"net/url"

	"github.com/pquerna/otp/totp"
)

const totpIssuer = "Gondotrack"

// GenerateTOTPSecret generates a new TOTP secret for authenticator-app
// enrollment
func GenerateTOTPSecret(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	return key.Secret(), nil
}

// TOTPProvisioningURL builds the otpauth URL an authenticator app scans
func TOTPProvisioningURL(secret, accountName string) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s",
		url.QueryEscape(totpIssuer),
		url.QueryEscape(accountName),
		secret,
		url.QueryEscape(totpIssuer))
}

// ValidateTOTP validates a TOTP code against a secret
func ValidateTOTP(secret, code string) bool {
	return totp.Validate(code, secret)
}
