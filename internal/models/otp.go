package models

import "time"

// OTP purposes
const (
	OTPPurposeSignup         = "SIGNUP"
	OTPPurposeForgotPassword = "FORGOT_PASSWORD"
)

// OTP represents a one-time passcode emailed to a user
type OTP struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Code      string    `json:"-"` // Never expose the code in JSON
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
