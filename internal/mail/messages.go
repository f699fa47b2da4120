package mail

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// OTPMessage composes the email carrying a one-time passcode
func OTPMessage(to, code, purpose string, ttl time.Duration) Message {
	var subject, intro string
	switch purpose {
	case models.OTPPurposeForgotPassword:
		subject = "Your password reset code"
		intro = "Use this code to reset your password."
	default:
		subject = "Verify your email address"
		intro = "Use this code to verify your email address."
	}

	body := fmt.Sprintf("%s\n\nYour verification code is: %s\n\nThe code expires in %s. If you did not request it, you can ignore this email.\n",
		intro, code, formatTTL(ttl))

	return Message{To: to, Subject: subject, Body: body}
}

// CertAlertMessage composes the expiry-warning email for a gondola's
// soon-expiring documents
func CertAlertMessage(to string, gondola *models.Gondola, docs []*models.Document, today time.Time) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "The following certificates for gondola %s are expiring soon:\n\n", gondola.SerialNumber)

	for _, doc := range docs {
		if doc.Expiry == nil {
			continue
		}
		days := int(doc.Expiry.Sub(today).Hours() / 24)
		switch {
		case days <= 0:
			fmt.Fprintf(&b, "  - %s: expires today (%s)\n", doc.Title, doc.Expiry.Format("2006-01-02"))
		case days == 1:
			fmt.Fprintf(&b, "  - %s: expires in 1 day (%s)\n", doc.Title, doc.Expiry.Format("2006-01-02"))
		default:
			fmt.Fprintf(&b, "  - %s: expires in %d days (%s)\n", doc.Title, days, doc.Expiry.Format("2006-01-02"))
		}
	}

	b.WriteString("\nPlease arrange renewal before the expiry date.\n")

	return Message{
		To:      to,
		Subject: fmt.Sprintf("Certificate expiry alert: gondola %s", gondola.SerialNumber),
		Body:    b.String(),
	}
}

func formatTTL(ttl time.Duration) string {
	if ttl < time.Hour {
		m := int(ttl.Minutes())
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return ttl.String()
}
