package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/tanwk/gondotrack/internal/config"
)

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages. Handlers and services depend on this interface
// so tests can substitute a recording fake.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers messages over SMTP
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender creates a sender from SMTP configuration
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

// Send delivers a single message. No retries; a transient SMTP failure is
// surfaced to the caller immediately.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
