package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/fuelquota-platform/fuelquota/internal/config"
)

// SMTPSender sends plain-text email over SMTP with STARTTLS auth. It is the
// must-succeed channel for OTP delivery: callers roll back issuance when
// Send fails.
type SMTPSender struct {
	addr    string
	auth    smtp.Auth
	from    string
	subject string
}

func NewSMTPSender(cfg config.NotifyConfig, subject string) *SMTPSender {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return &SMTPSender{
		addr:    fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth:    auth,
		from:    cfg.EmailFrom,
		subject: subject,
	}
}

func (s *SMTPSender) Send(ctx context.Context, destination, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", destination)
	fmt.Fprintf(&b, "Subject: %s\r\n", s.subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(message)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{destination}, []byte(b.String())); err != nil {
		return fmt.Errorf("sending email to %s: %w", destination, err)
	}
	return nil
}
