package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"bloghub/internal/config"
)

// Mailer delivers outbound email. Implementations are invoked from the event
// subscriber only; delivery failures never reach the HTTP layer.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	addr     string
	from     string
	username string
	password string
	host     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     cfg.MailFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		host:     cfg.SMTPHost,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer stands in for SMTP in development; it logs instead of sending.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("mail delivery skipped (no SMTP host configured)",
		"to", to, "subject", subject)
	return nil
}

// NewFromConfig picks SMTP when a host is configured, otherwise the logger.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg)
}
