// Package mail delivers confirmation codes. Delivery is best-effort by
// contract: callers log a failed Send and carry on, so a dead SMTP relay never
// blocks signup.
package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/jordan-wright/email"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromAddress)
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes the message to the log instead of sending it. Used in
// development when no SMTP host is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(to, subject, body string) error {
	m.logger.Info("mail (not sent, no SMTP configured)",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
