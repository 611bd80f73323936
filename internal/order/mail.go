package order

import (
	"fmt"
	"net/smtp"

	"github.com/easify/storefront-bridge/internal/config"
)

// SMTPMailer sends plain-text alert emails through a configured SMTP relay.
type SMTPMailer struct {
	cfg config.SMTP
}

// NewSMTPMailer builds the alert mailer, or a nil Mailer when no host is
// configured so callers can pass the result straight to NewExporter.
func NewSMTPMailer(cfg config.SMTP) Mailer {
	if cfg.Host == "" {
		return nil
	}
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one message. Auth is skipped when no username is set.
func (m *SMTPMailer) Send(subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, m.cfg.To, subject, body)

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{m.cfg.To}, []byte(msg))
}
