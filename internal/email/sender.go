package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/config"
)

// Status reports the outcome of one send attempt. Lifecycle endpoints embed
// it in their response; a failed send never fails the lifecycle transition.
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Sender interface {
	Send(to, subject, body, htmlBody string) *Status
}

func NewSender(cfg *config.EmailConfig, logger *logrus.Logger) Sender {
	switch cfg.Provider {
	case "smtp":
		return &smtpSender{cfg: cfg, logger: logger}
	default:
		return &mockSender{cfg: cfg, logger: logger}
	}
}

type smtpSender struct {
	cfg    *config.EmailConfig
	logger *logrus.Logger
}

func (s *smtpSender) Send(to, subject, body, htmlBody string) *Status {
	if s.cfg.SMTP.User == "" || s.cfg.SMTP.Password == "" {
		return &Status{
			Success: false,
			Message: "SMTP credentials not configured",
		}
	}

	msg := buildMessage(s.cfg.FromName, s.cfg.FromEmail, to, subject, body, htmlBody)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTP.Host, s.cfg.SMTP.Port)
	auth := smtp.PlainAuth("", s.cfg.SMTP.User, s.cfg.SMTP.Password, s.cfg.SMTP.Host)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		s.logger.WithError(err).WithField("to", to).Error("Failed to send email via SMTP")
		return &Status{
			Success: false,
			Message: fmt.Sprintf("SMTP error: %v", err),
		}
	}

	return &Status{
		Success: true,
		Message: fmt.Sprintf("Email sent successfully via SMTP to %s", to),
	}
}

const mimeBoundary = "satisfy-mime-boundary"

// buildMessage assembles a multipart/alternative message with a plain-text
// part and an optional HTML part.
func buildMessage(fromName, fromEmail, to, subject, body, htmlBody string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if htmlBody == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(body)
		return b.String()
	}

	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", mimeBoundary, body)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", mimeBoundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)

	return b.String()
}

// mockSender logs the message instead of delivering it. Default in
// development so lifecycle flows work without an SMTP account.
type mockSender struct {
	cfg    *config.EmailConfig
	logger *logrus.Logger
}

func (s *mockSender) Send(to, subject, body, htmlBody string) *Status {
	s.logger.WithFields(logrus.Fields{
		"to":      to,
		"from":    fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail),
		"subject": subject,
		"body":    body,
	}).Info("Email sent (mock mode)")

	return &Status{
		Success: true,
		Message: "Email logged to console (mock mode)",
	}
}
