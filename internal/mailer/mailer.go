// Package mailer sends best-effort notification email over SMTP.
package mailer

import (
	"os"
	"strconv"

	// Load env
	_ "github.com/joho/godotenv/autoload"
	gomail "gopkg.in/gomail.v2"
)

// Sender delivers a single plain-text message. Delivery failure must never
// fail the operation that triggered the notification; callers log and move on.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender is a Sender backed by an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSenderFromEnv builds an SMTPSender from SMTP_HOST, SMTP_PORT,
// SMTP_USERNAME, SMTP_PASSWORD, and SMTP_FROM. It returns nil when no host
// is configured, which disables notifications entirely.
func NewSMTPSenderFromEnv() *SMTPSender {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port <= 0 {
		port = 587
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}

	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD")),
		from:   from,
	}
}

// Send delivers a plain-text message to a single recipient.
func (s *SMTPSender) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return s.dialer.DialAndSend(msg)
}
