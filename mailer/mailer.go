package mailer

import (
	"errors"
	"net/smtp"
	"os"
	"strings"
)

// Send delivers one message to all recipients at once, not one mail per
// address. SMTP settings come from the environment; a missing host means
// mail is disabled (common in local development).
func Send(to []string, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return errors.New("SMTP_HOST not configured")
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@example.com"
	}
	pass := os.Getenv("SMTP_PASS")

	msg := BuildMessage(from, to, subject, body)

	auth := smtp.PlainAuth("", from, pass, host)
	return smtp.SendMail(host+":"+port, auth, from, to, msg)
}

// BuildMessage assembles the raw RFC 822 payload.
func BuildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
