package mailer

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends payout notification emails. Configured entirely from the
// environment; NewSMTPMailer fails when SMTP_HOST is unset so the caller can
// fall back to a no-op notifier.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(from string) (*SMTPMailer, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, errors.New("SMTP_HOST not set")
	}

	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.New("invalid SMTP_PORT")
		}
		port = v
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD")),
		from:   from,
	}, nil
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}
