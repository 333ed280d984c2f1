// Package mailer sends account emails. Delivery is best-effort: callers log
// and swallow errors so registration never fails on a mail outage.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
)

// Sender delivers account emails.
type Sender interface {
	SendConfirmation(ctx context.Context, to, username, confirmURL string) error
}

// SMTPConfig holds connection settings for the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail over authenticated SMTP.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a Sender backed by the configured SMTP server.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// SendConfirmation sends the email-confirmation message with the signed
// confirmation link.
func (s *SMTPSender) SendConfirmation(ctx context.Context, to, username, confirmURL string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirm your email\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n"+
			"Hi %s,\r\n\r\nPlease confirm your email address by opening the link below:\r\n\r\n%s\r\n",
		s.cfg.From, to, username, confirmURL,
	)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send confirmation mail: %w", err)
	}

	return nil
}

// Noop discards all mail. Used when SMTP is not configured and in tests.
type Noop struct{}

// SendConfirmation implements Sender.
func (Noop) SendConfirmation(ctx context.Context, to, username, confirmURL string) error {
	return nil
}
