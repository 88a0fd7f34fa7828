package services

import (
	"context"
	"fmt"

	"refstaff/internal/config"
	"refstaff/internal/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer delivers rendered emails over SMTP.
type Mailer interface {
	Send(ctx context.Context, email models.Email) error
	Configured() bool
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer returns a mailer for cfg. An incomplete configuration still
// yields a Mailer whose Send reports "SMTP not configured".
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Configured() bool {
	return m.cfg.Configured()
}

// Send dials the server for every message. gomail bounds the dial with a 10 second timeout.
func (m *smtpMailer) Send(ctx context.Context, email models.Email) error {
	if !m.Configured() {
		return notConfiguredError("SMTP not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.User)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		zap.L().Error("Failed to send email", zap.String("to", email.To), zap.String("subject", email.Subject), zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
