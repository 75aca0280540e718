// Package mailer delivers confirmation codes out-of-band.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer is the delivery channel for confirmation codes. The core only
// needs "send this code to this address"; transport is an implementation
// detail.
type Mailer interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
}

// SMTPMailer sends codes through a plain SMTP relay.
type SMTPMailer struct {
	addr   string
	sender string
}

func NewSMTPMailer(host string, port int, sender string) *SMTPMailer {
	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", host, port),
		sender: sender,
	}
}

func (m *SMTPMailer) SendConfirmationCode(ctx context.Context, email, code string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Confirmation code\r\n\r\nYour confirmation code: %s\r\n",
		m.sender, email, code)
	if err := smtp.SendMail(m.addr, nil, m.sender, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}
	return nil
}

// LogMailer writes the code to the log instead of sending mail. Used in
// development where no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendConfirmationCode(ctx context.Context, email, code string) error {
	m.logger.InfoContext(ctx, "confirmation code issued", "email", email, "code", code)
	return nil
}
