// Package mailer provides the mail transports notifications are sent through.
package mailer

import (
	"context"
	"fmt"
	"net/mail"

	"go.uber.org/zap"

	"github.com/noah-isme/homework-tracker-api/pkg/config"
)

// Message is a single rendered email addressed to one recipient.
type Message struct {
	From     mail.Address
	To       mail.Address
	Subject  string
	TextBody string
	HTMLBody string
}

// Transport delivers messages to an external relay. Send must return once
// ctx is done; the dispatcher relies on it to bound each delivery.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// New builds the transport selected by cfg.Transport.
func New(cfg config.MailConfig, logger *zap.Logger) (Transport, error) {
	switch cfg.Transport {
	case config.MailTransportSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("smtp transport requires SMTP_HOST")
		}
		return NewSMTPTransport(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		}), nil
	case config.MailTransportSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid transport requires SENDGRID_API_KEY")
		}
		return NewSendGridTransport(cfg.SendGridAPIKey, cfg.SendGridHost), nil
	case config.MailTransportConsole, "":
		return NewConsoleTransport(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}
