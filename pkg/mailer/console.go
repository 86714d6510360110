package mailer

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleTransport logs messages instead of sending them. Used in development.
type ConsoleTransport struct {
	logger *zap.Logger
}

// NewConsoleTransport constructs the transport.
func NewConsoleTransport(logger *zap.Logger) *ConsoleTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleTransport{logger: logger}
}

// Name implements Transport.
func (t *ConsoleTransport) Name() string { return "console" }

// Send implements Transport.
func (t *ConsoleTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.logger.Info("email",
		zap.String("from", msg.From.String()),
		zap.String("to", msg.To.String()),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTMLBody)),
	)
	t.logger.Debug("email body", zap.String("to", msg.To.Address), zap.String("text", msg.TextBody))
	return nil
}
