package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/homework-tracker-api/internal/models"
	"github.com/noah-isme/homework-tracker-api/pkg/mailer"
)

// DispatcherConfig carries the sender identity and the per-send timeout.
type DispatcherConfig struct {
	FromName    string
	FromAddress string
	SendTimeout time.Duration
}

// Dispatcher sends one rendered message to one recipient and reports the outcome.
// It never returns an error; failures are captured in the outcome.
type Dispatcher struct {
	transport mailer.Transport
	from      mail.Address
	timeout   time.Duration
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewDispatcher constructs a dispatcher over transport.
func NewDispatcher(transport mailer.Transport, cfg DispatcherConfig, metrics *MetricsService, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	return &Dispatcher{
		transport: transport,
		from:      mail.Address{Name: cfg.FromName, Address: cfg.FromAddress},
		timeout:   cfg.SendTimeout,
		metrics:   metrics,
		logger:    logger,
	}
}

// Dispatch delivers msg to recipient.
func (d *Dispatcher) Dispatch(ctx context.Context, kind models.NotificationKind, homeworkID, recipient string, msg RenderedMessage) (outcome models.DeliveryOutcome) {
	start := time.Now()
	outcome = models.DeliveryOutcome{HomeworkID: homeworkID, Recipient: recipient}

	defer func() {
		if r := recover(); r != nil {
			outcome.Sent = false
			outcome.Err = fmt.Errorf("transport panic: %v", r)
		}
		outcome.Duration = time.Since(start)
		d.metrics.RecordDelivery(kind, outcome)
		if outcome.Err != nil {
			d.logger.Warn("notification delivery failed",
				zap.String("kind", string(kind)),
				zap.String("homework_id", homeworkID),
				zap.String("recipient", recipient),
				zap.Error(outcome.Err),
			)
		}
	}()

	to, err := mail.ParseAddress(recipient)
	if err != nil {
		outcome.Err = fmt.Errorf("invalid recipient: %w", err)
		return outcome
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err = d.transport.Send(sendCtx, mailer.Message{
		From:     d.from,
		To:       *to,
		Subject:  msg.Subject,
		TextBody: msg.Text,
		HTMLBody: msg.HTML,
	})
	if err != nil {
		outcome.Err = fmt.Errorf("%s: %w", d.transport.Name(), err)
		return outcome
	}
	outcome.Sent = true
	return outcome
}
