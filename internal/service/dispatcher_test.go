package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/homework-tracker-api/internal/models"
	"github.com/noah-isme/homework-tracker-api/pkg/mailer"
)

type transportStub struct {
	err         error
	panicWith   interface{}
	sent        []mailer.Message
	hadDeadline bool
}

func (t *transportStub) Name() string { return "stub" }

func (t *transportStub) Send(ctx context.Context, msg mailer.Message) error {
	if t.panicWith != nil {
		panic(t.panicWith)
	}
	_, t.hadDeadline = ctx.Deadline()
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, msg)
	return nil
}

var sampleMessage = RenderedMessage{Subject: "Rappel", HTML: "<p>hi</p>", Text: "hi"}

func TestDispatcherSuccess(t *testing.T) {
	transport := &transportStub{}
	metrics := NewMetricsService()
	d := NewDispatcher(transport, DispatcherConfig{FromName: "Devoirs", FromAddress: "no-reply@example.com", SendTimeout: time.Second}, metrics, nil)

	outcome := d.Dispatch(context.Background(), models.NotificationKindReminder, "hw-1", "Alice <alice@example.com>", sampleMessage)
	require.True(t, outcome.Sent)
	require.NoError(t, outcome.Err)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "alice@example.com", transport.sent[0].To.Address)
	assert.Equal(t, "no-reply@example.com", transport.sent[0].From.Address)
	assert.Equal(t, "Devoirs", transport.sent[0].From.Name)
	assert.Equal(t, "Rappel", transport.sent[0].Subject)
	assert.True(t, transport.hadDeadline)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.notifications.WithLabelValues("reminder", "sent")))
}

func TestDispatcherCapturesTransportFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	transport := &transportStub{err: errors.New("550 mailbox unavailable")}
	metrics := NewMetricsService()
	d := NewDispatcher(transport, DispatcherConfig{FromAddress: "no-reply@example.com"}, metrics, zap.New(core))

	outcome := d.Dispatch(context.Background(), models.NotificationKindNewHomework, "hw-1", "bob@example.com", sampleMessage)
	assert.False(t, outcome.Sent)
	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "550 mailbox unavailable")
	assert.Equal(t, 1, logs.FilterMessage("notification delivery failed").Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.notifications.WithLabelValues("new_homework", "failed")))
}

func TestDispatcherRecoversTransportPanic(t *testing.T) {
	d := NewDispatcher(&transportStub{panicWith: "boom"}, DispatcherConfig{FromAddress: "no-reply@example.com"}, nil, nil)

	outcome := d.Dispatch(context.Background(), models.NotificationKindReminder, "hw-1", "bob@example.com", sampleMessage)
	assert.False(t, outcome.Sent)
	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "boom")
}

func TestDispatcherRejectsInvalidRecipient(t *testing.T) {
	transport := &transportStub{}
	d := NewDispatcher(transport, DispatcherConfig{FromAddress: "no-reply@example.com"}, nil, nil)

	outcome := d.Dispatch(context.Background(), models.NotificationKindReminder, "hw-1", "not an address", sampleMessage)
	assert.False(t, outcome.Sent)
	require.Error(t, outcome.Err)
	assert.Empty(t, transport.sent)
}

type blockingTransport struct{}

func (blockingTransport) Name() string { return "blocking" }

func (blockingTransport) Send(ctx context.Context, msg mailer.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestDispatcherTimesOutStalledTransport(t *testing.T) {
	d := NewDispatcher(blockingTransport{}, DispatcherConfig{FromAddress: "devoirs@example.com", SendTimeout: 20 * time.Millisecond}, nil, nil)

	start := time.Now()
	outcome := d.Dispatch(context.Background(), models.NotificationKindReminder, "hw-1", "slow@example.com", sampleMessage)

	assert.False(t, outcome.Sent)
	assert.ErrorIs(t, outcome.Err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
