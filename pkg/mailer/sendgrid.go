package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGridTransport sends through the SendGrid v3 API.
type SendGridTransport struct {
	key  string
	host string
}

// NewSendGridTransport constructs the transport. An empty host targets the public API.
func NewSendGridTransport(key, host string) *SendGridTransport {
	if host == "" {
		host = "https://api.sendgrid.com"
	}
	return &SendGridTransport{key: key, host: host}
}

// Name implements Transport.
func (t *SendGridTransport) Name() string { return "sendgrid" }

// Send implements Transport.
func (t *SendGridTransport) Send(ctx context.Context, msg Message) error {
	req := sendgrid.GetRequest(t.key, sendGridEndpoint, t.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(t.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (t *SendGridTransport) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))
	p.Subject = msg.Subject

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(msg.From.Name, msg.From.Address))
	m.AddPersonalizations(p)
	if msg.TextBody != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextBody))
	}
	if msg.HTMLBody != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	}
	return m
}
