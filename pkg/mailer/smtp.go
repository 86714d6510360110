package mailer

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const defaultSMTPTimeout = 15 * time.Second

// SMTPConfig holds relay coordinates and credentials.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPTransport sends through an SMTP relay, one connection per message.
// STARTTLS is used whenever the relay offers it.
type SMTPTransport struct {
	cfg SMTPConfig
	now func() time.Time
}

// NewSMTPTransport constructs the transport.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPTransport{cfg: cfg, now: time.Now}
}

// Name implements Transport.
func (t *SMTPTransport) Name() string { return "smtp" }

// Send implements Transport. The context deadline bounds the whole SMTP exchange.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m, err := buildMessage(msg, t.now())
	if err != nil {
		return err
	}

	timeout := defaultSMTPTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return fmt.Errorf("smtp send: %w", context.DeadlineExceeded)
		}
	}

	opts := []gomail.Option{
		gomail.WithPort(t.cfg.Port),
		gomail.WithTimeout(timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if t.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(t.cfg.Username),
			gomail.WithPassword(t.cfg.Password),
		)
	}
	client, err := gomail.NewClient(t.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer client.Close() //nolint:errcheck

	if err := client.Send(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To.Address, err)
	}
	return nil
}

// buildMessage renders msg as multipart/alternative with quoted-printable parts,
// so long single-line HTML paragraphs stay within the SMTP line limit.
func buildMessage(msg Message, now time.Time) (*gomail.Msg, error) {
	m := gomail.NewMsg(gomail.WithEncoding(gomail.EncodingQP), gomail.WithCharset(gomail.CharsetUTF8))
	if err := m.FromFormat(msg.From.Name, msg.From.Address); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.AddToFormat(msg.To.Name, msg.To.Address); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(now)
	m.SetMessageID()

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	default:
		m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
	}
	return m, nil
}
