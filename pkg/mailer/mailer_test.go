package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/homework-tracker-api/pkg/config"
)

func testMessage(to string) Message {
	return Message{
		From:     mail.Address{Name: "Rappel de Devoirs", Address: "devoirs@school.test"},
		To:       mail.Address{Address: to},
		Subject:  "⚠️ Rappel : Essai - 2 jours restant",
		TextBody: "Essai",
		HTMLBody: "<h2>Essai</h2>",
	}
}

func renderMessage(t *testing.T, msg Message) string {
	t.Helper()
	m, err := buildMessage(msg, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestBuildMessage(t *testing.T) {
	s := renderMessage(t, testMessage("eleve@school.test"))

	assert.Contains(t, s, "<eleve@school.test>")
	assert.Contains(t, s, "multipart/alternative")
	assert.Contains(t, s, "text/html")
	assert.Contains(t, s, "Content-Transfer-Encoding: quoted-printable")
	assert.Contains(t, s, "<h2>Essai</h2>")
	assert.NotContains(t, s, "Rappel : Essai", "subject must be header-encoded")
}

func TestBuildMessageWrapsLongParagraph(t *testing.T) {
	msg := testMessage("eleve@school.test")
	paragraph := strings.Repeat("Réviser le chapitre sur les fractions. ", 60)
	require.Greater(t, len(paragraph), 2000)
	msg.HTMLBody = "<p>" + paragraph + "</p>"
	msg.TextBody = paragraph

	s := renderMessage(t, msg)
	for _, line := range strings.Split(s, "\n") {
		assert.LessOrEqual(t, len(line), 998, "line exceeds the SMTP limit")
	}
	assert.Contains(t, s, "Content-Transfer-Encoding: quoted-printable")
}

func TestBuildMessageRejectsInvalidRecipient(t *testing.T) {
	_, err := buildMessage(testMessage("not an address"), time.Now())
	assert.ErrorContains(t, err, "invalid recipient")
}

func TestNewSelectsTransport(t *testing.T) {
	tr, err := New(config.MailConfig{Transport: config.MailTransportConsole}, nil)
	require.NoError(t, err)
	assert.Equal(t, "console", tr.Name())

	_, err = New(config.MailConfig{Transport: config.MailTransportSendGrid}, nil)
	assert.Error(t, err)

	tr, err = New(config.MailConfig{Transport: config.MailTransportSMTP, SMTPHost: "smtp.test"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "smtp", tr.Name())

	_, err = New(config.MailConfig{Transport: "pigeon"}, nil)
	assert.Error(t, err)
}

func TestSendGridTransport(t *testing.T) {
	var gotAuth string
	var payload struct {
		Personalizations []struct {
			To []struct {
				Email string `json:"email"`
			} `json:"to"`
			Subject string `json:"subject"`
		} `json:"personalizations"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != sendGridEndpoint {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload.Personalizations[0].To[0].Email == "bounce@school.test" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"message":"invalid"}]}`))
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	tr := NewSendGridTransport("sg-key", srv.URL)
	require.NoError(t, tr.Send(context.Background(), testMessage("eleve@school.test")))
	assert.Equal(t, "Bearer sg-key", gotAuth)
	assert.Equal(t, "eleve@school.test", payload.Personalizations[0].To[0].Email)

	err := tr.Send(context.Background(), testMessage("bounce@school.test"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestConsoleTransport(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tr := NewConsoleTransport(zap.New(core))

	require.NoError(t, tr.Send(context.Background(), testMessage("eleve@school.test")))
	require.Equal(t, 1, logs.FilterMessage("email").Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tr.Send(ctx, testMessage("eleve@school.test")), context.Canceled)
}

// fakeSMTP accepts a single session and rejects recipients starting with "reject".
func fakeSMTP(t *testing.T) (host string, port int, received chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	received = make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		tp := textproto.NewConn(conn)
		defer tp.Close()
		_ = tp.PrintfLine("220 fake ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				_ = tp.PrintfLine("250 fake")
			case strings.HasPrefix(cmd, "MAIL FROM"):
				_ = tp.PrintfLine("250 OK")
			case strings.HasPrefix(cmd, "RCPT TO:<REJECT"):
				_ = tp.PrintfLine("550 no such user")
			case strings.HasPrefix(cmd, "RCPT TO"):
				_ = tp.PrintfLine("250 OK")
			case cmd == "RSET", cmd == "NOOP":
				_ = tp.PrintfLine("250 OK")
			case cmd == "DATA":
				_ = tp.PrintfLine("354 go ahead")
				data, _ := tp.ReadDotBytes()
				received <- string(data)
				_ = tp.PrintfLine("250 queued")
			case cmd == "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port, received
}

func TestSMTPTransportSend(t *testing.T) {
	host, port, received := fakeSMTP(t)
	tr := NewSMTPTransport(SMTPConfig{Host: host, Port: port})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, tr.Send(ctx, testMessage("eleve@school.test")))

	select {
	case data := <-received:
		assert.Contains(t, data, "<eleve@school.test>")
		assert.Contains(t, data, "Content-Transfer-Encoding: quoted-printable")
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}

func TestSMTPTransportRecipientRejected(t *testing.T) {
	host, port, _ := fakeSMTP(t)
	tr := NewSMTPTransport(SMTPConfig{Host: host, Port: port})

	err := tr.Send(context.Background(), testMessage("reject@school.test"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp send to reject@school.test")
}

func TestSMTPTransportDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	tr := NewSMTPTransport(SMTPConfig{Host: "127.0.0.1", Port: port})
	err = tr.Send(context.Background(), testMessage("eleve@school.test"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial 127.0.0.1:"+strconv.Itoa(port))
}
