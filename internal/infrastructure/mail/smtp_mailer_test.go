package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/SalesERP-api/internal/application/ports"
	"github.com/jhoicas/SalesERP-api/pkg/config"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

type captured struct {
	from string
	to   []string
	raw  string
}

func capture(c *captured, fail error) gomail.SendFunc {
	return func(from string, to []string, msg io.WriterTo) error {
		if fail != nil {
			return fail
		}
		var buf bytes.Buffer
		if _, err := msg.WriteTo(&buf); err != nil {
			return err
		}
		c.from, c.to, c.raw = from, to, buf.String()
		return nil
	}
}

func TestSMTPMailer_ArmaMensajeConAdjunto(t *testing.T) {
	var got captured
	m := NewSMTPMailerWithSender("ventas@acme.test", capture(&got, nil))

	err := m.Send(context.Background(), ports.Email{
		To:      []string{"cliente@example.com"},
		Subject: "Cotización QT-1",
		HTML:    "<p>Adjunto</p>",
		Text:    "Adjunto",
		Attachments: []ports.Attachment{{
			Filename: "cotizacion_QT-1.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4"),
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "ventas@acme.test", got.from)
	assert.Equal(t, []string{"cliente@example.com"}, got.to)
	assert.Contains(t, got.raw, "cotizacion_QT-1.pdf")
	assert.Contains(t, got.raw, "application/pdf")
	assert.Contains(t, got.raw, "text/html")
}

func TestSMTPMailer_SinDestinatarios(t *testing.T) {
	m := NewSMTPMailerWithSender("x@acme.test", capture(&captured{}, nil))
	assert.Error(t, m.Send(context.Background(), ports.Email{Subject: "x", HTML: "x"}))
}

func TestSMTPMailer_PropagaErrorSMTP(t *testing.T) {
	boom := errors.New("550 rejected")
	m := NewSMTPMailerWithSender("x@acme.test", capture(&captured{}, boom))
	err := m.Send(context.Background(), ports.Email{To: []string{"a@b.c"}, HTML: "x"})
	assert.ErrorIs(t, err, boom)
}

func TestNew_SinSMTPUsaLog(t *testing.T) {
	var buf bytes.Buffer
	m := New(config.SMTPConfig{}, logger.FromWriter(&buf))
	require.IsType(t, &LogMailer{}, m)
	require.NoError(t, m.Send(context.Background(), ports.Email{To: []string{"a@b.c"}, Subject: "Hola"}))
	assert.Contains(t, buf.String(), "Hola")
}
