// Package mail implementa ports.Mailer sobre SMTP (gomail) y un mailer de log para entornos sin SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/SalesERP-api/internal/application/ports"
	"github.com/jhoicas/SalesERP-api/pkg/config"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

var (
	_ ports.Mailer = (*SMTPMailer)(nil)
	_ ports.Mailer = (*LogMailer)(nil)
)

// SMTPMailer envía con gomail. Cada Send abre y cierra su propia conexión.
type SMTPMailer struct {
	from string
	send func(msgs ...*gomail.Message) error
}

// NewSMTPMailer construye el mailer contra el servidor configurado.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &SMTPMailer{from: cfg.From, send: d.DialAndSend}
}

// NewSMTPMailerWithSender usa un gomail.Sender ya abierto (tests o conexiones persistentes).
func NewSMTPMailerWithSender(from string, s gomail.Sender) *SMTPMailer {
	return &SMTPMailer{from: from, send: func(msgs ...*gomail.Message) error { return gomail.Send(s, msgs...) }}
}

// Send valida destinatarios, arma el MIME y lo entrega.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return errors.New("mail: sin destinatarios")
	}
	if err := m.send(m.build(msg)); err != nil {
		return fmt.Errorf("mail: enviar SMTP: %w", err)
	}
	return nil
}

func (m *SMTPMailer) build(msg ports.Email) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	} else {
		gm.SetBody("text/html", msg.HTML)
	}
	for _, a := range msg.Attachments {
		content := a.Content
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		gm.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {ct}}),
		)
	}
	return gm
}

// LogMailer no envía nada: registra el correo. Se usa cuando SMTP no está configurado.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg ports.Email) error {
	m.log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Int("attachments", len(msg.Attachments)).
		Msg("mail: SMTP deshabilitado, correo no enviado")
	return nil
}

// New elige SMTP o log según la configuración.
func New(cfg config.SMTPConfig, log *logger.Logger) ports.Mailer {
	if !cfg.Enabled() {
		log.Warn().Msg("mail: SMTP_HOST vacío, los correos solo se registran en el log")
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg)
}
