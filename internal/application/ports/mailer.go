package ports

import "context"

// Attachment archivo adjunto en memoria.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Email mensaje saliente. HTML es obligatorio; Text es la alternativa en texto plano.
type Email struct {
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Mailer define el puerto de salida para el envío de correos.
// Los casos de uso tratan sus errores como advertencias: la operación principal ya quedó confirmada.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}
