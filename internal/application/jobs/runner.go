// Package jobs tareas programadas que el worker ejecuta al recibir un mensaje de la cola.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/application/ports"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// Type tipo de job; también es la routing key del mensaje.
type Type string

const (
	DailyReport Type = "daily_report"
	Reminders   Type = "reminders"
	Cleanup     Type = "cleanup"
	Backup      Type = "backup"
)

// Types todos los jobs conocidos, en el orden en que se declaran en la cola.
var Types = []Type{DailyReport, Reminders, Cleanup, Backup}

// Job mensaje publicado por el scheduler.
type Job struct {
	Type        Type      `json:"type"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Config rutas y retención de los jobs de archivos.
type Config struct {
	UploadDir     string
	BackupDir     string
	RetentionDays int
}

// Runner ejecuta cada job recorriendo empresa por empresa.
type Runner struct {
	store     repository.Store
	analytics repository.AnalyticsRepository
	mailer    ports.Mailer
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// NewRunner construye el runner.
func NewRunner(store repository.Store, analytics repository.AnalyticsRepository, mailer ports.Mailer, cfg Config, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}
	return &Runner{store: store, analytics: analytics, mailer: mailer, cfg: cfg, log: log, now: time.Now}
}

// WithClock fija el reloj (tests).
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Handle despacha por tipo. Un tipo desconocido es error: el consumer lo manda a la DLQ.
func (r *Runner) Handle(ctx context.Context, job Job) error {
	start := r.now()
	var err error
	switch job.Type {
	case DailyReport:
		err = r.DailyReport(ctx)
	case Reminders:
		err = r.Reminders(ctx)
	case Cleanup:
		_, err = r.Cleanup(ctx)
	case Backup:
		_, err = r.Backup(ctx)
	default:
		return fmt.Errorf("jobs: tipo desconocido %q", job.Type)
	}
	if err != nil {
		return fmt.Errorf("jobs: %s: %w", job.Type, err)
	}
	r.log.Info().Str("job", string(job.Type)).Dur("duration", r.now().Sub(start)).Msg("job completado")
	return nil
}

// send envía un correo y solo registra el fallo: un destinatario caído no frena al resto.
func (r *Runner) send(ctx context.Context, companyID string, e ports.Email) bool {
	if err := r.mailer.Send(ctx, e); err != nil {
		r.log.Warn().Err(err).Str("company_id", companyID).Strs("to", e.To).Msg("correo de job no enviado")
		return false
	}
	return true
}
