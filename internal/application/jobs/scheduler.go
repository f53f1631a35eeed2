package jobs

import (
	"context"
	"time"

	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// Publisher encola un job (RabbitMQ en producción).
type Publisher interface {
	Publish(ctx context.Context, job Job) error
}

// ScheduleConfig frecuencias del scheduler. Un intervalo <= 0 desactiva ese job.
type ScheduleConfig struct {
	ReportHour       int
	ReminderInterval time.Duration
	CleanupInterval  time.Duration
	BackupInterval   time.Duration
}

// Scheduler publica los jobs periódicos; no los ejecuta.
type Scheduler struct {
	pub Publisher
	cfg ScheduleConfig
	log *logger.Logger
	now func() time.Time
}

func NewScheduler(pub Publisher, cfg ScheduleConfig, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.ReportHour < 0 || cfg.ReportHour > 23 {
		cfg.ReportHour = 7
	}
	return &Scheduler{pub: pub, cfg: cfg, log: log, now: time.Now}
}

// NextReport próxima ejecución del reporte diario estrictamente después de now.
func NextReport(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run bloquea hasta que ctx termina.
func (s *Scheduler) Run(ctx context.Context) error {
	reminders := s.ticker(s.cfg.ReminderInterval)
	cleanup := s.ticker(s.cfg.CleanupInterval)
	backup := s.ticker(s.cfg.BackupInterval)
	defer func() {
		for _, t := range []*time.Ticker{reminders, cleanup, backup} {
			if t != nil {
				t.Stop()
			}
		}
	}()

	report := time.NewTimer(NextReport(s.now(), s.cfg.ReportHour).Sub(s.now()))
	defer report.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-report.C:
			s.publish(ctx, DailyReport)
			report.Reset(NextReport(s.now(), s.cfg.ReportHour).Sub(s.now()))
		case <-tickC(reminders):
			s.publish(ctx, Reminders)
		case <-tickC(cleanup):
			s.publish(ctx, Cleanup)
		case <-tickC(backup):
			s.publish(ctx, Backup)
		}
	}
}

func (s *Scheduler) publish(ctx context.Context, t Type) {
	job := Job{Type: t, ScheduledAt: s.now()}
	if err := s.pub.Publish(ctx, job); err != nil {
		s.log.Error().Err(err).Str("job", string(t)).Msg("no se pudo encolar el job")
		return
	}
	s.log.Debug().Str("job", string(t)).Msg("job encolado")
}

func (s *Scheduler) ticker(d time.Duration) *time.Ticker {
	if d <= 0 {
		return nil
	}
	return time.NewTicker(d)
}

// tickC canal del ticker; nil bloquea para siempre en el select.
func tickC(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
