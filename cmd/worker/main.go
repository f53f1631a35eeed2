// worker publica los jobs periódicos en RabbitMQ y los consume.
//
// Uso:
//
//	go run ./cmd/worker              scheduler + consumer
//	go run ./cmd/worker -run=backup  ejecuta un job una vez y termina
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/SalesERP-api/internal/application/jobs"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/mail"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/postgres"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/queue"
	"github.com/jhoicas/SalesERP-api/pkg/config"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

func main() {
	runOnce := flag.String("run", "", "ejecuta un job (daily_report, reminders, cleanup, backup) y termina")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "worker"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	runner := jobs.NewRunner(
		postgres.NewStore(pool),
		postgres.NewAnalyticsRepository(pool),
		mail.New(cfg.SMTP, log),
		jobs.Config{
			UploadDir:     cfg.Storage.UploadDir,
			BackupDir:     cfg.Storage.BackupDir,
			RetentionDays: cfg.Storage.RetentionDays,
		},
		log,
	)

	if *runOnce != "" {
		if err := runner.Handle(ctx, jobs.Job{Type: jobs.Type(*runOnce), ScheduledAt: time.Now()}); err != nil {
			log.Error().Err(err).Msg("job falló")
			os.Exit(1)
		}
		return
	}

	mq, err := queue.NewRabbitMQ(cfg.RabbitMQ)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a RabbitMQ")
	}
	defer mq.Close()

	// Publicar y consumir en canales separados: Qos y confirmaciones no se mezclan.
	pubCh, err := mq.Conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("canal de publicación")
	}
	defer pubCh.Close()

	scheduler := jobs.NewScheduler(queue.NewProducer(pubCh), jobs.ScheduleConfig{
		ReportHour:       cfg.Scheduler.ReportHour,
		ReminderInterval: cfg.Scheduler.ReminderInterval,
		CleanupInterval:  cfg.Scheduler.CleanupInterval,
		BackupInterval:   cfg.Scheduler.BackupInterval,
	}, log)
	consumer := queue.NewConsumer(mq.Ch, runner, log)

	log.Info().Str("queue", queue.QueueName).Msg("worker iniciado")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return scheduler.Run(gctx) })
	g.Go(func() error { return consumer.Run(gctx) })
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("worker finalizado con error")
		os.Exit(1)
	}
	log.Info().Msg("worker detenido")
}
