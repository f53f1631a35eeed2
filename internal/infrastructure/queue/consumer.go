package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/SalesERP-api/internal/application/jobs"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// Handler procesa un job; un error manda el mensaje a la DLQ.
type Handler interface {
	Handle(ctx context.Context, job jobs.Job) error
}

// Consumer lee de QueueName con ack manual.
type Consumer struct {
	ch      *amqp.Channel
	handler Handler
	log     *logger.Logger
}

func NewConsumer(ch *amqp.Channel, handler Handler, log *logger.Logger) *Consumer {
	return &Consumer{ch: ch, handler: handler, log: log}
}

// Run consume hasta que ctx se cancela o el canal se cierra. Procesa de a un mensaje.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("queue: qos: %w", err)
	}
	msgs, err := c.ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue: registrar consumidor: %w", err)
	}
	c.log.Info().Str("queue", QueueName).Msg("worker: esperando jobs")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("queue: canal de entregas cerrado")
			}
			Process(ctx, d, c.handler, c.log)
		}
	}
}

// Process decodifica y ejecuta una entrega. Ack si el handler termina bien;
// Nack sin requeue (va a la DLQ) si el JSON es inválido o el handler falla.
func Process(ctx context.Context, d amqp.Delivery, h Handler, log *logger.Logger) {
	var job jobs.Job
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Error().Err(err).Str("routing_key", d.RoutingKey).Msg("worker: mensaje inválido")
		_ = d.Nack(false, false)
		return
	}
	if err := h.Handle(ctx, job); err != nil {
		log.Error().Err(err).Str("job", string(job.Type)).Msg("worker: job falló")
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
