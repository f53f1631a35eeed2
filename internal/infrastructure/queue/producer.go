package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/SalesERP-api/internal/application/jobs"
)

// Publisher lo que el producer necesita de *amqp.Channel.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Producer publica jobs en el exchange principal.
type Producer struct {
	ch Publisher
}

func NewProducer(ch Publisher) *Producer {
	return &Producer{ch: ch}
}

// RoutingKey job.<tipo>.
func RoutingKey(t jobs.Type) string {
	return "job." + string(t)
}

// Publish serializa el job y lo publica persistente.
func (p *Producer) Publish(ctx context.Context, job jobs.Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: serializar job: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, ExchangeName, RoutingKey(job.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		Type:         string(job.Type),
		Timestamp:    job.ScheduledAt,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("queue: publicar %s: %w", job.Type, err)
	}
	return nil
}
