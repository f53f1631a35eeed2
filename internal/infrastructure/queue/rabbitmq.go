// Package queue transporte de jobs en segundo plano sobre RabbitMQ.
package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/SalesERP-api/pkg/config"
)

const (
	ExchangeName = "ex.jobs"
	QueueName    = "q.jobs"
	DLXName      = "ex.jobs.dlx" // Dead Letter Exchange
	DLQName      = "q.jobs.dlq"
	// BindingKey todas las routing keys job.<tipo>.
	BindingKey = "job.#"
)

// RabbitMQ conexión y canal compartidos por producer y consumer.
type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// NewRabbitMQ conecta, abre un canal y declara la topología.
func NewRabbitMQ(cfg config.RabbitMQConfig) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("queue: conectar RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("queue: abrir canal: %w", err)
	}
	if err := SetupTopology(ch); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

// Close cierra canal y conexión.
func (r *RabbitMQ) Close() error {
	_ = r.Ch.Close()
	return r.Conn.Close()
}

// Declarer subconjunto de *amqp.Channel usado para declarar la topología.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// SetupTopology declara exchange topic + cola durable, y DLX + DLQ para los mensajes rechazados.
// Es idempotente: redeclarar con los mismos argumentos no cambia nada.
func SetupTopology(ch Declarer) error {
	if err := ch.ExchangeDeclare(DLXName, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue: declarar %s: %w", DLXName, err)
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue: declarar %s: %w", DLQName, err)
	}
	if err := ch.QueueBind(DLQName, "#", DLXName, false, nil); err != nil {
		return fmt.Errorf("queue: bind %s: %w", DLQName, err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue: declarar %s: %w", ExchangeName, err)
	}
	args := amqp.Table{"x-dead-letter-exchange": DLXName}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, args); err != nil {
		return fmt.Errorf("queue: declarar %s: %w", QueueName, err)
	}
	if err := ch.QueueBind(QueueName, BindingKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("queue: bind %s: %w", QueueName, err)
	}
	return nil
}
