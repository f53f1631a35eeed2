package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/application/jobs"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

type fakeChannel struct {
	exchanges map[string]string
	queues    map[string]amqp.Table
	bindings  []string
	published []amqp.Publishing
	keys      []string
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{exchanges: map[string]string{}, queues: map[string]amqp.Table{}}
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	f.exchanges[name] = kind
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
	f.queues[name] = args
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	f.bindings = append(f.bindings, exchange+"->"+name+":"+key)
	return nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func TestSetupTopology_DeclaraDLQ(t *testing.T) {
	ch := newFakeChannel()
	require.NoError(t, SetupTopology(ch))

	assert.Equal(t, "topic", ch.exchanges[ExchangeName])
	assert.Equal(t, DLXName, ch.queues[QueueName]["x-dead-letter-exchange"])
	assert.Contains(t, ch.bindings, ExchangeName+"->"+QueueName+":"+BindingKey)
	assert.Contains(t, ch.bindings, DLXName+"->"+DLQName+":#")
}

func TestProducer_PublicaPersistente(t *testing.T) {
	ch := newFakeChannel()
	at := time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC)
	require.NoError(t, NewProducer(ch).Publish(context.Background(), jobs.Job{Type: jobs.DailyReport, ScheduledAt: at}))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "job.daily_report", ch.keys[0])
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

	var got jobs.Job
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &got))
	assert.Equal(t, jobs.DailyReport, got.Type)
	assert.True(t, at.Equal(got.ScheduledAt))
}

type fakeAck struct{ acked, nacked, requeue bool }

func (a *fakeAck) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}
func (a *fakeAck) Reject(uint64, bool) error { return nil }

type handlerFunc func(context.Context, jobs.Job) error

func (f handlerFunc) Handle(ctx context.Context, j jobs.Job) error { return f(ctx, j) }

func delivery(ack *fakeAck, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestProcess_AckSiTerminaBien(t *testing.T) {
	ack := &fakeAck{}
	var got jobs.Type
	Process(context.Background(), delivery(ack, `{"type":"cleanup"}`), handlerFunc(func(_ context.Context, j jobs.Job) error {
		got = j.Type
		return nil
	}), logger.Nop())

	assert.True(t, ack.acked)
	assert.Equal(t, jobs.Cleanup, got)
}

func TestProcess_NackSinRequeue(t *testing.T) {
	for name, body := range map[string]string{"json inválido": `{`, "handler falla": `{"type":"backup"}`} {
		t.Run(name, func(t *testing.T) {
			ack := &fakeAck{}
			Process(context.Background(), delivery(ack, body), handlerFunc(func(context.Context, jobs.Job) error {
				return errors.New("disco lleno")
			}), logger.Nop())
			assert.True(t, ack.nacked)
			assert.False(t, ack.requeue)
			assert.False(t, ack.acked)
		})
	}
}
