package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
)

// channel é o pedaço do *amqp.Channel que o Publisher usa.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher envia eventos de domínio para um exchange topic; a routing key é a ação
// (ex.: queue.started), então consumidores assinam só o que interessa.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	acks     <-chan amqp.Confirmation
	exchange string

	// publisher confirms exigem publicação serializada
	mu sync.Mutex
}

func Dial(url, exchange string) (*Publisher, error) {
	const op = "broker.Dial"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: declare exchange: %w", op, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: confirm mode: %w", op, err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &Publisher{conn: conn, ch: ch, acks: acks, exchange: exchange}, nil
}

func (p *Publisher) Name() string { return "rabbitmq" }

func (p *Publisher) Handle(ctx context.Context, ev audit.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, p.exchange, ev.Action, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    ev.ID,
		Timestamp:    time.Now().UTC(),
		Headers: amqp.Table{
			"barbershop_id": int64(ev.BarbershopID),
			"entity":        ev.Entity,
		},
		Body: body,
	}); err != nil {
		return err
	}

	select {
	case conf, ok := <-p.acks:
		if !ok {
			return errors.New("broker: confirm channel closed")
		}
		if !conf.Ack {
			return errors.New("broker: publish NACK")
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ping indica se a conexão segue aberta.
func (p *Publisher) Ping() error {
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

var _ audit.Sink = (*Publisher)(nil)
