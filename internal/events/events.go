// Package events publishes order lifecycle events to RabbitMQ. A nil
// *Publisher is valid and publishes nothing, which is how the bot runs when
// no broker is configured.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

// Event types, also used as routing keys.
const (
	OrderCreated = "order.created"
	OrderPaid    = "order.paid"
)

// Event is the JSON body of a published message.
type Event struct {
	Type     string           `json:"type"`
	OrderID  int64            `json:"order_id"`
	Status   string           `json:"status"`
	Total    decimal.Decimal  `json:"total"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Currency string           `json:"currency"`
	At       time.Time        `json:"at"`
}

// Publisher owns one connection and channel to the broker.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// Dial connects and declares a durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends one event, routed by its type.
func (p *Publisher) Publish(ctx context.Context, e Event) error {
	if p == nil {
		return nil
	}
	msg, err := message(e)
	if err != nil {
		return err
	}
	if err := p.channel.PublishWithContext(ctx,
		p.exchange,
		e.Type,
		false, // mandatory
		false, // immediate
		msg,
	); err != nil {
		return fmt.Errorf("publishing %s: %w", e.Type, err)
	}
	return nil
}

// Close releases the channel and the connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		p.channel.Close()
	}
	return p.conn.Close()
}

func message(e Event) (amqp.Publishing, error) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	body, err := json.Marshal(e)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encoding event: %w", err)
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.At,
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Type:         e.Type,
		Body:         body,
	}, nil
}
