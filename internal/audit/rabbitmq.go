package audit

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeName = "hearth.audit"

// AMQPPublisher publishes audit events to a RabbitMQ topic exchange,
// routed by event type ("token.issued", "delegation.denied", ...).
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPPublisher connects to the broker and declares the audit
// exchange.
func NewAMQPPublisher(uri string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e *Event) error {
	body, err := e.ToJSON()
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx,
		exchangeName,
		string(e.Type), // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   e.ID,
			Timestamp:   time.UnixMilli(e.Timestamp),
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
