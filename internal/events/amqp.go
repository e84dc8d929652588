package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPNotifier publishes category changes to a topic exchange.
type AMQPNotifier struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	routingKey   string
}

func NewAMQPNotifier(url, exchangeName, routingKey string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		routingKey:   routingKey,
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		n.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return n, nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, msg *CategoryChangedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = n.channel.PublishWithContext(
		ctx,
		n.exchangeName, // exchange
		n.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		publishing(body, msg.Op),
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "Published category change",
		"op", msg.Op,
		"category_id", msg.ID,
		"exchange", n.exchangeName,
		"routing_key", n.routingKey)
	return nil
}

func publishing(body []byte, op string) amqp091.Publishing {
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Type:         op,
		Timestamp:    time.Now(),
		Body:         body,
	}
}

func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
