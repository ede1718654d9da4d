package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// RabbitMQPublisher implementa Publisher sobre RabbitMQ
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQPublisher conecta no broker e declara as filas de pedidos
func NewRabbitMQPublisher(url string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p := &RabbitMQPublisher{conn: conn, channel: channel}

	for _, queue := range []string{OrderCreatedQueue, OrderStatusChangedQueue} {
		if err := p.declareQueue(queue); err != nil {
			p.Close()
			return nil, err
		}
	}

	logrus.Info("✅ Connected to RabbitMQ")
	return p, nil
}

func (p *RabbitMQPublisher) declareQueue(name string) error {
	_, err := p.channel.QueueDeclare(
		name,  // queue name
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}
	return nil
}

func (p *RabbitMQPublisher) publish(ctx context.Context, queue string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key (queue name)
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// PublishOrderCreated publica um evento order.created
func (p *RabbitMQPublisher) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	return p.publish(ctx, OrderCreatedQueue, event)
}

// PublishOrderStatusChanged publica um evento order.status_changed
func (p *RabbitMQPublisher) PublishOrderStatusChanged(ctx context.Context, event OrderStatusChangedEvent) error {
	return p.publish(ctx, OrderStatusChangedQueue, event)
}

// Close encerra a conexão com o broker
func (p *RabbitMQPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
