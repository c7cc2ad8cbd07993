package util

import (
	"fmt"

	"bloggers-platform/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQClient(cfg *config.Config) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
	}, nil
}

// GetChannel returns the underlying channel
func (r *RabbitMQClient) GetChannel() *amqp.Channel {
	return r.channel
}

// IsClosed reports whether the connection has been lost
func (r *RabbitMQClient) IsClosed() bool {
	return r.conn == nil || r.conn.IsClosed()
}

// Publish sends a persistent message to an exchange
func (r *RabbitMQClient) Publish(exchange, routingKey string, body []byte) error {
	if r.channel == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}
	return r.channel.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Close closes the channel and connection
func (r *RabbitMQClient) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
