package communication

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQ struct {
	connection *amqp.Connection
	channel    *amqp.Channel
}

// NewRabbitMQ constructor for RabbitMQ. This function returns a RabbitMQ
// with connections already established.
func NewRabbitMQ(url string) (*RabbitMQ, error) {
	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("error opening RabbitMQ channel: %w", err)
	}

	return &RabbitMQ{
		connection: connection,
		channel:    channel,
	}, nil
}

// DeclareExchanges declare exchanges based on the slice of configs
func (r *RabbitMQ) DeclareExchanges(exchangesConfig []ExchangeDeclarationConfig) error {
	for idx := range exchangesConfig {
		exchangeName := exchangesConfig[idx].Name
		err := r.channel.ExchangeDeclare(
			exchangeName,
			exchangesConfig[idx].Type,
			exchangesConfig[idx].Durable,
			exchangesConfig[idx].AutoDeleted,
			exchangesConfig[idx].Internal,
			exchangesConfig[idx].NoWait,
			nil,
		)

		if err != nil {
			return fmt.Errorf("error declaring exchange %s: %w", exchangeName, err)
		}
	}
	return nil
}

// PublishMessageInExchange publish a message in a given exchange with a given routing key
func (r *RabbitMQ) PublishMessageInExchange(ctx context.Context, exchange string, routingKey string, message []byte, contentType string) error {
	return r.channel.PublishWithContext(ctx,
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  contentType,
			Body:         message,
		},
	)
}

// KillBadBunny close RabbitMQ's connection and channel
func (r *RabbitMQ) KillBadBunny() error {
	err := r.channel.Close()
	if err != nil {
		return fmt.Errorf("error closing RabbitMQ channel: %w", err)
	}

	err = r.connection.Close()
	if err != nil {
		return fmt.Errorf("error closing RabbitMQ connection: %w", err)
	}

	return nil
}
