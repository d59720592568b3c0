package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"productos/internal/models"

	amqp "github.com/streadway/amqp"
)

// QueueName is the durable queue carrying producto change events.
const QueueName = "producto_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("RabbitMQ client connected", "queue", QueueName)

	return &Client{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func declare(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		QueueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", QueueName, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Encode marshals event into the message published on the queue.
func Encode(event models.ProductoEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal producto event: %w", err)
	}
	timestamp := event.OccurredAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    timestamp,
	}, nil
}

// Decode parses a delivery body back into an event.
func Decode(msg amqp.Delivery) (models.ProductoEvent, error) {
	var event models.ProductoEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return models.ProductoEvent{}, fmt.Errorf("failed to decode producto event: %w", err)
	}
	return event, nil
}

// PublishProductoEvent publishes event to the producto_events queue.
func (c *Client) PublishProductoEvent(event models.ProductoEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	msg, err := Encode(event)
	if err != nil {
		return err
	}

	c.mu.Lock()
	err = c.channel.Publish(
		"",        // default exchange
		QueueName, // routing key
		false,     // mandatory
		false,     // immediate
		msg,
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("sent producto event", "type", event.Type, "id", event.ProductoID)
	return nil
}

// ConsumeProductoEvents starts a goroutine that hands each event to handler.
// Messages are acked on success; undecodable messages are dropped and
// handler failures are requeued.
func (c *Client) ConsumeProductoEvents(handler func(models.ProductoEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		QueueName, // queue
		"",        // consumer tag
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for producto events", "queue", QueueName)

	go func() {
		for msg := range msgs {
			c.handle(msg, handler)
		}
	}()

	return nil
}

func (c *Client) handle(msg amqp.Delivery, handler func(models.ProductoEvent) error) {
	event, err := Decode(msg)
	if err != nil {
		c.logger.Warn("dropping malformed message", "tag", msg.DeliveryTag, "error", err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error("error nacking message", "tag", msg.DeliveryTag, "error", nackErr)
		}
		return
	}
	if err := handler(event); err != nil {
		c.logger.Error("error processing message", "tag", msg.DeliveryTag, "error", err)
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.logger.Error("error nacking message", "tag", msg.DeliveryTag, "error", nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error("error acking message", "tag", msg.DeliveryTag, "error", ackErr)
	}
}
