// Package broker connects to the notification broker. Topics are bound
// to a server-named exclusive queue on a topic exchange, so the set of
// subscribed topics can change while the consumer runs.
package broker

import (
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Config holds broker connection configuration
type Config struct {
	Host              string
	Port              int
	User              string
	Password          string
	VHost             string
	Exchange          string
	RetryAttempts     int
	RetryInterval     time.Duration
	Heartbeat         time.Duration
	ConnectionTimeout time.Duration
}

// Client represents a connection to the notification broker
type Client struct {
	config      *Config
	conn        *amqp.Connection
	channel     *amqp.Channel
	queueName   string
	logger      *slog.Logger
	closeChan   chan *amqp.Error
	isConnected bool
}

// NewClient connects to the broker and declares the exchange and the
// process-local consume queue.
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	client := &Client{
		config: config,
		logger: logger,
	}

	if err := client.connect(); err != nil {
		return nil, fmt.Errorf("failed to create broker client: %w", err)
	}

	return client, nil
}

// connect establishes the connection with retry logic
func (c *Client) connect() error {
	var err error

	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		c.config.User,
		c.config.Password,
		c.config.Host,
		c.config.Port,
		c.config.VHost,
	)

	amqpConfig := amqp.Config{
		Heartbeat: c.config.Heartbeat,
		Locale:    "en_US",
	}

	attempts := c.config.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		c.logger.Info("Connecting to broker",
			slog.String("host", c.config.Host),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
		)

		c.conn, err = amqp.DialConfig(dsn, amqpConfig)
		if err == nil {
			c.logger.Info("Successfully connected to broker")
			break
		}

		c.logger.Error("Failed to connect to broker",
			slog.Any("error", err),
			slog.Int("attempt", attempt),
		)

		if attempt < attempts {
			time.Sleep(c.config.RetryInterval)
		}
	}

	if err != nil {
		return fmt.Errorf("failed to connect to broker after %d attempts: %w", attempts, err)
	}

	c.channel, err = c.conn.Channel()
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to create channel: %w", err)
	}

	if err := c.setup(); err != nil {
		c.channel.Close()
		c.conn.Close()
		return fmt.Errorf("failed to setup exchange and queue: %w", err)
	}

	c.closeChan = make(chan *amqp.Error)
	c.channel.NotifyClose(c.closeChan)
	c.isConnected = true

	c.logger.Info("Broker client initialized",
		slog.String("exchange", c.config.Exchange),
		slog.String("queue", c.queueName),
	)

	return nil
}

// setup declares the topic exchange and a server-named exclusive queue.
// Topic bindings are added and removed later via Subscribe/Unsubscribe.
func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.config.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Exclusive auto-delete queue: notifications are fire-and-forget,
	// nothing survives this process.
	q, err := c.channel.QueueDeclare(
		"",    // name (server-generated)
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	c.queueName = q.Name
	return nil
}

// Subscribe binds the consume queue to a topic.
func (c *Client) Subscribe(topic string) error {
	if !c.isConnected {
		return fmt.Errorf("not connected to broker")
	}

	err := c.channel.QueueBind(
		c.queueName,       // queue name
		topic,             // routing key
		c.config.Exchange, // exchange
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to bind topic %q: %w", topic, err)
	}

	c.logger.Debug("Topic bound",
		slog.String("topic", topic),
		slog.String("queue", c.queueName),
	)

	return nil
}

// Unsubscribe removes a topic binding from the consume queue.
// Unbinding a topic that was never bound is not an error at the broker.
func (c *Client) Unsubscribe(topic string) error {
	if !c.isConnected {
		return fmt.Errorf("not connected to broker")
	}

	err := c.channel.QueueUnbind(
		c.queueName,       // queue name
		topic,             // routing key
		c.config.Exchange, // exchange
		nil,               // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to unbind topic %q: %w", topic, err)
	}

	c.logger.Debug("Topic unbound",
		slog.String("topic", topic),
		slog.String("queue", c.queueName),
	)

	return nil
}

// Consume starts delivering notifications. Deliveries are auto-acked:
// the pipeline is best-effort and never requeues a notification.
func (c *Client) Consume(consumerTag string) (<-chan amqp.Delivery, error) {
	if !c.isConnected {
		return nil, fmt.Errorf("not connected to broker")
	}

	messages, err := c.channel.Consume(
		c.queueName, // queue
		consumerTag, // consumer tag
		true,        // auto-ack
		true,        // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume messages: %w", err)
	}

	c.logger.Info("Started consuming notifications",
		slog.String("queue", c.queueName),
		slog.String("consumer_tag", consumerTag),
	)

	return messages, nil
}

// Close closes the broker connection
func (c *Client) Close() error {
	c.logger.Info("Closing broker connection")

	c.isConnected = false

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("Failed to close broker channel",
				slog.Any("error", err),
			)
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("Failed to close broker connection",
				slog.Any("error", err),
			)
			return err
		}
	}

	c.logger.Info("Broker connection closed successfully")
	return nil
}

// IsConnected returns the connection status
func (c *Client) IsConnected() bool {
	return c.isConnected && c.conn != nil && !c.conn.IsClosed()
}
