package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/hazard-notifier/internal/domain"
)

const (
	retryHeader = "x-retry-count"
	maxRetries  = 3

	dispatchTimeout = 2 * time.Minute
)

// Handler processes one hazard event.
type Handler interface {
	Handle(ctx context.Context, event domain.HazardEvent) (domain.DispatchSummary, error)
}

type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Config struct {
	URL           string
	Queue         string
	DeadLetter    string
	PrefetchCount int
}

// Consumer reads hazard events from RabbitMQ and hands them to a Handler.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	pub     publisher
	handler Handler
	queue   string
	log     *slog.Logger
}

func NewConsumer(cfg Config, handler Handler, log *slog.Logger) (*Consumer, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declare(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Consumer{conn: conn, channel: ch, pub: ch, handler: handler, queue: cfg.Queue, log: log}, nil
}

// declare sets QoS and declares the durable queue, whose rejected messages
// are routed to the dead-letter queue through the default exchange.
func declare(ch *amqp.Channel, cfg Config) error {
	if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.DeadLetter, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dlq: %w", err)
	}
	_, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.DeadLetter,
	})
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	return nil
}

// Run consumes until ctx is cancelled or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}
	c.log.Info("queue consumer started", "queue", c.queue)
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, msg)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handle acks every message whose event was handed to the Handler, whatever
// the dispatch outcome. Undecodable bodies are retried, then dead-lettered.
func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery) {
	var event domain.HazardEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.retryOrDeadLetter(msg, fmt.Errorf("decode hazard: %w", err))
		return
	}

	// Shutdown must not abort a dispatch whose message is acked afterwards.
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()
	summary, err := c.handler.Handle(runCtx, event)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		c.log.Info("duplicate hazard acked", "hazard_id", event.ID)
	case err != nil:
		c.log.Error("hazard handling failed", "hazard_id", event.ID, "err", err)
	default:
		c.log.Info("hazard dispatched from queue",
			"hazard_id", event.ID,
			"dispatch_id", summary.DispatchID,
			"outcome", summary.Outcome,
			"sent", summary.TotalSent,
			"failed", summary.TotalFailed,
		)
	}
	if err := msg.Ack(false); err != nil {
		c.log.Error("ack failed", "err", err)
	}
}

func (c *Consumer) retryOrDeadLetter(msg amqp.Delivery, cause error) {
	retries := retryCount(msg.Headers)
	if retries >= maxRetries {
		c.log.Error("message dead-lettered", "retries", retries, "err", cause)
		if err := msg.Nack(false, false); err != nil {
			c.log.Error("nack failed", "err", err)
		}
		return
	}

	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[retryHeader] = int32(retries + 1)
	err := c.pub.Publish("", c.queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        msg.Body,
		Headers:     headers,
	})
	if err != nil {
		// Let the broker redeliver the original instead.
		c.log.Error("requeue failed", "err", err)
		_ = msg.Nack(false, true)
		return
	}
	c.log.Warn("message requeued", "retry", retries+1, "err", cause)
	_ = msg.Ack(false)
}

func retryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func (c *Consumer) Close() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}
