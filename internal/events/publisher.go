// Package events publishes import job status changes to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
)

// JobEvent is the message sent when a job reaches a terminal status.
type JobEvent struct {
	JobID      string              `json:"job_id"`
	FileName   string              `json:"file_name"`
	Status     constants.JobStatus `json:"status"`
	Total      int64               `json:"total_records"`
	Failed     int64               `json:"failed_records"`
	ReportPath string              `json:"report_path,omitempty"`
	Error      string              `json:"error,omitempty"`
	At         time.Time           `json:"at"`
}

// Publisher delivers job events.
type Publisher interface {
	Publish(ctx context.Context, ev JobEvent) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, JobEvent) error { return nil }
func (NopPublisher) Close() error { return nil }

// New returns a RabbitMQ publisher, or a NopPublisher when no URL is set.
func New(cfg common.EventsConfig, logger *slog.Logger) (Publisher, error) {
	if cfg.RabbitMQURL == "" {
		return NopPublisher{}, nil
	}
	return NewRabbitMQ(cfg.RabbitMQURL, cfg.Queue, logger)
}

// RabbitMQ publishes to a durable queue on the default exchange.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

func NewRabbitMQ(url, queue string, logger *slog.Logger) (*RabbitMQ, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, common.Unavailable(fmt.Errorf("connect to rabbitmq: %w", err))
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	logger.Info("events.rabbitmq.connected", "queue", q.Name)
	return &RabbitMQ{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, ev JobEvent) error {
	body, err := Encode(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.JobID,
			Timestamp:    ev.At,
			Type:         string(ev.Status),
			Body:         body,
		},
	)
	if err != nil {
		r.logger.Error("events.publish.failed", "job_id", ev.JobID, "err", err)
		return fmt.Errorf("publish job event: %w", err)
	}
	r.logger.Debug("events.publish.ok", "job_id", ev.JobID, "status", ev.Status)
	return nil
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		_ = r.conn.Close()
		return err
	}
	return r.conn.Close()
}

// Encode renders ev as the message body.
func Encode(ev JobEvent) ([]byte, error) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal job event: %w", err)
	}
	return b, nil
}
