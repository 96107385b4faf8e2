package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"FeedbackPulse/internal/domain"
	"FeedbackPulse/internal/ports"
)

// alertMessage is the wire shape of one critical-feedback event.
type alertMessage struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Score       int       `json:"score"`
	Urgency     string    `json:"urgency"`
	CreatedAt   time.Time `json:"created_at"`
}

// Config captures the broker connection shared by publisher and consumer.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Publisher writes critical-feedback events to the alert topic.
type Publisher struct {
	writer *kafka.Writer
}

var _ ports.AlertPublisher = (*Publisher)(nil)

// NewPublisher builds a synchronous writer; the ingestion pipeline wants a
// definitive publish outcome so it can log failures.
func NewPublisher(cfg Config) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

// PublishCritical enqueues one alert event keyed by feedback id.
func (p *Publisher) PublishCritical(ctx context.Context, feedback domain.Feedback) error {
	payload, err := json.Marshal(alertMessage{
		ID:          feedback.ID,
		Description: feedback.Description,
		Score:       feedback.Score.Value(),
		Urgency:     string(feedback.Urgency),
		CreatedAt:   feedback.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(feedback.ID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("write alert message: %w", err)
	}
	return nil
}

// Close flushes and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// AlertHandler is the consumer-side use case invoked per dequeued event.
type AlertHandler interface {
	NotifyAdmin(ctx context.Context, feedback domain.Feedback) error
}

// Consumer reads the alert topic in a group and hands each event to the
// handler. Delivery is at-least-once: messages are committed only after the
// handler succeeds, so failed deliveries are redelivered by the broker.
type Consumer struct {
	reader       *kafka.Reader
	handler      AlertHandler
	logger       *slog.Logger
	retryInitial time.Duration
	retryMax     time.Duration
}

// NewConsumer builds the group reader for the alert topic.
func NewConsumer(cfg Config, handler AlertHandler, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.GroupID,
			Topic:    cfg.Topic,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  500 * time.Millisecond,
		}),
		handler:      handler,
		logger:       logger.With("component", "alert-consumer"),
		retryInitial: time.Second,
		retryMax:     time.Minute,
	}
}

// Run consumes until the context is canceled. Undecodable messages are
// logged and committed so a poison message cannot wedge the partition.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch alert message: %w", err)
		}

		feedback, err := decodeAlert(msg.Value)
		if err != nil {
			c.logger.Error("dropping undecodable alert message",
				"offset", msg.Offset, "error", err)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("commit poison message: %w", err)
			}
			continue
		}

		if err := c.deliverWithRetry(ctx, feedback); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit alert message: %w", err)
		}
	}
}

// deliverWithRetry keeps retrying the same alert until delivery succeeds or
// the context ends. Group commits are positional: committing any later offset
// would mark this one consumed too, so the loop must not advance past an
// undelivered alert.
func (c *Consumer) deliverWithRetry(ctx context.Context, feedback domain.Feedback) error {
	delay := c.retryInitial
	for {
		err := c.handler.NotifyAdmin(ctx, feedback)
		if err == nil {
			return nil
		}

		c.logger.Error("alert delivery failed, retrying",
			"feedback_id", feedback.ID, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.retryMax {
			delay = c.retryMax
		}
	}
}

// Close releases the reader and its group membership.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

func decodeAlert(payload []byte) (domain.Feedback, error) {
	var msg alertMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return domain.Feedback{}, fmt.Errorf("unmarshal alert: %w", err)
	}

	feedback, err := domain.RehydrateFeedback(msg.ID, msg.Description, msg.Score, msg.Urgency, msg.CreatedAt)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("rehydrate alert feedback: %w", err)
	}
	return feedback, nil
}
