// Package broker publishes domain events to Kafka.
//
// It is enabled when KAFKA_BROKERS is set; otherwise the application keeps
// its events in-process.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shashiranjanraj/foodhub/pkg/event"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/metrics"
)

var ErrClosed = errors.New("broker: publisher closed")

// Keyed payloads choose their partition key. Events for the same order
// share a key so consumers see them in order.
type Keyed interface {
	PartitionKey() string
}

// Message is what gets written to the topic.
type Message struct {
	Event      string          `json:"event"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// writer is the subset of *kafka.Writer the publisher uses.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config holds producer settings.
type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	MaxAttempts  int
}

// Publisher writes events synchronously to a single topic.
type Publisher struct {
	w      writer
	topic  string
	closed atomic.Bool
	now    func() time.Time
}

// NewKafkaPublisher builds a producer for cfg.Topic.
func NewKafkaPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("broker: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, errors.New("broker: topic is required")
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  cfg.MaxAttempts,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Warn(fmt.Sprintf("kafka: "+msg, args...))
		}),
	}

	return newPublisher(w, cfg.Topic), nil
}

func newPublisher(w writer, topic string) *Publisher {
	return &Publisher{w: w, topic: topic, now: time.Now}
}

// Publish encodes e and writes it, keyed by the payload's PartitionKey.
func (p *Publisher) Publish(ctx context.Context, e event.Event) error {
	if p.closed.Load() {
		return ErrClosed
	}

	data, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("broker: encode %s: %w", e.Name, err)
	}
	body, err := json.Marshal(Message{Event: e.Name, OccurredAt: p.now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("broker: encode envelope: %w", err)
	}

	msg := kafka.Message{
		Value:   body,
		Headers: []kafka.Header{{Key: "event", Value: []byte(e.Name)}},
	}
	if k, ok := e.Payload.(Keyed); ok {
		msg.Key = []byte(k.PartitionKey())
	}

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		metrics.EventsPublished.WithLabelValues(e.Name, "error").Inc()
		return fmt.Errorf("broker: publish %s to %s: %w", e.Name, p.topic, err)
	}
	metrics.EventsPublished.WithLabelValues(e.Name, "ok").Inc()
	return nil
}

// Listener adapts the publisher to an event.Handler so it can be attached
// to the bus.
func (p *Publisher) Listener() event.Handler {
	return func(ctx context.Context, e event.Event) error {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return p.Publish(ctx, e)
	}
}

// Close flushes pending writes. Safe to call more than once.
func (p *Publisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.w.Close()
}
