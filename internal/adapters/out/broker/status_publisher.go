// Package broker publishes accepted order transitions to a Kafka topic.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"orderstate/internal/core/domain/services"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderStatusChangedEvent is the JSON payload of one message.
type OrderStatusChangedEvent struct {
	BusinessKey int       `json:"businessKey"`
	Event       string    `json:"event"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// StatusChangedPublisher is a persist-state listener that writes one message
// per accepted transition, keyed by business key so an order's events stay on
// one partition. The trace context of the request travels in the message headers.
type StatusChangedPublisher struct {
	writer MessageWriter
	now    func() time.Time
}

var _ services.PersistStateChangeListener = (*StatusChangedPublisher)(nil)

// NewStatusChangedPublisher wraps writer.
func NewStatusChangedPublisher(writer MessageWriter) *StatusChangedPublisher {
	return &StatusChangedPublisher{writer: writer, now: time.Now}
}

// NewWriter builds a writer for topic on brokers with hash balancing on the message key.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func (p *StatusChangedPublisher) OnPersist(ctx context.Context, change services.StateChange) error {
	payload, err := json.Marshal(OrderStatusChangedEvent{
		BusinessKey: change.Request.BusinessKey.Int(),
		Event:       change.Request.Event.Code(),
		From:        change.Transition.Source.Code(),
		To:          change.State.Code(),
		OccurredAt:  p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal order status changed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(change.Request.BusinessKey.Int())),
		Value: payload,
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg: &msg})

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order status changed event: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (p *StatusChangedPublisher) Close() error {
	return p.writer.Close()
}

// headerCarrier adapts kafka message headers to propagation.TextMapCarrier.
type headerCarrier struct {
	msg *kafka.Message
}

func (c headerCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range c.msg.Headers {
		if h.Key == key {
			c.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	c.msg.Headers = append(c.msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, len(c.msg.Headers))
	for i, h := range c.msg.Headers {
		keys[i] = h.Key
	}
	return keys
}
