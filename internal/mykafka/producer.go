package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUsers  = "user_events"
	TopicOrders = "order_events"
	TopicMenu   = "menu_events"

	writeTimeout = 5 * time.Second
)

// Event is the envelope of every message on the three topics.
type Event struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Data       map[string]string `json:"data"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event Event) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(address []string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(address...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
	}
	return &Producer{writer: w}
}

// NewPublisher returns a kafka producer, or a no-op publisher when no brokers are configured.
func NewPublisher(brokers []string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewProducer(brokers)
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, Event) error { return nil }
func (NopPublisher) Close() error                                            { return nil }

// Message is one event captured by a Recorder.
type Message struct {
	Topic string
	Key   string
	Event Event
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) PublishEvent(_ context.Context, topic, key string, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Types lists the event types published to topic, in order.
func (r *Recorder) Types(topic string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.Messages {
		if m.Topic == topic {
			out = append(out, m.Event.Type)
		}
	}
	return out
}

var (
	_ Publisher = (*Producer)(nil)
	_ Publisher = NopPublisher{}
	_ Publisher = (*Recorder)(nil)
)
