package mykafka

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/foodhub/pkg/logging"
)

type Handler func(ctx context.Context, ev Event) error

type Consumer struct {
	Reader  *kafka.Reader
	Handler Handler
}

func NewConsumer(brokers []string, groupID, topic string, h Handler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	})
	return &Consumer{Reader: r, Handler: h}
}

// Start reads until ctx is cancelled. Undecodable messages are logged and skipped.
func (c *Consumer) Start(ctx context.Context) error {
	l := logging.FromContext(ctx).With("consumer", c.Reader.Config().Topic)
	l.Info("consumer_started")
	for {
		msg, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				l.Info("consumer_stopped")
				return nil
			}
			l.Error("consumer_read_failed", "error", err)
			return err
		}
		c.Process(ctx, msg)
	}
}

func (c *Consumer) Process(ctx context.Context, msg kafka.Message) {
	l := logging.FromContext(ctx).With("topic", msg.Topic, "offset", msg.Offset)
	var ev Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		l.Warn("consumer_decode_failed", "error", err)
		return
	}
	if err := c.Handler(ctx, ev); err != nil {
		l.Error("consumer_handle_failed", "type", ev.Type, "error", err)
	}
}

func (c *Consumer) Close() error {
	return c.Reader.Close()
}
