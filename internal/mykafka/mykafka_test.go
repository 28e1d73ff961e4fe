package mykafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_NoBrokersIsNop(t *testing.T) {
	p := NewPublisher(nil)
	_, ok := p.(NopPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.PublishEvent(context.Background(), TopicOrders, "k", Event{Type: "x"}))
	assert.NoError(t, p.Close())
}

func TestRecorder_Types(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	require.NoError(t, r.PublishEvent(ctx, TopicOrders, "1", Event{Type: "order_placed"}))
	require.NoError(t, r.PublishEvent(ctx, TopicMenu, "1", Event{Type: "menu_item_created"}))
	require.NoError(t, r.PublishEvent(ctx, TopicOrders, "1", Event{Type: "order_status_changed"}))

	assert.Equal(t, []string{"order_placed", "order_status_changed"}, r.Types(TopicOrders))
}

func TestConsumer_Process(t *testing.T) {
	var got []Event
	c := &Consumer{Handler: func(_ context.Context, ev Event) error {
		got = append(got, ev)
		return nil
	}}

	raw, err := json.Marshal(Event{Type: "order_status_changed", Data: map[string]string{"status": "ready"}})
	require.NoError(t, err)

	c.Process(context.Background(), kafka.Message{Topic: TopicOrders, Value: raw})
	c.Process(context.Background(), kafka.Message{Topic: TopicOrders, Value: []byte("not json")})

	require.Len(t, got, 1)
	assert.Equal(t, "ready", got[0].Data["status"])
}
