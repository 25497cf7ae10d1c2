package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestProducer_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := newProducerWithWriter(fw, discard())

	event := NewEvent("todoapp.user.registered", "todoapp", map[string]any{"user_id": int64(1)})
	err := p.Publish(context.Background(), "todoapp.user.registered", "1", event)
	require.NoError(t, err)

	require.Len(t, fw.messages, 1)
	msg := fw.messages[0]
	assert.Equal(t, "todoapp.user.registered", msg.Topic)
	assert.Equal(t, []byte("1"), msg.Key)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "todoapp.user.registered", decoded.Type)
	assert.NotEmpty(t, decoded.ID)
	assert.False(t, decoded.Timestamp.IsZero())
}

func TestProducer_PublishError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker unavailable")}
	p := newProducerWithWriter(fw, discard())

	event := NewEvent("todoapp.todo.created", "todoapp", nil)
	err := p.Publish(context.Background(), "todoapp.todo.created", "1", event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "todoapp.todo.created")
}

func TestProducer_Close(t *testing.T) {
	fw := &fakeWriter{}
	p := newProducerWithWriter(fw, discard())

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}
