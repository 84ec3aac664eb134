package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishWritesEnvelope(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w, topic: "uploads", source: "catalogue-service"}

	err := p.Publish(context.Background(), "upload.processed", map[string]interface{}{"upload_id": 3})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	var event Event
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &event))
	assert.Equal(t, "upload.processed", event.Type)
	assert.Equal(t, "catalogue-service", event.Source)
	assert.Equal(t, event.ID, string(w.messages[0].Key))
	assert.EqualValues(t, 3, event.Data["upload_id"])
	assert.Equal(t, "event-type", w.messages[0].Headers[0].Key)
}

func TestPublishReturnsWriterError(t *testing.T) {
	p := &Producer{writer: &recordingWriter{err: errors.New("broker down")}, source: "test"}

	err := p.Publish(context.Background(), "upload.processed", nil)
	assert.EqualError(t, err, "broker down")
}
