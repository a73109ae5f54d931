package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEncodesValues(t *testing.T) {
	w := &memWriter{}
	p := NewProducerWithWriter(w, "gzip")

	require.NoError(t, p.PublishBatch(context.Background(), "rankings", []Message{
		{Key: []byte("a"), Value: []byte("raw")},
		{Key: []byte("b"), Value: "text"},
		{Key: []byte("c"), Value: map[string]int{"n": 1}, Headers: map[string]string{"type": "ranking"}},
	}))

	require.Len(t, w.msgs, 3)
	assert.Equal(t, "raw", string(w.msgs[0].Value))
	assert.Equal(t, "text", string(w.msgs[1].Value))
	assert.JSONEq(t, `{"n":1}`, string(w.msgs[2].Value))
	assert.Equal(t, "rankings", w.msgs[2].Topic)
	require.Len(t, w.msgs[2].Headers, 1)
	assert.Equal(t, "type", w.msgs[2].Headers[0].Key)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEmptyBatchIsNoop(t *testing.T) {
	w := &memWriter{err: errors.New("must not be called")}
	p := NewProducerWithWriter(w, "gzip")
	assert.NoError(t, p.PublishBatch(context.Background(), "rankings", nil))
}

func TestPublishWrapsWriterError(t *testing.T) {
	cause := errors.New("broker down")
	p := NewProducerWithWriter(&memWriter{err: cause}, "gzip")
	err := p.PublishBatch(context.Background(), "rankings", []Message{{Value: "x"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestPublishRejectsUnencodable(t *testing.T) {
	p := NewProducerWithWriter(&memWriter{}, "gzip")
	err := p.PublishBatch(context.Background(), "rankings", []Message{{Value: make(chan int)}})
	assert.Error(t, err)
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}
