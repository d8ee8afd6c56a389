package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/config"
)

type fakeReader struct {
	queue     []kafka.Message
	fetchErrs []error
	committed []int64
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.fetchErrs) > 0 {
		err := f.fetchErrs[0]
		f.fetchErrs = f.fetchErrs[1:]
		return kafka.Message{}, err
	}
	if len(f.queue) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func TestConsumeCommitsOnlyHandledMessages(t *testing.T) {
	reader := &fakeReader{
		fetchErrs: []error{errors.New("broker unavailable")},
		queue: []kafka.Message{
			{Topic: "orders.events", Offset: 1, Value: []byte("ok"), Headers: []kafka.Header{{Key: "content-type", Value: []byte(ContentTypeJSON)}}},
			{Topic: "orders.events", Offset: 2, Value: []byte("fail")},
			{Topic: "orders.events", Offset: 3, Value: []byte("ok")},
		},
	}
	client := &kafkaClient{reader: reader, topic: "orders.events", logger: zap.NewNop(), retryDelay: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []Message
	err := client.Consume(ctx, func(_ context.Context, msg Message) error {
		seen = append(seen, msg)
		if string(msg.Value) == "fail" {
			return errors.New("handler failed")
		}
		if len(seen) == 3 {
			cancel()
		}
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, seen, 3)
	assert.Equal(t, ContentTypeJSON, seen[0].Headers["content-type"])
	assert.Nil(t, seen[1].Headers)
	assert.Equal(t, []int64{1, 3}, reader.committed)
}

func TestNewClientNoop(t *testing.T) {
	client, err := NewClient(fxtest.NewLifecycle(t), config.Config{
		Messaging: config.Messaging{Enabled: false, Kafka: config.Kafka{Topic: "orders.events"}},
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "orders.events", client.Topic())
	require.NoError(t, client.Publish(context.Background(), nil, []byte("x")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, client.Consume(ctx, nil), context.Canceled)
}

func TestNewClientUnsupportedDriver(t *testing.T) {
	_, err := NewClient(fxtest.NewLifecycle(t), config.Config{
		Messaging: config.Messaging{Enabled: true, Driver: "nats"},
	}, zap.NewNop())
	require.Error(t, err)
}
