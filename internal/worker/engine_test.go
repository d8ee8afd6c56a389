package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/messaging"
)

type scriptedClient struct {
	mu       sync.Mutex
	messages []messaging.Message
	failures int
	calls    int
}

func (s *scriptedClient) Publish(context.Context, []byte, []byte) error { return nil }

func (s *scriptedClient) Topic() string { return "orders.events" }

func (s *scriptedClient) Consume(ctx context.Context, handler messaging.Handler) error {
	s.mu.Lock()
	s.calls++
	if s.failures > 0 {
		s.failures--
		s.mu.Unlock()
		return errors.New("broker down")
	}
	pending := s.messages
	s.messages = nil
	s.mu.Unlock()

	for _, msg := range pending {
		_ = handler(ctx, msg)
	}
	<-ctx.Done()
	return ctx.Err()
}

func enabledConfig(concurrency int) config.Config {
	return config.Config{Messaging: config.Messaging{
		Enabled: true,
		Workers: config.Worker{Enabled: true, Concurrency: concurrency},
	}}
}

func TestEngineDispatchesByTopic(t *testing.T) {
	client := &scriptedClient{
		failures: 1,
		messages: []messaging.Message{
			{Topic: "orders.events", Value: []byte("a")},
			{Topic: "unknown", Value: []byte("b")},
		},
	}

	handled := make(chan messaging.Message, 2)
	engine := NewEngine(Params{
		Client: client,
		Logger: zap.NewNop(),
		Config: enabledConfig(1),
		Registrations: []HandlerRegistration{
			{Topic: "orders.events", Handler: func(_ context.Context, msg messaging.Message) error {
				handled <- msg
				return nil
			}},
			{Topic: "", Handler: nil},
		},
	})
	engine.backoff = time.Millisecond
	require.True(t, engine.Enabled())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	select {
	case msg := <-handled:
		assert.Equal(t, "a", string(msg.Value))
	case <-time.After(2 * time.Second):
		t.Fatal("message was not handled")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Len(t, handled, 0)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 2, client.calls)
}

func TestEngineDisabled(t *testing.T) {
	cfg := enabledConfig(2)
	cfg.Messaging.Workers.Enabled = false

	engine := NewEngine(Params{Client: &scriptedClient{}, Logger: zap.NewNop(), Config: cfg})
	assert.False(t, engine.Enabled())
	require.NoError(t, engine.start(context.Background()))
	require.NoError(t, engine.stop(context.Background()))
}
