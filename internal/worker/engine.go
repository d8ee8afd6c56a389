package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/messaging"
)

const maxBackoff = 30 * time.Second

// HandlerRegistration binds a topic to the handler processing it.
type HandlerRegistration struct {
	Topic   string
	Handler messaging.Handler
}

// Params collects dependencies via Fx.
type Params struct {
	fx.In

	Client        messaging.Client
	Logger        *zap.Logger
	Config        config.Config
	Registrations []HandlerRegistration `group:"worker.handlers"`
}

// Engine consumes order events with a fixed number of workers.
type Engine struct {
	client   messaging.Client
	logger   *zap.Logger
	messages config.Messaging
	handlers map[string]messaging.Handler
	backoff  time.Duration

	cancel context.CancelFunc
	done   chan error
}

// NewEngine constructs the worker Engine. Registrations without a topic or
// handler are ignored; a later registration for a topic replaces an earlier one.
func NewEngine(p Params) *Engine {
	handlers := make(map[string]messaging.Handler, len(p.Registrations))
	for _, r := range p.Registrations {
		if r.Topic == "" || r.Handler == nil {
			continue
		}
		handlers[r.Topic] = r.Handler
	}

	return &Engine{
		client:   p.Client,
		logger:   p.Logger,
		messages: p.Config.Messaging,
		handlers: handlers,
		backoff:  time.Second,
	}
}

// Module wires the engine into Fx lifecycle.
var Module = fx.Options(
	fx.Provide(NewEngine),
	fx.Invoke(func(lc fx.Lifecycle, engine *Engine) {
		lc.Append(fx.Hook{
			OnStart: engine.start,
			OnStop:  engine.stop,
		})
	}),
)

// Enabled reports whether messaging and workers are switched on and at least
// one handler is registered.
func (e *Engine) Enabled() bool {
	return e.messages.Enabled && e.messages.Workers.Enabled && len(e.handlers) > 0
}

// Run blocks until ctx ends or a worker fails permanently.
func (e *Engine) Run(ctx context.Context) error {
	concurrency := e.messages.Workers.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		workerID := i
		g.Go(func() error {
			return e.consumeLoop(gctx, workerID)
		})
	}

	e.logger.Info("worker engine started", zap.Int("workers", concurrency), zap.String("topic", e.client.Topic()))

	return g.Wait()
}

func (e *Engine) start(context.Context) error {
	if !e.Enabled() {
		e.logger.Info("worker engine disabled")

		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan error, 1)

	go func() {
		e.done <- e.Run(runCtx)
	}()

	return nil
}

func (e *Engine) stop(ctx context.Context) error {
	if e.cancel == nil {
		return nil
	}
	e.cancel()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-e.done:
		e.logger.Info("worker engine stopped")
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	}
}

func (e *Engine) dispatch(workerID int) messaging.Handler {
	return func(ctx context.Context, msg messaging.Message) error {
		handler, ok := e.handlers[msg.Topic]
		if !ok {
			e.logger.Warn("no handler for topic", zap.String("topic", msg.Topic))

			return nil
		}

		e.logger.Debug("processing message",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Int("worker", workerID),
		)

		return handler(ctx, msg)
	}
}

func (e *Engine) consumeLoop(ctx context.Context, workerID int) error {
	backoff := e.backoff
	for {
		err := e.client.Consume(ctx, e.dispatch(workerID))
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}

		e.logger.Error("consume loop error", zap.Int("worker", workerID), zap.Error(err))

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil
		}

		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}
