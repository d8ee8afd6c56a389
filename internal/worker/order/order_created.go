package order

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/messaging"
	ordersvc "github.com/Additional-Code/orderdesk/internal/service/order"
	"github.com/Additional-Code/orderdesk/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/orderdesk/worker/order")

// ErrInvalidEvent is returned for order-created payloads without an id.
var ErrInvalidEvent = errors.New("order created event without id")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderCreatedHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderCreatedHandler sets up a worker handler that records order creations.
func NewOrderCreatedHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handleOrderCreated(logger),
	}
}

func handleOrderCreated(logger *zap.Logger) messaging.Handler {
	return func(ctx context.Context, msg messaging.Message) error {
		_, span := workerTracer.Start(ctx, "worker.orders.created", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
			attribute.Int64("messaging.offset", msg.Offset),
		))
		defer span.End()

		var event ordersvc.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order created", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		if event.ID == uuid.Nil {
			span.SetStatus(codes.Error, "missing id")
			return ErrInvalidEvent
		}

		fields := []zap.Field{
			zap.Stringer("id", event.ID),
			zap.String("name", event.Name),
			zap.Time("entry_date", event.EntryDate),
		}
		if event.IsInvoiced != nil {
			fields = append(fields, zap.Bool("invoiced", *event.IsInvoiced))
		}
		logger.Info("order created event processed", fields...)

		return nil
	}
}
