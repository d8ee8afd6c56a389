package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/orderdesk/internal/database"
	"github.com/Additional-Code/orderdesk/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/orderdesk/repository/order")

// Repository encapsulates read/write access for orders in a SQL database.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Add persists a new order using the write connection.
func (r *Repository) Add(ctx context.Context, order *entity.Order) (uuid.UUID, error) {
	if err := prepare(order); err != nil {
		return uuid.Nil, storeErr("add", err)
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Add", trace.WithAttributes(attribute.String("order.id", order.ID.String())))
	defer span.End()

	order.EntryDate = order.EntryDate.UTC()
	if _, err := r.writer.NewInsert().Model(order).Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return uuid.Nil, storeErr("add", err)
	}
	return order.ID, nil
}

// Recent lists live orders younger than RecentWindow, newest first.
func (r *Repository) Recent(ctx context.Context, now time.Time) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Recent")
	defer span.End()

	orders := make([]entity.Order, 0)
	err := r.reader.NewSelect().
		Model(&orders).
		Where("is_deleted = ?", false).
		Where("entry_date > ?", now.Add(-RecentWindow).UTC()).
		OrderExpr("entry_date DESC").
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, storeErr("recent", err)
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

// WithinCutoff lists live orders entered at or after cutoff, newest first.
func (r *Repository) WithinCutoff(ctx context.Context, cutoff time.Time) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.WithinCutoff", trace.WithAttributes(attribute.String("orders.cutoff", cutoff.UTC().Format(time.RFC3339))))
	defer span.End()

	orders := make([]entity.Order, 0)
	err := r.reader.NewSelect().
		Model(&orders).
		Where("is_deleted = ?", false).
		Where("entry_date >= ?", cutoff.UTC()).
		OrderExpr("entry_date DESC").
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, storeErr("within cutoff", err)
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

// Get fetches a live order by id using the read replica when available.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Get", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().
		Model(order).
		Where("id = ?", id).
		Where("is_deleted = ?", false).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, storeErr("get", err)
	}
	return order, nil
}

// Count returns the number of stored orders, deleted ones included.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Count")
	defer span.End()

	n, err := r.reader.NewSelect().Model((*entity.Order)(nil)).Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return 0, storeErr("count", err)
	}
	return n, nil
}
