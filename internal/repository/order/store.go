package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Additional-Code/orderdesk/internal/entity"
)

// RecentWindow is the rolling age limit for recent orders.
const RecentWindow = 24 * time.Hour

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// ErrDuplicateID is returned when an order id is already taken.
var ErrDuplicateID = errors.New("order id already exists")

// Store is the persistence contract for orders. Soft-deleted orders never
// appear in reads, and sequences are ordered by entry date descending with
// the id as tie-break.
type Store interface {
	// Recent returns orders younger than RecentWindow relative to now.
	Recent(ctx context.Context, now time.Time) ([]entity.Order, error)
	// WithinCutoff returns orders entered at or after cutoff.
	WithinCutoff(ctx context.Context, cutoff time.Time) ([]entity.Order, error)
	// Add persists order, assigning an id when it has none.
	Add(ctx context.Context, order *entity.Order) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Count(ctx context.Context) (int, error)
}

// StoreError reports a failure of the persistence backend.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("order store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func prepare(order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.EntryDate.IsZero() {
		order.EntryDate = time.Now().UTC()
	}
	return nil
}
