package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Additional-Code/orderdesk/internal/entity"
)

// Memory keeps orders in process memory.
type Memory struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]entity.Order
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{orders: make(map[uuid.UUID]entity.Order)}
}

// Add stores a copy of order.
func (m *Memory) Add(_ context.Context, order *entity.Order) (uuid.UUID, error) {
	if err := prepare(order); err != nil {
		return uuid.Nil, storeErr("add", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[order.ID]; ok {
		return uuid.Nil, storeErr("add", ErrDuplicateID)
	}
	m.orders[order.ID] = clone(*order)
	return order.ID, nil
}

// Recent lists live orders younger than RecentWindow, newest first.
func (m *Memory) Recent(_ context.Context, now time.Time) ([]entity.Order, error) {
	return m.filter(func(o entity.Order) bool {
		return now.Sub(o.EntryDate) < RecentWindow
	}), nil
}

// WithinCutoff lists live orders entered at or after cutoff, newest first.
func (m *Memory) WithinCutoff(_ context.Context, cutoff time.Time) ([]entity.Order, error) {
	return m.filter(func(o entity.Order) bool {
		return !o.EntryDate.Before(cutoff)
	}), nil
}

// Get returns a live order by id.
func (m *Memory) Get(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok || o.IsDeleted {
		return nil, ErrNotFound
	}
	out := clone(o)
	return &out, nil
}

// Count returns the number of stored orders, deleted ones included.
func (m *Memory) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders), nil
}

func (m *Memory) filter(keep func(entity.Order) bool) []entity.Order {
	m.mu.RLock()
	out := make([]entity.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if o.IsDeleted || !keep(o) {
			continue
		}
		out = append(out, clone(o))
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.After(out[j].EntryDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func clone(o entity.Order) entity.Order {
	if o.IsInvoiced != nil {
		v := *o.IsInvoiced
		o.IsInvoiced = &v
	}
	return o
}
