package seeder

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/entity"
	repo "github.com/Additional-Code/orderdesk/internal/repository/order"
)

// DefaultCount is the number of synthetic orders inserted into an empty store.
const DefaultCount = 50

// seedWindowDays bounds how far back synthetic entry dates go.
const seedWindowDays = 10

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder fills an empty order store with demonstration data.
type Seeder struct {
	store  repo.Store
	logger *zap.Logger
	now    func() time.Time
	rand   *rand.Rand
}

// New constructs a Seeder over the configured order store.
func New(store repo.Store, logger *zap.Logger) *Seeder {
	return &Seeder{
		store:  store,
		logger: logger,
		now:    time.Now,
		rand:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Orders seeds DefaultCount random orders unless the store already holds any.
func (s *Seeder) Orders(ctx context.Context) error {
	n, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if n > 0 {
		if s.logger != nil {
			s.logger.Info("orders present; skipping seed", zap.Int("count", n))
		}
		return nil
	}

	now := s.now().UTC()
	for i := 0; i < DefaultCount; i++ {
		order := entity.NewOrder(
			fmt.Sprintf("Order %d", i+1),
			fmt.Sprintf("Description for Order %d", i+1),
		)
		order.EntryDate = now.AddDate(0, 0, -s.rand.IntN(seedWindowDays))
		invoiced := s.rand.IntN(2) == 1
		order.IsInvoiced = &invoiced

		if _, err := s.store.Add(ctx, order); err != nil {
			return fmt.Errorf("seed order %d: %w", i+1, err)
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", DefaultCount))
	}
	return nil
}
