package order

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/database"
)

// Module provides the order store to Fx.
var Module = fx.Provide(NewStore)

// NewStore picks the SQL repository when a database is configured and the
// in-memory store otherwise.
func NewStore(conns *database.Connections, logger *zap.Logger) Store {
	if conns.Enabled() {
		return NewRepository(conns)
	}
	logger.Info("using in-memory order store")
	return NewMemory()
}
