package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/businessday"
	"github.com/Additional-Code/orderdesk/internal/cache"
	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/database"
	"github.com/Additional-Code/orderdesk/internal/holiday"
	"github.com/Additional-Code/orderdesk/internal/logger"
	"github.com/Additional-Code/orderdesk/internal/messaging"
	"github.com/Additional-Code/orderdesk/internal/migration"
	"github.com/Additional-Code/orderdesk/internal/observability"
	repositoryorder "github.com/Additional-Code/orderdesk/internal/repository/order"
	"github.com/Additional-Code/orderdesk/internal/seeder"
	grpcserver "github.com/Additional-Code/orderdesk/internal/server/grpc"
	httpserver "github.com/Additional-Code/orderdesk/internal/server/http"
	serviceorder "github.com/Additional-Code/orderdesk/internal/service/order"
	transporthttp "github.com/Additional-Code/orderdesk/internal/transport/http"
	"github.com/Additional-Code/orderdesk/internal/worker"
	workerorder "github.com/Additional-Code/orderdesk/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	holiday.Module,
	businessday.Module,
	repositoryorder.Module,
	serviceorder.Module,
)

// Bootstrap migrates the schema and seeds an empty store when configured.
// It must be registered after database.Module so the connections are
// already open when its hook runs.
var Bootstrap = fx.Options(
	migration.Module,
	seeder.Module,
	fx.Invoke(bootstrap),
)

func bootstrap(lc fx.Lifecycle, cfg config.Config, mig *migration.Migrator, seed *seeder.Seeder, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Database.AutoMigrate {
				if err := mig.Up(ctx); err != nil {
					return err
				}
			}
			if cfg.Database.SeedOnStart {
				if err := seed.Orders(ctx); err != nil {
					return err
				}
			}
			log.Debug("bootstrap complete",
				zap.Bool("auto_migrate", cfg.Database.AutoMigrate),
				zap.Bool("seed", cfg.Database.SeedOnStart),
			)
			return nil
		},
	})
}

// HTTP wires the HTTP and gRPC servers on top of the core modules.
var HTTP = fx.Options(
	Core,
	Bootstrap,
	grpcserver.Module,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
