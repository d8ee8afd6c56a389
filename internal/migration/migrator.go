package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/db"
	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/database"
)

// Module provides the migrator to Fx.
var Module = fx.Provide(New)

// Migrator wraps goose operations over the embedded migrations.
type Migrator struct {
	db     *sql.DB
	logger *zap.Logger
}

// New constructs a goose-backed migrator. It is inert when orders are kept in memory.
func New(cfg config.Config, conns *database.Connections, logger *zap.Logger) (*Migrator, error) {
	if !conns.Enabled() {
		return &Migrator{logger: logger}, nil
	}

	dialect, err := gooseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	if err := goose.SetDialect(dialect); err != nil {
		return nil, err
	}
	goose.SetBaseFS(db.Migrations)

	return &Migrator{
		db:     conns.Writer.DB,
		logger: logger,
	}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if m.db == nil {
		m.logger.Info("no database configured; skipping migrations")
		return nil
	}

	if err := goose.UpContext(ctx, m.db, db.MigrationsDir); err != nil {
		if isNoMigrationErr(err) {
			m.logger.Info("no migrations to apply")

			return nil
		}
		return err
	}

	m.logger.Info("migrations applied")

	return nil
}

// Down rolls back migrations. Steps <=0 defaults to 1; all=true rolls everything back.
func (m *Migrator) Down(ctx context.Context, steps int, all bool) error {
	if m.db == nil {
		m.logger.Info("no database configured; skipping rollback")
		return nil
	}

	if all {
		if err := goose.DownToContext(ctx, m.db, db.MigrationsDir, 0); err != nil {
			if isNoMigrationErr(err) {
				m.logger.Info("no migrations to rollback")

				return nil
			}
			return err
		}
		m.logger.Info("migrations rolled back", zap.String("mode", "all"))

		return nil
	}

	if steps <= 0 {
		steps = 1
	}

	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, m.db, db.MigrationsDir); err != nil {
			if isNoMigrationErr(err) {
				m.logger.Info("no migrations to rollback")

				return nil
			}
			return err
		}
	}

	m.logger.Info("migrations rolled back", zap.Int("steps", steps))

	return nil
}

// Version reports the latest applied migration; 0 when none is applied or no
// database is configured.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	if m.db == nil {
		return 0, nil
	}
	return goose.GetDBVersionContext(ctx, m.db)
}

func gooseDialect(driver string) (string, error) {
	switch driver {
	case "postgres", "pg", "pgx":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported goose dialect for driver %s", driver)
	}
}

func isNoMigrationErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, goose.ErrNoNextVersion) || errors.Is(err, goose.ErrNoMigrationFiles) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "no migrations")
}
