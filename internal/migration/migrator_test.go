package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/database"
)

func tableExists(t *testing.T, conns *database.Connections) bool {
	t.Helper()

	var n int
	err := conns.Writer.NewRaw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'orders'").Scan(context.Background(), &n)
	require.NoError(t, err)
	return n == 1
}

func TestMigratorUpDownSqlite(t *testing.T) {
	cfg := config.Config{Database: config.Database{Driver: "sqlite", WriterDSN: "file:migrator?mode=memory&cache=shared"}}
	conns, err := database.Open(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conns.Close() })

	mig, err := New(cfg, conns, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, mig.Up(ctx))
	assert.True(t, tableExists(t, conns))

	version, err := mig.Version(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)

	require.NoError(t, mig.Up(ctx), "re-running up is a no-op")

	require.NoError(t, mig.Down(ctx, 1, false))
	assert.False(t, tableExists(t, conns))

	require.NoError(t, mig.Down(ctx, 0, true), "rolling back an empty schema is a no-op")
}

func TestMigratorInertWithoutDatabase(t *testing.T) {
	mig, err := New(config.Config{Database: config.Database{Driver: "memory"}}, &database.Connections{}, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, mig.Up(ctx))
	require.NoError(t, mig.Down(ctx, 1, false))

	version, err := mig.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestGooseDialect(t *testing.T) {
	for driver, want := range map[string]string{"pgx": "postgres", "postgres": "postgres", "mysql": "mysql", "sqlite": "sqlite3"} {
		got, err := gooseDialect(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got, driver)
	}
	_, err := gooseDialect("oracle")
	require.Error(t, err)
}
