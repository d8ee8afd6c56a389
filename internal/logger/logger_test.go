package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zapcore"

	"github.com/Additional-Code/orderdesk/internal/config"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		obs   config.Observability
		level zapcore.Level
	}{
		{name: "json debug", obs: config.Observability{LogLevel: "debug", LogEncoding: "json"}, level: zapcore.DebugLevel},
		{name: "console warn", obs: config.Observability{LogLevel: "warn", LogEncoding: "console"}, level: zapcore.WarnLevel},
		{name: "unknown level", obs: config.Observability{LogLevel: "loud", LogEncoding: "json"}, level: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := Build(tt.obs)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.level))
			assert.False(t, logger.Core().Enabled(tt.level-1))
		})
	}
}

func TestNewRegistersSync(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	logger, err := New(lc, config.Config{Observability: config.Observability{
		ServiceName: "orderdesk",
		LogLevel:    "info",
		LogEncoding: "json",
	}})
	require.NoError(t, err)
	require.NotNil(t, logger)

	lc.RequireStart()
	lc.RequireStop()
}
