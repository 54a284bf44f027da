package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/engine"
)

func TestLoadResolvesFullConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
		"initialCapital": "250000",
		"risk": {"maxPositionSize": 500, "maxOrderValue": "50000"},
		"strategies": [
			{"kind": "momentum", "name": "mom", "shortPeriod": 5, "longPeriod": 20, "quantity": 100},
			{"kind": "meanReversion", "name": "rev", "period": 10, "stdMultiplier": "1.5", "quantity": 50, "disabled": true}
		],
		"execution": {"mode": "sim", "equityTracking": true},
		"postgres": {"dsn": "host=localhost user=trader dbname=trading"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.True(t, loaded.Engine.InitialCapital.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, engine.ModeSimulated, loaded.Engine.Mode)
	assert.Equal(t, int64(500), loaded.Engine.Limits.MaxPositionSize)
	assert.True(t, loaded.Engine.Limits.MaxOrderValue.Equal(decimal.NewFromInt(50000)))
	// Untouched limits keep the defaults.
	assert.True(t, loaded.Engine.Limits.MaxDailyLoss.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 10, loaded.Engine.Limits.MaxPositions)

	require.Len(t, loaded.Strategies, 2)
	assert.Equal(t, "mom", loaded.Strategies[0].Name())
	assert.True(t, loaded.Strategies[0].Enabled())
	assert.Equal(t, "rev", loaded.Strategies[1].Name())
	assert.False(t, loaded.Strategies[1].Enabled())

	assert.True(t, loaded.Equity)
	assert.Equal(t, "host=localhost user=trader dbname=trading", loaded.PostgresDSN)
}

func TestResolveDefaults(t *testing.T) {
	loaded, err := Resolve(FileConfig{})
	require.NoError(t, err)
	assert.True(t, loaded.Engine.InitialCapital.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, engine.ModeSimulated, loaded.Engine.Mode)
	assert.Empty(t, loaded.Strategies)
}

func TestResolveRejectsBadInput(t *testing.T) {
	for name, cfg := range map[string]FileConfig{
		"negative capital": {InitialCapital: decimal.NewFromInt(-1)},
		"unknown mode":     {Execution: ExecutionConfig{Mode: "paper"}},
		"live without url": {Execution: ExecutionConfig{Mode: "live"}},
		"unknown strategy": {Strategies: []StrategyConfig{{Kind: "scalper", Quantity: 1}}},
		"zero quantity":    {Strategies: []StrategyConfig{{Kind: "momentum", ShortPeriod: 5, LongPeriod: 20}}},
		"inverted periods": {Strategies: []StrategyConfig{{Kind: "momentum", ShortPeriod: 20, LongPeriod: 5, Quantity: 1}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(cfg)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
