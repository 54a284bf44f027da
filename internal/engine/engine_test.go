package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
	"main/internal/risk"
	"main/internal/strategy"
)

func newTestEngine(mode ExecutionMode) *Engine {
	return New(Config{
		InitialCapital: decimal.NewFromInt(100000),
		Limits:         risk.DefaultLimits(),
		Mode:           mode,
	})
}

func bar(symbol string, day int, close string) model.MarketBar {
	px := decimal.RequireFromString(close)
	return model.MarketBar{
		Symbol:    symbol,
		Timestamp: time.Date(2024, 1, day, 16, 0, 0, 0, time.UTC),
		Open:      px,
		High:      px,
		Low:       px,
		Close:     px,
		Volume:    1000,
	}
}

func TestMomentumCrossoverEndToEnd(t *testing.T) {
	e2 := newTestEngine(ModeSimulated)
	e2.AddStrategy(strategy.NewMomentum("momentum", 2, 3, 100))
	e2.Start()
	// Flat series produces no crossover, the jump to 150 pushes the short
	// SMA above the long and the market order fills at the close.
	for i, c := range []string{"100", "100", "100"} {
		e2.OnMarketBar(bar("AAPL", i+1, c))
	}
	e2.OnMarketBar(bar("AAPL", 4, "150"))

	summary := e2.AccountSummary()
	require.Equal(t, 1, summary.TotalTrades)
	assert.True(t, summary.Cash.Equal(decimal.NewFromInt(85000)),
		"cash = %s", summary.Cash)

	positions := e2.PositionsSummary()
	require.Len(t, positions, 1)
	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.Equal(t, int64(100), positions[0].Quantity)
	assert.True(t, positions[0].AverageCost.Equal(decimal.NewFromInt(150)))
	assert.True(t, e2.PortfolioValue().Equal(decimal.NewFromInt(100000)))
}

func TestStoppedEngineBuffersBarsWithoutSignals(t *testing.T) {
	e := newTestEngine(ModeSimulated)
	e.AddStrategy(strategy.NewMomentum("momentum", 2, 3, 100))

	for i, c := range []string{"100", "100", "100", "150"} {
		e.OnMarketBar(bar("AAPL", i+1, c))
	}

	snap := e.MetricsSnapshot()
	assert.Equal(t, uint64(4), snap.BarsProcessed)
	assert.Equal(t, uint64(0), snap.Signals)
	assert.Equal(t, 0, e.AccountSummary().TotalTrades)
}

func TestRejectedOrderLeavesStateUntouched(t *testing.T) {
	e := New(Config{
		InitialCapital: decimal.NewFromInt(100000),
		Limits: risk.Limits{
			MaxPositionSize: 1000,
			MaxOrderValue:   decimal.NewFromInt(100), // everything rejects
			MaxDailyLoss:    decimal.NewFromInt(10000),
			MaxPositions:    10,
		},
		Mode: ModeSimulated,
	})
	e.AddStrategy(strategy.NewMomentum("momentum", 2, 3, 100))
	e.Start()

	for i, c := range []string{"100", "100", "100", "150"} {
		e.OnMarketBar(bar("AAPL", i+1, c))
	}

	snap := e.MetricsSnapshot()
	assert.Equal(t, uint64(1), snap.OrdersCreated)
	assert.Equal(t, uint64(1), snap.OrdersRejected)
	assert.Equal(t, uint64(0), snap.Fills)

	summary := e.AccountSummary()
	assert.True(t, summary.Cash.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, 0, summary.OpenPositions)

	history := e.OrderHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "rejected", history[0].Status.String())
}

func TestStopCancelsActiveOrders(t *testing.T) {
	e := newTestEngine(ModeLive)
	e.AddStrategy(strategy.NewMomentum("momentum", 2, 3, 100))
	e.Start()

	for i, c := range []string{"100", "100", "100", "150"} {
		e.OnMarketBar(bar("AAPL", i+1, c))
	}
	require.Len(t, e.Outbox(), 1)

	e.Stop()

	history := e.OrderHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "cancelled", history[0].Status.String())
	assert.Equal(t, uint64(1), e.MetricsSnapshot().OrdersCancelled)
}

func TestLiveModeSkipsSimulator(t *testing.T) {
	e := newTestEngine(ModeLive)
	e.AddStrategy(strategy.NewMomentum("momentum", 2, 3, 100))
	e.Start()

	for i, c := range []string{"100", "100", "100", "150"} {
		e.OnMarketBar(bar("AAPL", i+1, c))
	}

	snap := e.MetricsSnapshot()
	assert.Equal(t, uint64(1), snap.OrdersSubmitted)
	assert.Equal(t, uint64(0), snap.Fills)

	outbox := e.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "AAPL", outbox[0].Symbol)
	assert.Empty(t, e.Outbox(), "outbox drains on read")
}

func TestApplyExternalFill(t *testing.T) {
	e := newTestEngine(ModeLive)
	e.AddStrategy(strategy.NewMomentum("momentum", 2, 3, 100))
	e.Start()

	for i, c := range []string{"100", "100", "100", "150"} {
		e.OnMarketBar(bar("AAPL", i+1, c))
	}
	outbox := e.Outbox()
	require.Len(t, outbox, 1)

	err := e.ApplyExternalFill(outbox[0].ID, 100, decimal.NewFromInt(151))
	require.NoError(t, err)

	summary := e.AccountSummary()
	assert.Equal(t, 1, summary.TotalTrades)
	assert.True(t, summary.Cash.Equal(decimal.NewFromInt(84900)))
	assert.Equal(t, 1, summary.OpenPositions)
}

func TestEquityTrackingRecordsOneSnapshotPerBar(t *testing.T) {
	e := newTestEngine(ModeSimulated)
	e.EnableEquityTracking()
	e.Start()

	for i, c := range []string{"100", "101", "102"} {
		e.OnMarketBar(bar("AAPL", i+1, c))
	}

	curve := e.EquityCurve()
	require.Len(t, curve, 3)
	for _, point := range curve {
		assert.True(t, point.Value.Equal(decimal.NewFromInt(100000)))
	}
	assert.True(t, curve[0].Timestamp.Before(curve[2].Timestamp))
}

func TestClosedTradeFlushesIntoDailyPnLAndBacktest(t *testing.T) {
	e := newTestEngine(ModeSimulated)
	e.EnableEquityTracking()
	e.AddStrategy(strategy.NewMomentum("momentum", 2, 3, 100))
	e.Start()

	// Crossover up opens long at 150, crossover down closes it at 140.
	for i, c := range []string{"100", "100", "100", "150", "150", "150", "100", "100"} {
		e.OnMarketBar(bar("AAPL", i+1, c))
	}

	closed := e.ClosedTrades()
	require.Len(t, closed, 1)
	assert.True(t, closed[0].PnL.IsNegative())

	result := e.BacktestResult()
	assert.Equal(t, 1, result.TotalTrades)
	assert.Equal(t, 1, result.LosingTrades)

	summary := e.AccountSummary()
	assert.True(t, summary.Risk.DailyPnL.Equal(closed[0].PnL))
}

func TestRemoveStrategy(t *testing.T) {
	e := newTestEngine(ModeSimulated)
	e.AddStrategy(strategy.NewMomentum("momentum", 2, 3, 100))
	e.RemoveStrategy("momentum")
	e.Start()

	for i, c := range []string{"100", "100", "100", "150"} {
		e.OnMarketBar(bar("AAPL", i+1, c))
	}
	assert.Equal(t, uint64(0), e.MetricsSnapshot().Signals)
}
