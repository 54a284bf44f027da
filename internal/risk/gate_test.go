package risk

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
	"main/internal/model/enum"
)

func testOrder(symbol string, side enum.OrderSide, qty int64) *model.Order {
	return &model.Order{
		ID:       "test",
		Symbol:   symbol,
		Side:     side,
		Type:     enum.OrderTypeMarket,
		Quantity: qty,
		Status:   enum.OrderStatusPending,
	}
}

func TestCheckRejectsOversizedNotional(t *testing.T) {
	g := NewGate(Limits{
		MaxPositionSize: 10000,
		MaxOrderValue:   decimal.NewFromInt(100000),
		MaxDailyLoss:    decimal.NewFromInt(10000),
		MaxPositions:    10,
	})

	order := testOrder("AAPL", enum.OrderSideBuy, 1000)
	passed, reason := g.Check(order, map[string]*model.Position{}, decimal.RequireFromString("150"))
	require.False(t, passed)
	assert.Contains(t, reason, "150000", "reason must reference the computed order value")
}

func TestCheckRejectsNewSymbolAtPositionCountLimit(t *testing.T) {
	g := NewGate(Limits{
		MaxPositionSize: 1000,
		MaxOrderValue:   decimal.NewFromInt(100000),
		MaxDailyLoss:    decimal.NewFromInt(10000),
		MaxPositions:    1,
	})
	positions := map[string]*model.Position{
		"MSFT": {Symbol: "MSFT", Quantity: 100},
	}

	passed, reason := g.Check(testOrder("AAPL", enum.OrderSideBuy, 10), positions, decimal.RequireFromString("150"))
	require.False(t, passed)
	assert.Contains(t, reason, "position count")

	// adding to an already-held symbol stays allowed
	passed, _ = g.Check(testOrder("MSFT", enum.OrderSideBuy, 10), positions, decimal.RequireFromString("150"))
	assert.True(t, passed)
}

func TestCheckRejectsProspectivePositionSize(t *testing.T) {
	g := NewGate(DefaultLimits())
	positions := map[string]*model.Position{
		"AAPL": {Symbol: "AAPL", Quantity: 900},
	}

	passed, reason := g.Check(testOrder("AAPL", enum.OrderSideBuy, 200), positions, decimal.RequireFromString("10"))
	require.False(t, passed)
	assert.Contains(t, reason, "position size 1100")

	// short side is limited by absolute value
	passed, reason = g.Check(testOrder("AAPL", enum.OrderSideSell, 2000), positions, decimal.RequireFromString("10"))
	require.False(t, passed)
	assert.Contains(t, reason, "position size 1100")

	// no existing position: the order quantity itself is the prospective size
	passed, _ = g.Check(testOrder("MSFT", enum.OrderSideSell, 2000), map[string]*model.Position{}, decimal.RequireFromString("10"))
	assert.False(t, passed)
}

func TestCheckRejectsAfterDailyLossLimit(t *testing.T) {
	g := NewGate(DefaultLimits())
	g.UpdateDailyPnL(decimal.NewFromInt(-10001))

	passed, reason := g.Check(testOrder("AAPL", enum.OrderSideBuy, 1), map[string]*model.Position{}, decimal.NewFromInt(1))
	require.False(t, passed, "any order is rejected once the daily loss limit is breached")
	if !strings.Contains(reason, "daily loss") {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestCheckPassesAndNeverMutates(t *testing.T) {
	g := NewGate(DefaultLimits())
	positions := map[string]*model.Position{
		"AAPL": {Symbol: "AAPL", Quantity: 100, AverageCost: decimal.NewFromInt(150)},
	}
	order := testOrder("AAPL", enum.OrderSideBuy, 100)

	passed, reason := g.Check(order, positions, decimal.RequireFromString("150"))
	require.True(t, passed)
	assert.Equal(t, ReasonPassed, reason)
	assert.Equal(t, enum.OrderStatusPending, order.Status)
	assert.EqualValues(t, 100, positions["AAPL"].Quantity)
}

func TestDailyPnLAccumulatesAndResets(t *testing.T) {
	g := NewGate(DefaultLimits())
	g.UpdateDailyPnL(decimal.NewFromInt(500))
	g.UpdateDailyPnL(decimal.NewFromInt(-200))
	assert.True(t, g.DailyPnL().Equal(decimal.NewFromInt(300)))

	m := g.Snapshot()
	assert.True(t, m.DailyLossRemaining.Equal(decimal.NewFromInt(10300)))

	g.ResetDailyPnL()
	assert.True(t, g.DailyPnL().IsZero())
}
