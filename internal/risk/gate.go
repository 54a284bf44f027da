package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"main/internal/model"
	"main/internal/model/enum"
)

// ReasonPassed is the fixed reason returned when every check passes.
const ReasonPassed = "risk checks passed"

// Limits defines the static risk limits applied to every candidate order.
type Limits struct {
	MaxPositionSize int64           `json:"maxPositionSize"`
	MaxOrderValue   decimal.Decimal `json:"maxOrderValue"`
	MaxDailyLoss    decimal.Decimal `json:"maxDailyLoss"`
	MaxPositions    int             `json:"maxPositions"`
}

// DefaultLimits mirrors the conventional intraday defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSize: 1000,
		MaxOrderValue:   decimal.NewFromInt(100000),
		MaxDailyLoss:    decimal.NewFromInt(10000),
		MaxPositions:    10,
	}
}

// Metrics is the current risk state exposed in the account summary.
type Metrics struct {
	MaxPositionSize    int64           `json:"maxPositionSize"`
	MaxOrderValue      decimal.Decimal `json:"maxOrderValue"`
	MaxDailyLoss       decimal.Decimal `json:"maxDailyLoss"`
	MaxPositions       int             `json:"maxPositions"`
	DailyPnL           decimal.Decimal `json:"dailyPnl"`
	DailyLossRemaining decimal.Decimal `json:"dailyLossRemaining"`
}

// Gate validates candidate orders against the configured limits. It is a pure
// predicate over the order and position state; it never mutates either.
type Gate struct {
	limits   Limits
	dailyPnL decimal.Decimal
}

// NewGate creates a gate with the given limits.
func NewGate(limits Limits) *Gate {
	return &Gate{limits: limits}
}

// Check runs the ordered limit checks against a candidate order. The first
// failing check short-circuits and its reason is returned.
func (g *Gate) Check(order *model.Order, positions map[string]*model.Position, currentPrice decimal.Decimal) (bool, string) {
	orderValue := currentPrice.Mul(decimal.NewFromInt(order.Quantity))
	if orderValue.GreaterThan(g.limits.MaxOrderValue) {
		return false, fmt.Sprintf("order value %s exceeds limit %s", orderValue, g.limits.MaxOrderValue)
	}

	if order.Side == enum.OrderSideBuy && len(positions) >= g.limits.MaxPositions {
		if _, held := positions[order.Symbol]; !held {
			return false, fmt.Sprintf("position count already at limit %d", g.limits.MaxPositions)
		}
	}

	var current int64
	if p, ok := positions[order.Symbol]; ok {
		current = p.Quantity
	}
	next := current
	if order.Side == enum.OrderSideBuy {
		next += order.Quantity
	} else {
		next -= order.Quantity
	}
	if abs := absInt64(next); abs > g.limits.MaxPositionSize {
		return false, fmt.Sprintf("position size %d exceeds limit %d", abs, g.limits.MaxPositionSize)
	}

	if g.dailyPnL.LessThan(g.limits.MaxDailyLoss.Abs().Neg()) {
		return false, fmt.Sprintf("daily loss %s already at limit %s", g.dailyPnL.Abs(), g.limits.MaxDailyLoss)
	}

	return true, ReasonPassed
}

// UpdateDailyPnL accumulates realized PnL flushed from closed positions.
func (g *Gate) UpdateDailyPnL(pnl decimal.Decimal) {
	g.dailyPnL = g.dailyPnL.Add(pnl)
}

// ResetDailyPnL clears the daily total, called before each trading day.
func (g *Gate) ResetDailyPnL() {
	g.dailyPnL = decimal.Zero
}

// DailyPnL returns the accumulated daily realized PnL.
func (g *Gate) DailyPnL() decimal.Decimal {
	return g.dailyPnL
}

// Snapshot returns the current risk metrics.
func (g *Gate) Snapshot() Metrics {
	return Metrics{
		MaxPositionSize:    g.limits.MaxPositionSize,
		MaxOrderValue:      g.limits.MaxOrderValue,
		MaxDailyLoss:       g.limits.MaxDailyLoss,
		MaxPositions:       g.limits.MaxPositions,
		DailyPnL:           g.dailyPnL,
		DailyLossRemaining: g.limits.MaxDailyLoss.Add(g.dailyPnL),
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
