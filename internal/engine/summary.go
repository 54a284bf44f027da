package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"main/internal/risk"
)

// AccountSummary is a point-in-time view of the account state.
type AccountSummary struct {
	InitialCapital decimal.Decimal `json:"initialCapital"`
	Cash           decimal.Decimal `json:"cash"`
	PortfolioValue decimal.Decimal `json:"portfolioValue"`
	TotalPnL       decimal.Decimal `json:"totalPnl"`
	OpenPositions  int             `json:"openPositions"`
	ActiveOrders   int             `json:"activeOrders"`
	TotalTrades    int             `json:"totalTrades"`
	Risk           risk.Metrics    `json:"risk"`
}

// PositionSummary is a per-symbol view of an open position marked to the
// last seen price.
type PositionSummary struct {
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	AverageCost   decimal.Decimal `json:"averageCost"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	MarketValue   decimal.Decimal `json:"marketValue"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnl"`
	RealizedPnL   decimal.Decimal `json:"realizedPnl"`
	TotalPnL      decimal.Decimal `json:"totalPnl"`
}

// AccountSummary reports cash, equity, PnL and activity counters.
func (e *Engine) AccountSummary() AccountSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	equity := e.book.Equity(e.prices)
	return AccountSummary{
		InitialCapital: e.cfg.InitialCapital,
		Cash:           e.book.Cash(),
		PortfolioValue: equity,
		TotalPnL:       equity.Sub(e.cfg.InitialCapital),
		OpenPositions:  e.book.Count(),
		ActiveOrders:   len(e.orders.ActiveOrders("")),
		TotalTrades:    e.orders.TradeCount(),
		Risk:           e.gate.Snapshot(),
	}
}

// PositionsSummary reports every open position sorted by symbol.
func (e *Engine) PositionsSummary() []PositionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]PositionSummary, 0, e.book.Count())
	for symbol, position := range e.book.Positions() {
		price := e.prices[symbol]
		out = append(out, PositionSummary{
			Symbol:        symbol,
			Quantity:      position.Quantity,
			AverageCost:   position.AverageCost,
			CurrentPrice:  price,
			MarketValue:   position.MarketValue(price),
			UnrealizedPnL: position.UnrealizedPnL(price),
			RealizedPnL:   position.RealizedPnL,
			TotalPnL:      position.TotalPnL(price),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
