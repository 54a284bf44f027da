package portfolio

import (
	"github.com/shopspring/decimal"

	"main/internal/model"
	"main/internal/model/enum"
)

// Book owns the cash scalar and the position map. Positions are created on a
// symbol's first fill and deleted the moment quantity returns to exactly
// zero; the invariant quantity == 0 => entry absent holds after every
// mutation.
type Book struct {
	cash      decimal.Decimal
	positions map[string]*model.Position
}

// NewBook creates a book holding the initial capital in cash.
func NewBook(initialCash decimal.Decimal) *Book {
	return &Book{
		cash:      initialCash,
		positions: make(map[string]*model.Position),
	}
}

// ApplyTrade mutates position and cash from one fill. When the fill closes
// the position to exactly zero, the entry is removed and its accumulated
// realized PnL is returned with flushed=true so the caller can feed the
// daily-loss total.
func (b *Book) ApplyTrade(trade model.Trade) (flushedPnL decimal.Decimal, flushed bool) {
	p, ok := b.positions[trade.Symbol]
	if !ok {
		p = model.NewPosition(trade.Symbol)
		b.positions[trade.Symbol] = p
	}

	p.ApplyTrade(trade)

	if trade.Side == enum.OrderSideBuy {
		b.cash = b.cash.Sub(trade.Value())
	} else {
		b.cash = b.cash.Add(trade.Value())
	}

	if p.Quantity == 0 {
		delete(b.positions, trade.Symbol)
		return p.RealizedPnL, true
	}
	return decimal.Zero, false
}

// Cash returns the current cash balance.
func (b *Book) Cash() decimal.Decimal {
	return b.cash
}

// Position returns the open position for a symbol.
func (b *Book) Position(symbol string) (*model.Position, bool) {
	p, ok := b.positions[symbol]
	return p, ok
}

// Positions exposes the position map. Callers must not mutate entries; the
// engine serializes all access.
func (b *Book) Positions() map[string]*model.Position {
	return b.positions
}

// Count returns the number of open positions.
func (b *Book) Count() int {
	return len(b.positions)
}

// Equity is cash plus the mark-to-market value of every open position at the
// given prices. Symbols without a known price contribute nothing, matching a
// zero mark.
func (b *Book) Equity(prices map[string]decimal.Decimal) decimal.Decimal {
	total := b.cash
	for symbol, p := range b.positions {
		px, ok := prices[symbol]
		if !ok {
			continue
		}
		total = total.Add(p.MarketValue(px))
	}
	return total
}
