package model

import (
	"github.com/shopspring/decimal"

	"main/internal/model/enum"
)

// Position is the signed holding of one symbol. Positive quantity is long,
// negative is short. AverageCost is meaningful only while Quantity != 0.
type Position struct {
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	AverageCost decimal.Decimal `json:"averageCost"`
	RealizedPnL decimal.Decimal `json:"realizedPnl"`
}

// NewPosition creates an empty position for a symbol.
func NewPosition(symbol string) *Position {
	return &Position{Symbol: symbol}
}

// IsLong reports whether the position is long.
func (p *Position) IsLong() bool {
	return p.Quantity > 0
}

// IsShort reports whether the position is short.
func (p *Position) IsShort() bool {
	return p.Quantity < 0
}

// ApplyTrade mutates the position with one fill.
//
// A buy re-weights the average cost over the combined quantity. A sell against
// a long position realizes (price - averageCost) x min(fillQty, quantity);
// selling through zero flips the position short without re-basing the average
// cost for the flipped remainder.
func (p *Position) ApplyTrade(trade Trade) {
	switch trade.Side {
	case enum.OrderSideBuy:
		totalCost := p.AverageCost.Mul(decimal.NewFromInt(absInt64(p.Quantity))).
			Add(trade.Price.Mul(decimal.NewFromInt(trade.Quantity)))
		p.Quantity += trade.Quantity
		if p.Quantity != 0 {
			p.AverageCost = totalCost.Div(decimal.NewFromInt(absInt64(p.Quantity)))
		}
	case enum.OrderSideSell:
		if p.Quantity > 0 {
			closeQuantity := trade.Quantity
			if closeQuantity > p.Quantity {
				closeQuantity = p.Quantity
			}
			p.RealizedPnL = p.RealizedPnL.
				Add(trade.Price.Sub(p.AverageCost).Mul(decimal.NewFromInt(closeQuantity)))
		}
		p.Quantity -= trade.Quantity
	}
}

// UnrealizedPnL is the mark-to-market profit of the open quantity.
func (p *Position) UnrealizedPnL(currentPrice decimal.Decimal) decimal.Decimal {
	if p.Quantity == 0 {
		return decimal.Zero
	}
	return currentPrice.Sub(p.AverageCost).Mul(decimal.NewFromInt(p.Quantity))
}

// TotalPnL is realized plus unrealized profit at the given price.
func (p *Position) TotalPnL(currentPrice decimal.Decimal) decimal.Decimal {
	return p.RealizedPnL.Add(p.UnrealizedPnL(currentPrice))
}

// MarketValue is the signed notional of the open quantity.
func (p *Position) MarketValue(currentPrice decimal.Decimal) decimal.Decimal {
	return currentPrice.Mul(decimal.NewFromInt(p.Quantity))
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
