package model

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/model/enum"
)

// Trade is a single fill against an order. Trades are immutable and
// append-only.
type Trade struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	Symbol    string          `json:"symbol"`
	Side      enum.OrderSide  `json:"side"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// Value is the notional of the fill.
func (t Trade) Value() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}
