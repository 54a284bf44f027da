package model

import (
	"github.com/shopspring/decimal"

	"main/internal/model/enum"
)

// Signal is an order intent emitted by a strategy. Price is only meaningful
// for limit orders.
type Signal struct {
	Symbol   string
	Side     enum.OrderSide
	Quantity int64
	Type     enum.OrderType
	Price    decimal.Decimal
}
