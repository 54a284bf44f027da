package model

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/model/enum"
)

// Order is a single order intent and its lifecycle state.
//
// Invariant: 0 <= FilledQuantity <= Quantity. AverageFillPrice is the
// volume-weighted mean of all fills so far and stays zero until the first fill.
type Order struct {
	ID               string           `json:"id"`
	Symbol           string           `json:"symbol"`
	Side             enum.OrderSide   `json:"side"`
	Type             enum.OrderType   `json:"type"`
	Quantity         int64            `json:"quantity"`
	Price            decimal.Decimal  `json:"price"` // limit/stop price, zero for market orders
	Status           enum.OrderStatus `json:"status"`
	FilledQuantity   int64            `json:"filledQuantity"`
	AverageFillPrice decimal.Decimal  `json:"averageFillPrice"`
	CreatedTime      time.Time        `json:"createdTime"`
	UpdatedTime      time.Time        `json:"updatedTime"`
}

// IsActive reports whether the order can still be submitted, filled or cancelled.
func (o *Order) IsActive() bool {
	return o.Status.IsActive()
}

// IsFilled reports whether the order is completely filled.
func (o *Order) IsFilled() bool {
	return o.Status == enum.OrderStatusFilled
}

// RemainingQuantity is the unfilled part of the order.
func (o *Order) RemainingQuantity() int64 {
	return o.Quantity - o.FilledQuantity
}
