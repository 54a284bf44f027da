package sim

import (
	"github.com/shopspring/decimal"

	"main/internal/model"
	"main/internal/model/enum"
)

// Fill is one planned execution against an active order.
type Fill struct {
	OrderID  string
	Quantity int64
	Price    decimal.Decimal
}

// Simulator applies the deterministic fill rule once per processed bar:
// market orders fill in full at the bar close, limit buys fill at the limit
// price when price <= limit, limit sells at the limit when price >= limit.
// Stop orders have no execution rule and stay pending. There is no slippage
// and no partial price improvement.
type Simulator struct{}

// New creates a simulator.
func New() *Simulator {
	return &Simulator{}
}

// Plan scans the given active orders against the current price and returns
// the fills to apply. Each eligible order fills its entire remaining quantity.
func (s *Simulator) Plan(orders []*model.Order, currentPrice decimal.Decimal) []Fill {
	fills := make([]Fill, 0, len(orders))
	for _, o := range orders {
		if !o.IsActive() {
			continue
		}
		remaining := o.RemainingQuantity()
		if remaining <= 0 {
			continue
		}

		switch o.Type {
		case enum.OrderTypeMarket:
			fills = append(fills, Fill{OrderID: o.ID, Quantity: remaining, Price: currentPrice})
		case enum.OrderTypeLimit:
			if o.Price.IsZero() {
				continue
			}
			switch o.Side {
			case enum.OrderSideBuy:
				if currentPrice.LessThanOrEqual(o.Price) {
					fills = append(fills, Fill{OrderID: o.ID, Quantity: remaining, Price: o.Price})
				}
			case enum.OrderSideSell:
				if currentPrice.GreaterThanOrEqual(o.Price) {
					fills = append(fills, Fill{OrderID: o.ID, Quantity: remaining, Price: o.Price})
				}
			}
		case enum.OrderTypeStop:
			// stop orders stay pending; no automatic execution rule
		}
	}
	return fills
}
