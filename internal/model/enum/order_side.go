package enum

import "fmt"

// OrderSide is the direction of an order.
type OrderSide uint8

const (
	_order_side_beg OrderSide = iota
	OrderSideBuy
	OrderSideSell
	_order_side_end
)

func (s OrderSide) IsAvailable() bool {
	return s > _order_side_beg && s < _order_side_end
}

func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "buy"
	case OrderSideSell:
		return "sell"
	default:
		return "unknown"
	}
}

func (s OrderSide) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *OrderSide) UnmarshalText(text []byte) error {
	switch string(text) {
	case "buy":
		*s = OrderSideBuy
	case "sell":
		*s = OrderSideSell
	default:
		return fmt.Errorf("unknown order side: %q", text)
	}
	return nil
}
