package enum

import "fmt"

// OrderType selects the execution rule applied to an order.
type OrderType uint8

const (
	_order_type_beg OrderType = iota
	OrderTypeMarket
	OrderTypeLimit
	OrderTypeStop
	_order_type_end
)

func (t OrderType) IsAvailable() bool {
	return t > _order_type_beg && t < _order_type_end
}

func (t OrderType) String() string {
	switch t {
	case OrderTypeMarket:
		return "market"
	case OrderTypeLimit:
		return "limit"
	case OrderTypeStop:
		return "stop"
	default:
		return "unknown"
	}
}

func (t OrderType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *OrderType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "market":
		*t = OrderTypeMarket
	case "limit":
		*t = OrderTypeLimit
	case "stop":
		*t = OrderTypeStop
	default:
		return fmt.Errorf("unknown order type: %q", text)
	}
	return nil
}
