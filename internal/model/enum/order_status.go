package enum

import "fmt"

// OrderStatus tracks the lifecycle of an order.
//
// pending -> submitted -> {partial -> filled | cancelled}
// submitted -> {filled | cancelled | rejected}
type OrderStatus uint8

const (
	_order_status_beg OrderStatus = iota
	OrderStatusPending
	OrderStatusSubmitted
	OrderStatusPartial
	OrderStatusFilled
	OrderStatusCancelled
	OrderStatusRejected
	_order_status_end
)

func (s OrderStatus) IsAvailable() bool {
	return s > _order_status_beg && s < _order_status_end
}

// IsActive reports whether the order can still be submitted, filled or cancelled.
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderStatusPending, OrderStatusSubmitted, OrderStatusPartial:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the order reached a final state.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "pending"
	case OrderStatusSubmitted:
		return "submitted"
	case OrderStatusPartial:
		return "partial"
	case OrderStatusFilled:
		return "filled"
	case OrderStatusCancelled:
		return "cancelled"
	case OrderStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

func (s OrderStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *OrderStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pending":
		*s = OrderStatusPending
	case "submitted":
		*s = OrderStatusSubmitted
	case "partial":
		*s = OrderStatusPartial
	case "filled":
		*s = OrderStatusFilled
	case "cancelled":
		*s = OrderStatusCancelled
	case "rejected":
		*s = OrderStatusRejected
	default:
		return fmt.Errorf("unknown order status: %q", text)
	}
	return nil
}
