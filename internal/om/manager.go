package om

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/model"
	"main/internal/model/enum"
)

var (
	ErrUnknownOrder      = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order state transition")
	ErrInvalidFill       = errors.New("invalid fill quantity")
)

// Manager owns the order and trade collections and drives the order
// lifecycle state machine. It is not safe for concurrent use; the engine
// serializes all calls.
type Manager struct {
	orders map[string]*model.Order
	trades []model.Trade
	now    func() time.Time
}

// NewManager creates an empty order manager.
func NewManager() *Manager {
	return &Manager{
		orders: make(map[string]*model.Order),
		now:    time.Now,
	}
}

// Create allocates a new pending order. It has no side effect beyond the
// allocation itself.
func (m *Manager) Create(symbol string, side enum.OrderSide, orderType enum.OrderType, quantity int64, price decimal.Decimal) *model.Order {
	now := m.now()
	o := &model.Order{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		Side:        side,
		Type:        orderType,
		Quantity:    quantity,
		Price:       price,
		Status:      enum.OrderStatusPending,
		CreatedTime: now,
		UpdatedTime: now,
	}
	m.orders[o.ID] = o
	return o
}

// Submit transitions a pending order to submitted. Any other source state
// fails without mutation.
func (m *Manager) Submit(orderID string) error {
	o, ok := m.orders[orderID]
	if !ok {
		return ErrUnknownOrder
	}
	if o.Status != enum.OrderStatusPending {
		return ErrInvalidTransition
	}
	o.Status = enum.OrderStatusSubmitted
	o.UpdatedTime = m.now()
	return nil
}

// Reject transitions a pending order to rejected. Used when the risk gate
// refuses the order before submission.
func (m *Manager) Reject(orderID string) error {
	o, ok := m.orders[orderID]
	if !ok {
		return ErrUnknownOrder
	}
	if o.Status != enum.OrderStatusPending {
		return ErrInvalidTransition
	}
	o.Status = enum.OrderStatusRejected
	o.UpdatedTime = m.now()
	return nil
}

// Cancel transitions an active order to cancelled.
func (m *Manager) Cancel(orderID string) error {
	o, ok := m.orders[orderID]
	if !ok {
		return ErrUnknownOrder
	}
	if !o.IsActive() {
		return ErrInvalidTransition
	}
	o.Status = enum.OrderStatusCancelled
	o.UpdatedTime = m.now()
	return nil
}

// Fill applies a fill to an active order. The fill quantity is clamped to the
// remaining unfilled amount, the average fill price is re-weighted, and an
// immutable trade record is appended and returned.
func (m *Manager) Fill(orderID string, fillQuantity int64, fillPrice decimal.Decimal, ts time.Time) (model.Trade, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return model.Trade{}, ErrUnknownOrder
	}
	if !o.IsActive() {
		return model.Trade{}, ErrInvalidTransition
	}
	if fillQuantity <= 0 {
		return model.Trade{}, ErrInvalidFill
	}

	actual := fillQuantity
	if remaining := o.RemainingQuantity(); actual > remaining {
		actual = remaining
	}

	totalFilled := o.FilledQuantity + actual
	o.AverageFillPrice = o.AverageFillPrice.Mul(decimal.NewFromInt(o.FilledQuantity)).
		Add(fillPrice.Mul(decimal.NewFromInt(actual))).
		Div(decimal.NewFromInt(totalFilled))
	o.FilledQuantity = totalFilled

	if o.FilledQuantity >= o.Quantity {
		o.Status = enum.OrderStatusFilled
	} else {
		o.Status = enum.OrderStatusPartial
	}

	if ts.IsZero() {
		ts = m.now()
	}
	o.UpdatedTime = ts

	trade := model.Trade{
		ID:        uuid.NewString(),
		OrderID:   o.ID,
		Symbol:    o.Symbol,
		Side:      o.Side,
		Quantity:  actual,
		Price:     fillPrice,
		Timestamp: ts,
	}
	m.trades = append(m.trades, trade)
	return trade, nil
}

// Order returns the order with the given id.
func (m *Manager) Order(orderID string) (*model.Order, bool) {
	o, ok := m.orders[orderID]
	return o, ok
}

// ActiveOrders returns all active orders, optionally filtered by symbol.
func (m *Manager) ActiveOrders(symbol string) []*model.Order {
	active := make([]*model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if !o.IsActive() {
			continue
		}
		if symbol != "" && o.Symbol != symbol {
			continue
		}
		active = append(active, o)
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedTime.Before(active[j].CreatedTime)
	})
	return active
}

// Trades returns the recorded fills, optionally filtered by symbol.
func (m *Manager) Trades(symbol string) []model.Trade {
	if symbol == "" {
		out := make([]model.Trade, len(m.trades))
		copy(out, m.trades)
		return out
	}
	out := make([]model.Trade, 0, len(m.trades))
	for _, t := range m.trades {
		if t.Symbol == symbol {
			out = append(out, t)
		}
	}
	return out
}

// TradeCount returns the number of recorded fills.
func (m *Manager) TradeCount() int {
	return len(m.trades)
}

// History returns all orders sorted by creation time descending, optionally
// filtered by symbol.
func (m *Manager) History(symbol string) []*model.Order {
	orders := make([]*model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if symbol != "" && o.Symbol != symbol {
			continue
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedTime.After(orders[j].CreatedTime)
	})
	return orders
}
