package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/model"
	"main/internal/model/enum"
)

var ErrNotConnected = errors.New("connector not connected")

// Paper is the simulated connector: orders fill immediately against the last
// known price with no external session. It satisfies the same interface as
// the remote connector so the engine never branches on which one it holds.
type Paper struct {
	connected bool
	balance   decimal.Decimal
	positions map[string]*model.Position
	prices    map[string]decimal.Decimal
	seq       int64
}

// NewPaper creates a paper connector holding the initial balance.
func NewPaper(initialBalance decimal.Decimal) *Paper {
	return &Paper{
		balance:   initialBalance,
		positions: make(map[string]*model.Position),
		prices:    make(map[string]decimal.Decimal),
	}
}

// UpdatePrice records the current market price used to fill market orders.
func (p *Paper) UpdatePrice(symbol string, price decimal.Decimal) {
	p.prices[symbol] = price
}

func (p *Paper) Connect(ctx context.Context) error {
	p.connected = true
	return nil
}

func (p *Paper) Disconnect() error {
	p.connected = false
	return nil
}

// PlaceOrder fills the order in full immediately: market orders at the last
// known price, limit and stop orders at their stated price.
func (p *Paper) PlaceOrder(ctx context.Context, order *model.Order) (string, error) {
	if !p.connected {
		return "", ErrNotConnected
	}

	execPrice := order.Price
	if order.Type == enum.OrderTypeMarket {
		px, ok := p.prices[order.Symbol]
		if !ok {
			return "", errors.Errorf("no price available for %s", order.Symbol)
		}
		execPrice = px
	}

	trade := model.Trade{
		OrderID:   order.ID,
		Symbol:    order.Symbol,
		Side:      order.Side,
		Quantity:  order.Quantity,
		Price:     execPrice,
		Timestamp: time.Now().UTC(),
	}

	pos, ok := p.positions[order.Symbol]
	if !ok {
		pos = model.NewPosition(order.Symbol)
		p.positions[order.Symbol] = pos
	}
	pos.ApplyTrade(trade)
	if pos.Quantity == 0 {
		delete(p.positions, order.Symbol)
	}

	if order.Side == enum.OrderSideBuy {
		p.balance = p.balance.Sub(trade.Value())
	} else {
		p.balance = p.balance.Add(trade.Value())
	}

	p.seq++
	return fmt.Sprintf("paper-%d", p.seq), nil
}

// CancelOrder always succeeds; paper orders never rest.
func (p *Paper) CancelOrder(ctx context.Context, externalID string) error {
	if !p.connected {
		return ErrNotConnected
	}
	return nil
}

func (p *Paper) AccountInfo(ctx context.Context) (AccountInfo, error) {
	if !p.connected {
		return AccountInfo{}, ErrNotConnected
	}
	equity := p.balance
	for symbol, pos := range p.positions {
		if px, ok := p.prices[symbol]; ok {
			equity = equity.Add(pos.MarketValue(px))
		}
	}
	return AccountInfo{Balance: p.balance, Equity: equity, Currency: "USD"}, nil
}

func (p *Paper) Positions(ctx context.Context) ([]PlatformPosition, error) {
	if !p.connected {
		return nil, ErrNotConnected
	}
	out := make([]PlatformPosition, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, PlatformPosition{
			Symbol:      pos.Symbol,
			Quantity:    pos.Quantity,
			AverageCost: pos.AverageCost,
		})
	}
	return out, nil
}
