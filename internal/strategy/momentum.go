package strategy

import (
	"github.com/shopspring/decimal"

	"main/internal/model"
	"main/internal/model/enum"
)

// Momentum emits market orders on SMA crossovers: buy when the short average
// crosses above the long one, sell on the opposite cross. Emission is
// edge-triggered and de-duplicated against the last emitted side.
type Momentum struct {
	Base

	shortPeriod int
	longPeriod  int
	quantity    int64

	lastSide enum.OrderSide
}

// NewMomentum creates a momentum strategy. shortPeriod must be smaller than
// longPeriod.
func NewMomentum(name string, shortPeriod, longPeriod int, quantity int64) *Momentum {
	if name == "" {
		name = "momentum"
	}
	return &Momentum{
		Base:        NewBase(name),
		shortPeriod: shortPeriod,
		longPeriod:  longPeriod,
		quantity:    quantity,
	}
}

func (s *Momentum) Evaluate(window []model.MarketBar) (model.Signal, bool) {
	if len(window) < s.longPeriod {
		return model.Signal{}, false
	}

	currShort, okCS := sma(window, s.shortPeriod)
	currLong, okCL := sma(window, s.longPeriod)
	prevShort, okPS := sma(window[:len(window)-1], s.shortPeriod)
	prevLong, okPL := sma(window[:len(window)-1], s.longPeriod)
	if !okCS || !okCL || !okPS || !okPL {
		return model.Signal{}, false
	}

	symbol := window[len(window)-1].Symbol

	// golden cross
	if prevShort.LessThanOrEqual(prevLong) && currShort.GreaterThan(currLong) {
		if s.lastSide != enum.OrderSideBuy {
			s.lastSide = enum.OrderSideBuy
			return model.Signal{
				Symbol:   symbol,
				Side:     enum.OrderSideBuy,
				Quantity: s.quantity,
				Type:     enum.OrderTypeMarket,
				Price:    decimal.Zero,
			}, true
		}
		return model.Signal{}, false
	}

	// dead cross
	if prevShort.GreaterThanOrEqual(prevLong) && currShort.LessThan(currLong) {
		if s.lastSide != enum.OrderSideSell {
			s.lastSide = enum.OrderSideSell
			return model.Signal{
				Symbol:   symbol,
				Side:     enum.OrderSideSell,
				Quantity: s.quantity,
				Type:     enum.OrderTypeMarket,
				Price:    decimal.Zero,
			}, true
		}
	}

	return model.Signal{}, false
}
