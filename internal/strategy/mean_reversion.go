package strategy

import (
	"github.com/shopspring/decimal"

	"main/internal/model"
	"main/internal/model/enum"
)

// MeanReversion trades a Bollinger-style band: mean +/- k standard deviations
// of the closing price over a fixed period. Price at or below the lower band
// emits a buy limit at the current price, price at or above the upper band a
// sell limit.
//
// Unlike Momentum this is not edge-triggered: it keeps emitting on every bar
// while price stays outside the band, and relies on the risk gate to bound
// the resulting exposure.
type MeanReversion struct {
	Base

	period        int
	stdMultiplier decimal.Decimal
	quantity      int64
}

// NewMeanReversion creates a mean-reversion strategy with a band width of
// stdMultiplier standard deviations.
func NewMeanReversion(name string, period int, stdMultiplier decimal.Decimal, quantity int64) *MeanReversion {
	if name == "" {
		name = "mean-reversion"
	}
	return &MeanReversion{
		Base:          NewBase(name),
		period:        period,
		stdMultiplier: stdMultiplier,
		quantity:      quantity,
	}
}

func (s *MeanReversion) Evaluate(window []model.MarketBar) (model.Signal, bool) {
	if len(window) < s.period {
		return model.Signal{}, false
	}

	mean, stddev, ok := meanStddev(window, s.period)
	if !ok {
		return model.Signal{}, false
	}

	band := s.stdMultiplier.Mul(stddev)
	lower := mean.Sub(band)
	upper := mean.Add(band)

	last := window[len(window)-1]
	price := last.Close

	if price.LessThanOrEqual(lower) {
		return model.Signal{
			Symbol:   last.Symbol,
			Side:     enum.OrderSideBuy,
			Quantity: s.quantity,
			Type:     enum.OrderTypeLimit,
			Price:    price,
		}, true
	}

	if price.GreaterThanOrEqual(upper) {
		return model.Signal{
			Symbol:   last.Symbol,
			Side:     enum.OrderSideSell,
			Quantity: s.quantity,
			Type:     enum.OrderTypeLimit,
			Price:    price,
		}, true
	}

	return model.Signal{}, false
}
