package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"main/internal/model"
)

// sma is the simple moving average of closing prices over the trailing period
// bars of the window. Returns false when the window is too short.
func sma(window []model.MarketBar, period int) (decimal.Decimal, bool) {
	if period <= 0 || len(window) < period {
		return decimal.Zero, false
	}
	sum := decimal.Zero
	for _, bar := range window[len(window)-period:] {
		sum = sum.Add(bar.Close)
	}
	return sum.Div(decimal.NewFromInt(int64(period))), true
}

// meanStddev computes mean and population standard deviation of closing
// prices over the trailing period bars. The square root is taken in float64;
// everything else stays decimal.
func meanStddev(window []model.MarketBar, period int) (decimal.Decimal, decimal.Decimal, bool) {
	mean, ok := sma(window, period)
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	variance := decimal.Zero
	for _, bar := range window[len(window)-period:] {
		diff := bar.Close.Sub(mean)
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.Div(decimal.NewFromInt(int64(period)))
	stddev := decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
	return mean, stddev, true
}
