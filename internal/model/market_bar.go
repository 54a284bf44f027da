package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketBar is a single OHLCV price bar for one symbol.
// Bars are immutable once created.
type MarketBar struct {
	Symbol    string          `json:"symbol"`
	Timestamp time.Time       `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
}
