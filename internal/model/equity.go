package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquitySnapshot is one append-only point of the equity curve: cash plus the
// mark-to-market value of all open positions after a processed bar.
type EquitySnapshot struct {
	Timestamp time.Time       `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
}

// ClosedTrade is the realized result of a position that returned to zero
// quantity. It is the unit the backtest analyzer consumes.
type ClosedTrade struct {
	Symbol    string          `json:"symbol"`
	PnL       decimal.Decimal `json:"pnl"`
	Timestamp time.Time       `json:"timestamp"`
}
