package backtest

import (
	"encoding/json"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/model"
)

// DrawdownPoint is one point of the drawdown curve.
type DrawdownPoint struct {
	Timestamp       time.Time       `json:"timestamp"`
	Drawdown        decimal.Decimal `json:"drawdown"`
	DrawdownPercent decimal.Decimal `json:"drawdownPercent"`
}

// Result is the immutable outcome of a backtest run. It is a pure value
// computed from the equity curve and closed-trade list; serializing and
// deserializing it reproduces equivalent field values.
type Result struct {
	InitialCapital decimal.Decimal `json:"initialCapital"`
	FinalCapital   decimal.Decimal `json:"finalCapital"`
	TotalPnL       decimal.Decimal `json:"totalPnl"`
	TotalReturn    decimal.Decimal `json:"totalReturn"` // percent

	TotalTrades   int             `json:"totalTrades"`
	WinningTrades int             `json:"winningTrades"`
	LosingTrades  int             `json:"losingTrades"`
	WinRate       decimal.Decimal `json:"winRate"` // percent

	GrossProfit  decimal.Decimal `json:"grossProfit"`
	GrossLoss    decimal.Decimal `json:"grossLoss"`
	ProfitFactor decimal.Decimal `json:"profitFactor"`
	AverageWin   decimal.Decimal `json:"averageWin"`
	AverageLoss  decimal.Decimal `json:"averageLoss"`

	MaxDrawdown        decimal.Decimal `json:"maxDrawdown"`
	MaxDrawdownPercent decimal.Decimal `json:"maxDrawdownPercent"`
	SharpeRatio        decimal.Decimal `json:"sharpeRatio"`
	SortinoRatio       decimal.Decimal `json:"sortinoRatio"`

	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	DurationDays int       `json:"durationDays"`

	EquityCurve   []model.EquitySnapshot `json:"equityCurve"`
	DrawdownCurve []DrawdownPoint        `json:"drawdownCurve"`
	Trades        []model.ClosedTrade    `json:"trades"`
}

// WriteFile saves the result as indented JSON.
func (r Result) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal backtest result")
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a result previously saved with WriteFile.
func ReadFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.Wrap(err, "read backtest result")
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, errors.Wrap(err, "unmarshal backtest result")
	}
	return r, nil
}
