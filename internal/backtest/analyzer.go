package backtest

import (
	"math"

	"github.com/shopspring/decimal"

	"main/internal/model"
)

// tradingDaysPerYear is the annualization base for Sharpe and Sortino.
const tradingDaysPerYear = 252

// Analyzer derives backtest performance metrics from a recorded equity curve
// and the closed-trade PnL list. It only reads its inputs and never mutates
// engine state; results can be recomputed at any time.
type Analyzer struct {
	// AnnualRiskFreeRate is the annual risk-free rate used by the Sharpe and
	// Sortino numerators.
	AnnualRiskFreeRate decimal.Decimal
}

// NewAnalyzer creates an analyzer with the conventional 2% annual risk-free
// rate.
func NewAnalyzer() *Analyzer {
	return &Analyzer{AnnualRiskFreeRate: decimal.RequireFromString("0.02")}
}

// Analyze computes the full metric set for one run.
func (a *Analyzer) Analyze(initialCapital decimal.Decimal, equityCurve []model.EquitySnapshot, trades []model.ClosedTrade) Result {
	result := Result{
		InitialCapital: initialCapital,
		FinalCapital:   initialCapital,
		EquityCurve:    equityCurve,
		DrawdownCurve:  []DrawdownPoint{},
		Trades:         trades,
	}
	if result.Trades == nil {
		result.Trades = []model.ClosedTrade{}
	}
	if result.EquityCurve == nil {
		result.EquityCurve = []model.EquitySnapshot{}
	}
	if len(equityCurve) == 0 {
		return result
	}

	result.FinalCapital = equityCurve[len(equityCurve)-1].Value
	result.TotalPnL = result.FinalCapital.Sub(initialCapital)
	if initialCapital.IsPositive() {
		result.TotalReturn = result.TotalPnL.Div(initialCapital).Mul(decimal.NewFromInt(100))
	}

	a.tradeStats(&result, trades)

	result.MaxDrawdown, result.MaxDrawdownPercent, result.DrawdownCurve = drawdown(equityCurve)

	returns := stepReturns(equityCurve)
	result.SharpeRatio = a.sharpe(returns)
	result.SortinoRatio = a.sortino(returns)

	result.StartDate = equityCurve[0].Timestamp
	result.EndDate = equityCurve[len(equityCurve)-1].Timestamp
	result.DurationDays = int(result.EndDate.Sub(result.StartDate).Hours() / 24)

	return result
}

func (a *Analyzer) tradeStats(result *Result, trades []model.ClosedTrade) {
	result.TotalTrades = len(trades)
	for _, t := range trades {
		switch {
		case t.PnL.IsPositive():
			result.WinningTrades++
			result.GrossProfit = result.GrossProfit.Add(t.PnL)
		case t.PnL.IsNegative():
			result.LosingTrades++
			result.GrossLoss = result.GrossLoss.Add(t.PnL.Abs())
		}
	}
	if result.TotalTrades > 0 {
		result.WinRate = decimal.NewFromInt(int64(result.WinningTrades)).
			Div(decimal.NewFromInt(int64(result.TotalTrades))).
			Mul(decimal.NewFromInt(100))
	}
	if result.GrossLoss.IsPositive() {
		result.ProfitFactor = result.GrossProfit.Div(result.GrossLoss)
	}
	if result.WinningTrades > 0 {
		result.AverageWin = result.GrossProfit.Div(decimal.NewFromInt(int64(result.WinningTrades)))
	}
	if result.LosingTrades > 0 {
		result.AverageLoss = result.GrossLoss.Div(decimal.NewFromInt(int64(result.LosingTrades)))
	}
}

// drawdown walks the curve with a running peak and keeps the running maxima
// of both the absolute and percentage drawdown.
func drawdown(curve []model.EquitySnapshot) (decimal.Decimal, decimal.Decimal, []DrawdownPoint) {
	maxDD := decimal.Zero
	maxDDPct := decimal.Zero
	points := make([]DrawdownPoint, 0, len(curve))
	if len(curve) == 0 {
		return maxDD, maxDDPct, points
	}

	peak := curve[0].Value
	for _, snap := range curve {
		if snap.Value.GreaterThan(peak) {
			peak = snap.Value
		}
		dd := peak.Sub(snap.Value)
		ddPct := decimal.Zero
		if peak.IsPositive() {
			ddPct = dd.Div(peak).Mul(decimal.NewFromInt(100))
		}
		if dd.GreaterThan(maxDD) {
			maxDD = dd
		}
		if ddPct.GreaterThan(maxDDPct) {
			maxDDPct = ddPct
		}
		points = append(points, DrawdownPoint{
			Timestamp:       snap.Timestamp,
			Drawdown:        dd,
			DrawdownPercent: ddPct,
		})
	}
	return maxDD, maxDDPct, points
}

// stepReturns are the per-step relative equity changes, skipping steps with a
// zero denominator.
func stepReturns(curve []model.EquitySnapshot) []decimal.Decimal {
	if len(curve) < 2 {
		return nil
	}
	returns := make([]decimal.Decimal, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Value
		if !prev.IsPositive() {
			continue
		}
		returns = append(returns, curve[i].Value.Sub(prev).Div(prev))
	}
	return returns
}

// sharpe annualizes mean excess return over total volatility. The square
// root and the ratio itself are computed in float64; every degenerate
// denominator resolves to zero.
func (a *Analyzer) sharpe(returns []decimal.Decimal) decimal.Decimal {
	if len(returns) < 2 {
		return decimal.Zero
	}
	mean, stddev := meanStddev(returns)
	if stddev == 0 {
		return decimal.Zero
	}
	dailyRF := a.AnnualRiskFreeRate.InexactFloat64() / tradingDaysPerYear
	return decimal.NewFromFloat((mean - dailyRF) / stddev * math.Sqrt(tradingDaysPerYear))
}

// sortino replaces the denominator with the downside deviation over negative
// returns only.
func (a *Analyzer) sortino(returns []decimal.Decimal) decimal.Decimal {
	if len(returns) < 2 {
		return decimal.Zero
	}
	mean, _ := meanStddev(returns)

	var downside []float64
	for _, r := range returns {
		if r.IsNegative() {
			downside = append(downside, r.InexactFloat64())
		}
	}
	if len(downside) == 0 {
		return decimal.Zero
	}
	var sumSq float64
	for _, r := range downside {
		sumSq += r * r
	}
	downsideDev := math.Sqrt(sumSq / float64(len(downside)))
	if downsideDev == 0 {
		return decimal.Zero
	}
	dailyRF := a.AnnualRiskFreeRate.InexactFloat64() / tradingDaysPerYear
	return decimal.NewFromFloat((mean - dailyRF) / downsideDev * math.Sqrt(tradingDaysPerYear))
}

func meanStddev(returns []decimal.Decimal) (mean float64, stddev float64) {
	values := make([]float64, len(returns))
	var sum float64
	for i, r := range returns {
		values[i] = r.InexactFloat64()
		sum += values[i]
	}
	mean = sum / float64(len(values))
	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	stddev = math.Sqrt(variance)
	return mean, stddev
}
