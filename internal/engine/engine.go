package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"main/internal/backtest"
	"main/internal/model"
	"main/internal/obs"
	"main/internal/om"
	"main/internal/portfolio"
	"main/internal/risk"
	"main/internal/sim"
	"main/internal/strategy"
)

// ExecutionMode selects how risk-approved orders get executed.
type ExecutionMode uint8

const (
	// ModeSimulated executes orders against the built-in per-bar simulator.
	ModeSimulated ExecutionMode = iota
	// ModeLive parks risk-approved orders in the outbox for a layer above to
	// place through a broker connector. The core itself never performs
	// network calls inside the per-bar loop.
	ModeLive
)

// Config carries the engine construction parameters.
type Config struct {
	InitialCapital decimal.Decimal
	Limits         risk.Limits
	Mode           ExecutionMode
	// MaxWindow caps the per-symbol rolling bar window. Zero keeps every bar.
	MaxWindow int
}

// Engine is the deterministic, single-threaded trading core. Each bar is
// processed to completion under one mutex: signal generation, risk gating,
// submission, execution, accounting, equity snapshot.
type Engine struct {
	mu sync.Mutex

	cfg        Config
	orders     *om.Manager
	gate       *risk.Gate
	book       *portfolio.Book
	simulator  *sim.Simulator
	metrics    *obs.Metrics
	strategies []strategy.Strategy

	windows map[string][]model.MarketBar
	prices  map[string]decimal.Decimal

	equityTracking bool
	equityCurve    []model.EquitySnapshot
	closedTrades   []model.ClosedTrade
	outbox         []*model.Order

	running bool
}

// New creates an engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:       cfg,
		orders:    om.NewManager(),
		gate:      risk.NewGate(cfg.Limits),
		book:      portfolio.NewBook(cfg.InitialCapital),
		simulator: sim.New(),
		metrics:   obs.NewMetrics(),
		windows:   make(map[string][]model.MarketBar),
		prices:    make(map[string]decimal.Decimal),
	}
}

// AddStrategy registers a strategy for evaluation.
func (e *Engine) AddStrategy(s strategy.Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategies = append(e.strategies, s)
}

// RemoveStrategy unregisters a strategy by name.
func (e *Engine) RemoveStrategy(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.strategies[:0]
	for _, s := range e.strategies {
		if s.Name() != name {
			kept = append(kept, s)
		}
	}
	e.strategies = kept
}

// Start begins processing signals on incoming bars.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
	logs.Info("trading engine started")
}

// Stop halts signal processing and bulk-cancels every active order. The
// single-threaded contract guarantees no fill can race the cancellation.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	for _, o := range e.orders.ActiveOrders("") {
		if err := e.orders.Cancel(o.ID); err == nil {
			e.metrics.IncOrderCancelled()
		}
	}
	logs.Info("trading engine stopped")
}

// EnableEquityTracking records one equity snapshot per processed bar.
func (e *Engine) EnableEquityTracking() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.equityTracking = true
}

// OnMarketBar processes one bar to completion. Bars for one symbol must
// arrive in non-decreasing timestamp order.
func (e *Engine) OnMarketBar(bar model.MarketBar) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.metrics.IncBar()

	window := append(e.windows[bar.Symbol], bar)
	if e.cfg.MaxWindow > 0 && len(window) > e.cfg.MaxWindow {
		window = window[len(window)-e.cfg.MaxWindow:]
	}
	e.windows[bar.Symbol] = window
	e.prices[bar.Symbol] = bar.Close

	if !e.running {
		return
	}

	e.generateSignals(bar.Symbol)
	if e.cfg.Mode == ModeSimulated {
		e.executeOrders(bar)
	}

	if e.equityTracking {
		e.equityCurve = append(e.equityCurve, model.EquitySnapshot{
			Timestamp: bar.Timestamp,
			Value:     e.book.Equity(e.prices),
		})
	}
}

func (e *Engine) generateSignals(symbol string) {
	window := e.windows[symbol]
	for _, s := range e.strategies {
		if !s.Enabled() {
			continue
		}
		signal, ok := s.Evaluate(window)
		if !ok {
			continue
		}
		e.metrics.IncSignal()
		e.createOrderFromSignal(s.Name(), signal)
	}
}

func (e *Engine) createOrderFromSignal(strategyName string, signal model.Signal) {
	order := e.orders.Create(signal.Symbol, signal.Side, signal.Type, signal.Quantity, signal.Price)
	e.metrics.IncOrderCreated()

	currentPrice, ok := e.prices[signal.Symbol]
	if !ok {
		return
	}

	passed, reason := e.gate.Check(order, e.book.Positions(), currentPrice)
	if !passed {
		_ = e.orders.Reject(order.ID)
		e.metrics.IncOrderRejected()
		logs.Warnf("order rejected: strategy %s, %s", strategyName, reason)
		return
	}

	if err := e.orders.Submit(order.ID); err != nil {
		return
	}
	e.metrics.IncOrderSubmitted()

	if e.cfg.Mode == ModeLive {
		e.outbox = append(e.outbox, order)
	}
}

// executeOrders runs the simulator over every active order using each
// order's own symbol price.
func (e *Engine) executeOrders(bar model.MarketBar) {
	symbols := make([]string, 0, len(e.prices))
	for symbol := range e.prices {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		active := e.orders.ActiveOrders(symbol)
		if len(active) == 0 {
			continue
		}
		for _, fill := range e.simulator.Plan(active, e.prices[symbol]) {
			trade, err := e.orders.Fill(fill.OrderID, fill.Quantity, fill.Price, bar.Timestamp)
			if err != nil {
				continue
			}
			e.metrics.IncFill()
			e.applyTrade(trade)
		}
	}
}

func (e *Engine) applyTrade(trade model.Trade) {
	flushedPnL, flushed := e.book.ApplyTrade(trade)
	if flushed {
		e.gate.UpdateDailyPnL(flushedPnL)
		e.metrics.IncPositionClosed()
		e.closedTrades = append(e.closedTrades, model.ClosedTrade{
			Symbol:    trade.Symbol,
			PnL:       flushedPnL,
			Timestamp: trade.Timestamp,
		})
	}
}

// ApplyExternalFill feeds a fill reported by a broker connector through the
// same accounting path the simulator uses. The layer above calls this from
// outside the per-bar loop.
func (e *Engine) ApplyExternalFill(orderID string, quantity int64, price decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	trade, err := e.orders.Fill(orderID, quantity, price, time.Now())
	if err != nil {
		return err
	}
	e.metrics.IncFill()
	e.applyTrade(trade)
	return nil
}

// Outbox drains the risk-approved orders waiting for live placement.
func (e *Engine) Outbox() []*model.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.outbox
	e.outbox = nil
	return out
}

// ResetDailyPnL clears the risk gate's daily total before a trading day.
func (e *Engine) ResetDailyPnL() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gate.ResetDailyPnL()
}

// PortfolioValue is cash plus the mark-to-market of all open positions.
func (e *Engine) PortfolioValue() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Equity(e.prices)
}

// TotalPnL is the portfolio value minus the initial capital.
func (e *Engine) TotalPnL() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Equity(e.prices).Sub(e.cfg.InitialCapital)
}

// EquityCurve returns a copy of the recorded equity snapshots.
func (e *Engine) EquityCurve() []model.EquitySnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.EquitySnapshot, len(e.equityCurve))
	copy(out, e.equityCurve)
	return out
}

// ClosedTrades returns a copy of the closed-trade PnL list.
func (e *Engine) ClosedTrades() []model.ClosedTrade {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.ClosedTrade, len(e.closedTrades))
	copy(out, e.closedTrades)
	return out
}

// Trades returns all recorded fills.
func (e *Engine) Trades() []model.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orders.Trades("")
}

// OrderHistory returns all orders sorted by creation time descending.
func (e *Engine) OrderHistory() []*model.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orders.History("")
}

// PositionSnapshot captures cash and open positions for persistence.
func (e *Engine) PositionSnapshot() portfolio.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Snapshot()
}

// MetricsSnapshot returns the current engine counters.
func (e *Engine) MetricsSnapshot() obs.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics.Snapshot()
}

// BacktestResult computes the analytics over the recorded equity curve and
// closed trades. It can be recomputed at any time and never mutates state.
func (e *Engine) BacktestResult() backtest.Result {
	curve := e.EquityCurve()
	trades := e.ClosedTrades()
	return backtest.NewAnalyzer().Analyze(e.cfg.InitialCapital, curve, trades)
}
