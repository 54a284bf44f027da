package obs

import "sync/atomic"

// Metrics collects lightweight engine counters. All methods are nil-safe so
// callers can run without metrics wired.
type Metrics struct {
	barsProcessed   uint64
	signals         uint64
	ordersCreated   uint64
	ordersSubmitted uint64
	ordersRejected  uint64
	ordersCancelled uint64
	fills           uint64
	positionsClosed uint64
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	BarsProcessed   uint64
	Signals         uint64
	OrdersCreated   uint64
	OrdersSubmitted uint64
	OrdersRejected  uint64
	OrdersCancelled uint64
	Fills           uint64
	PositionsClosed uint64
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncBar records one processed market bar.
func (m *Metrics) IncBar() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.barsProcessed, 1)
}

// IncSignal records one strategy signal.
func (m *Metrics) IncSignal() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.signals, 1)
}

// IncOrderCreated records one created order.
func (m *Metrics) IncOrderCreated() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ordersCreated, 1)
}

// IncOrderSubmitted records one risk-approved submission.
func (m *Metrics) IncOrderSubmitted() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ordersSubmitted, 1)
}

// IncOrderRejected records one risk rejection.
func (m *Metrics) IncOrderRejected() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ordersRejected, 1)
}

// IncOrderCancelled records one cancellation.
func (m *Metrics) IncOrderCancelled() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ordersCancelled, 1)
}

// IncFill records one executed fill.
func (m *Metrics) IncFill() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.fills, 1)
}

// IncPositionClosed records one position closed to zero.
func (m *Metrics) IncPositionClosed() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.positionsClosed, 1)
}

// Snapshot captures the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		BarsProcessed:   atomic.LoadUint64(&m.barsProcessed),
		Signals:         atomic.LoadUint64(&m.signals),
		OrdersCreated:   atomic.LoadUint64(&m.ordersCreated),
		OrdersSubmitted: atomic.LoadUint64(&m.ordersSubmitted),
		OrdersRejected:  atomic.LoadUint64(&m.ordersRejected),
		OrdersCancelled: atomic.LoadUint64(&m.ordersCancelled),
		Fills:           atomic.LoadUint64(&m.fills),
		PositionsClosed: atomic.LoadUint64(&m.positionsClosed),
	}
}
