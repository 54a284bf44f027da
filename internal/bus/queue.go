package bus

import (
	"context"
	"sync/atomic"

	"github.com/yanun0323/errors"

	"main/internal/model"
)

var (
	ErrQueueFull   = errors.New("bar queue full")
	ErrQueueClosed = errors.New("bar queue closed")
)

// Queue is a bounded, non-blocking market bar queue. It serializes bar
// deliveries from multiple producers into the engine's single consumer so
// per-bar processing never interleaves.
type Queue struct {
	ch     chan model.MarketBar
	closed uint32
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan model.MarketBar, capacity)}
}

// TryPublish enqueues a bar without blocking.
func (q *Queue) TryPublish(bar model.MarketBar) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return ErrQueueClosed
	}
	select {
	case q.ch <- bar:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the queue from accepting new bars.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Run consumes bars until the context is done or the queue is closed.
func (q *Queue) Run(ctx context.Context, handler func(model.MarketBar)) {
	for {
		select {
		case <-ctx.Done():
			return
		case bar, ok := <-q.ch:
			if !ok {
				return
			}
			handler(bar)
		}
	}
}
