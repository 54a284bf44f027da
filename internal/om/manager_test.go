package om

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model/enum"
)

func newTestManager() *Manager {
	m := NewManager()
	base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	step := 0
	m.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}
	return m
}

func TestSubmitOnlyFromPending(t *testing.T) {
	m := newTestManager()
	o := m.Create("AAPL", enum.OrderSideBuy, enum.OrderTypeMarket, 100, decimal.Zero)

	require.NoError(t, m.Submit(o.ID))
	assert.Equal(t, enum.OrderStatusSubmitted, o.Status)

	err := m.Submit(o.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, enum.OrderStatusSubmitted, o.Status, "failed submit must not mutate")
}

func TestCancelOnlyWhileActive(t *testing.T) {
	m := newTestManager()
	o := m.Create("AAPL", enum.OrderSideBuy, enum.OrderTypeLimit, 100, decimal.RequireFromString("150"))
	require.NoError(t, m.Submit(o.ID))
	require.NoError(t, m.Cancel(o.ID))
	assert.Equal(t, enum.OrderStatusCancelled, o.Status)

	assert.ErrorIs(t, m.Cancel(o.ID), ErrInvalidTransition)
	assert.ErrorIs(t, m.Cancel("no-such-order"), ErrUnknownOrder)
}

func TestFillClampsToRemaining(t *testing.T) {
	m := newTestManager()
	o := m.Create("AAPL", enum.OrderSideBuy, enum.OrderTypeMarket, 100, decimal.Zero)
	require.NoError(t, m.Submit(o.ID))

	trade, err := m.Fill(o.ID, 250, decimal.RequireFromString("150"), time.Time{})
	require.NoError(t, err)
	assert.EqualValues(t, 100, trade.Quantity, "fill is clamped to remaining quantity")
	assert.EqualValues(t, 100, o.FilledQuantity)
	assert.Equal(t, enum.OrderStatusFilled, o.Status)

	_, err = m.Fill(o.ID, 1, decimal.RequireFromString("150"), time.Time{})
	assert.ErrorIs(t, err, ErrInvalidTransition, "terminal orders reject further fills")
}

func TestPartialFillsWeightAveragePrice(t *testing.T) {
	m := newTestManager()
	o := m.Create("AAPL", enum.OrderSideBuy, enum.OrderTypeMarket, 100, decimal.Zero)
	require.NoError(t, m.Submit(o.ID))

	_, err := m.Fill(o.ID, 40, decimal.RequireFromString("150"), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPartial, o.Status)

	_, err = m.Fill(o.ID, 60, decimal.RequireFromString("160"), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusFilled, o.Status)

	// 40*150 + 60*160 over 100
	assert.True(t, o.AverageFillPrice.Equal(decimal.RequireFromString("156")),
		"average fill price = %s", o.AverageFillPrice)

	low := decimal.RequireFromString("150")
	high := decimal.RequireFromString("160")
	assert.True(t, o.AverageFillPrice.GreaterThanOrEqual(low) && o.AverageFillPrice.LessThanOrEqual(high),
		"average fill price must stay within the fill price range")
}

func TestFillStatusMatchesQuantityInvariant(t *testing.T) {
	m := newTestManager()
	o := m.Create("AAPL", enum.OrderSideSell, enum.OrderTypeMarket, 30, decimal.Zero)
	require.NoError(t, m.Submit(o.ID))

	total := int64(0)
	for _, q := range []int64{10, 10, 10} {
		trade, err := m.Fill(o.ID, q, decimal.RequireFromString("99.5"), time.Time{})
		require.NoError(t, err)
		total += trade.Quantity
		if total > o.Quantity {
			t.Fatalf("sum of fill quantities %d exceeds order quantity %d", total, o.Quantity)
		}
		filled := o.FilledQuantity == o.Quantity
		if filled != (o.Status == enum.OrderStatusFilled) {
			t.Fatalf("status %s inconsistent with filled=%d/%d", o.Status, o.FilledQuantity, o.Quantity)
		}
	}
}

func TestRejectOnlyFromPending(t *testing.T) {
	m := newTestManager()
	o := m.Create("AAPL", enum.OrderSideBuy, enum.OrderTypeMarket, 10, decimal.Zero)
	require.NoError(t, m.Reject(o.ID))
	assert.Equal(t, enum.OrderStatusRejected, o.Status)
	assert.ErrorIs(t, m.Submit(o.ID), ErrInvalidTransition)
}

func TestQueriesFilterAndOrder(t *testing.T) {
	m := newTestManager()
	a := m.Create("AAPL", enum.OrderSideBuy, enum.OrderTypeMarket, 10, decimal.Zero)
	b := m.Create("MSFT", enum.OrderSideBuy, enum.OrderTypeMarket, 10, decimal.Zero)
	c := m.Create("AAPL", enum.OrderSideSell, enum.OrderTypeMarket, 10, decimal.Zero)
	require.NoError(t, m.Submit(a.ID))
	require.NoError(t, m.Cancel(b.ID))

	active := m.ActiveOrders("")
	assert.Len(t, active, 2)
	assert.Len(t, m.ActiveOrders("AAPL"), 2)
	assert.Len(t, m.ActiveOrders("MSFT"), 0)

	history := m.History("")
	require.Len(t, history, 3)
	assert.Equal(t, c.ID, history[0].ID, "history is sorted by creation time descending")
	assert.Equal(t, a.ID, history[2].ID)

	_, err := m.Fill(a.ID, 10, decimal.RequireFromString("101"), time.Time{})
	require.NoError(t, err)
	assert.Len(t, m.Trades("AAPL"), 1)
	assert.Len(t, m.Trades("MSFT"), 0)
	assert.Equal(t, 1, m.TradeCount())
}
