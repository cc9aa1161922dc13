package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
)

func newRecord(id, sequence uint64, direction orderv1.Direction, shares int64, price float64) *SideRecord {
	return &SideRecord{
		ID:        id,
		Sequence:  sequence,
		Timestamp: time.Now(),
		Kind:      orderv1.TypeLimit,
		Direction: direction,
		Price:     price,
		Shares:    shares,
		Visible:   true,
		Origin:    "Client1",
	}
}

// Test 1: Bids rank higher prices first, ties by sequence
func TestSide_BidPriority(t *testing.T) {
	side := NewSide(orderv1.Buy)

	side.Add(newRecord(1, 1, orderv1.Buy, 10, 9.0))
	side.Add(newRecord(2, 2, orderv1.Buy, 10, 10.0))
	side.Add(newRecord(3, 3, orderv1.Buy, 10, 10.0))

	top := side.Top()
	require.NotNil(t, top)
	assert.Equal(t, uint64(2), top.ID) // best price, earliest sequence

	var order []uint64
	side.Walk(func(r *SideRecord) { order = append(order, r.ID) })
	assert.Equal(t, []uint64{2, 3, 1}, order)
}

// Test 2: Asks rank lower prices first
func TestSide_AskPriority(t *testing.T) {
	side := NewSide(orderv1.Sell)

	side.Add(newRecord(1, 1, orderv1.Sell, 10, 11.0))
	side.Add(newRecord(2, 2, orderv1.Sell, 10, 10.5))

	top := side.Top()
	require.NotNil(t, top)
	assert.Equal(t, uint64(2), top.ID)
}

// Test 3: Stats track resting state; Volume only ever grows
func TestSide_Stats(t *testing.T) {
	side := NewSide(orderv1.Buy)

	a := newRecord(1, 1, orderv1.Buy, 10, 5.0)
	b := newRecord(2, 2, orderv1.Buy, 20, 4.0)
	side.Add(a)
	side.Add(b)

	stats := side.Stats()
	assert.Equal(t, int64(2), stats.Trades)
	assert.Equal(t, int64(30), stats.Shares)
	assert.Equal(t, 130.0, stats.Value) // 10*5 + 20*4
	assert.Equal(t, 130.0, stats.Volume)

	require.True(t, side.Remove(a))
	stats = side.Stats()
	assert.Equal(t, int64(1), stats.Trades)
	assert.Equal(t, int64(20), stats.Shares)
	assert.Equal(t, 80.0, stats.Value)
	assert.Equal(t, 130.0, stats.Volume) // monotonic
}

// Test 4: Remove is physical and idempotent-safe via return value
func TestSide_Remove(t *testing.T) {
	side := NewSide(orderv1.Sell)

	a := newRecord(1, 1, orderv1.Sell, 10, 5.0)
	side.Add(a)

	require.True(t, side.Remove(a))
	assert.Nil(t, side.Find(1))
	assert.Nil(t, side.Top())
	assert.False(t, side.Remove(a))
}

// Test 5: AmendShares keeps the record's position and priority
func TestSide_AmendSharesKeepsPriority(t *testing.T) {
	side := NewSide(orderv1.Buy)

	first := newRecord(1, 1, orderv1.Buy, 10, 5.0)
	second := newRecord(2, 2, orderv1.Buy, 10, 5.0)
	side.Add(first)
	side.Add(second)

	side.AmendShares(first, 50)

	top := side.Top()
	require.NotNil(t, top)
	assert.Equal(t, uint64(1), top.ID)
	assert.Equal(t, int64(50), top.Shares)

	stats := side.Stats()
	assert.Equal(t, int64(60), stats.Shares)
	assert.Equal(t, 300.0, stats.Value)
	assert.Equal(t, 100.0, stats.Volume) // unchanged by the amend
}

// Test 6: Tombstoned records vanish lazily
func TestSide_TombstoneLazyRemoval(t *testing.T) {
	side := NewSide(orderv1.Sell)

	best := newRecord(1, 1, orderv1.Sell, 10, 5.0)
	next := newRecord(2, 2, orderv1.Sell, 10, 6.0)
	side.Add(best)
	side.Add(next)

	side.Fill(best, 10)
	side.Tombstone(best)

	assert.Nil(t, side.Find(1))
	assert.Equal(t, 1, side.Len())

	// Top discards the tombstone and surfaces the next record.
	top := side.Top()
	require.NotNil(t, top)
	assert.Equal(t, uint64(2), top.ID)
}

// Test 7: Tombstone beneath the top stays queued without breaking order
func TestSide_TombstoneBelowTop(t *testing.T) {
	side := NewSide(orderv1.Sell)

	best := newRecord(1, 1, orderv1.Sell, 10, 5.0)
	middle := newRecord(2, 2, orderv1.Sell, 10, 6.0)
	worst := newRecord(3, 3, orderv1.Sell, 10, 7.0)
	side.Add(best)
	side.Add(middle)
	side.Add(worst)

	side.Fill(middle, 10)
	side.Tombstone(middle)

	assert.Equal(t, uint64(1), side.Top().ID)

	var order []uint64
	side.Walk(func(r *SideRecord) { order = append(order, r.ID) })
	assert.Equal(t, []uint64{1, 3}, order)
}

// Test 8: BestQuote sums visible shares at the top price only
func TestSide_BestQuote(t *testing.T) {
	side := NewSide(orderv1.Buy)

	_, _, ok := side.BestQuote()
	assert.False(t, ok)

	side.Add(newRecord(1, 1, orderv1.Buy, 10, 5.0))
	side.Add(newRecord(2, 2, orderv1.Buy, 20, 5.0))
	side.Add(newRecord(3, 3, orderv1.Buy, 99, 4.0))

	price, shares, ok := side.BestQuote()
	require.True(t, ok)
	assert.Equal(t, 5.0, price)
	assert.Equal(t, int64(30), shares)
}

// Test 9: Fill conserves shares between record and stats
func TestSide_FillConservation(t *testing.T) {
	side := NewSide(orderv1.Sell)

	a := newRecord(1, 1, orderv1.Sell, 100, 2.0)
	side.Add(a)

	side.Fill(a, 40)
	assert.Equal(t, int64(60), a.Shares)
	assert.Equal(t, int64(60), side.Stats().Shares)
	assert.Equal(t, 120.0, side.Stats().Value)
}
