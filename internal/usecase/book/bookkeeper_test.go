package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
)

// Test 1: First trade seeds the open price and daily range
func TestBookkeeper_FirstTrade(t *testing.T) {
	var bk Bookkeeper
	at := time.Now()

	bk.Trade(orderv1.Buy, 10, 5.0, at)

	assert.Equal(t, int64(1), bk.Trades)
	assert.Equal(t, 5.0, bk.OpenPrice)
	assert.Equal(t, 5.0, bk.DailyHigh)
	assert.Equal(t, 5.0, bk.DailyLow)
	assert.Equal(t, 5.0, bk.LastTradePrice)
	assert.Equal(t, at, bk.LastTradeTime)
}

// Test 2: Daily range widens, open price stays
func TestBookkeeper_DailyRange(t *testing.T) {
	var bk Bookkeeper
	at := time.Now()

	bk.Trade(orderv1.Buy, 10, 5.0, at)
	bk.Trade(orderv1.Sell, 10, 7.0, at)
	bk.Trade(orderv1.Buy, 10, 4.0, at)

	assert.Equal(t, 5.0, bk.OpenPrice)
	assert.Equal(t, 7.0, bk.DailyHigh)
	assert.Equal(t, 4.0, bk.DailyLow)
	assert.Equal(t, 4.0, bk.LastTradePrice)
	assert.Equal(t, int64(30), bk.SharesTraded)
	assert.Equal(t, 160.0, bk.Volume) // 50 + 70 + 40
}

// Test 3: Close derives the close price and average share price
func TestBookkeeper_Close(t *testing.T) {
	var bk Bookkeeper
	at := time.Now()

	bk.Trade(orderv1.Buy, 10, 4.0, at)
	bk.Trade(orderv1.Sell, 30, 8.0, at)
	bk.Close()

	assert.Equal(t, 8.0, bk.ClosePrice)
	assert.Equal(t, 7.0, bk.AvgSharePrice) // 280 / 40
}

// Test 4: Close with no trades yields zeros
func TestBookkeeper_CloseEmpty(t *testing.T) {
	var bk Bookkeeper
	bk.Close()

	assert.Zero(t, bk.ClosePrice)
	assert.Zero(t, bk.AvgSharePrice)
}

// Test 5: Lifecycle counters are independent
func TestBookkeeper_Counters(t *testing.T) {
	var bk Bookkeeper

	bk.Cancel()
	bk.Cancel()
	bk.Amend()
	bk.Reject()

	assert.Equal(t, int64(2), bk.Cancels)
	assert.Equal(t, int64(1), bk.Amends)
	assert.Equal(t, int64(1), bk.Rejects)
	assert.Zero(t, bk.Trades)
}
