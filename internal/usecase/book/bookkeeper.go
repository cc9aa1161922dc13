package book

import (
	"time"

	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
)

// Bookkeeper aggregates execution and lifecycle statistics for one symbol's
// book. It is a pure aggregator with no matching logic; no operation may be
// undone. Trades, volume and the event counters count both legs of a cross.
type Bookkeeper struct {
	Rejects int64 `json:"rejects"`
	Cancels int64 `json:"cancels"`
	Amends  int64 `json:"amends"`

	Trades       int64   `json:"trades"`
	SharesTraded int64   `json:"sharesTraded"`
	Volume       float64 `json:"volume"`

	DailyHigh      float64   `json:"dailyHigh"`
	DailyLow       float64   `json:"dailyLow"`
	OpenPrice      float64   `json:"openPrice"`
	ClosePrice     float64   `json:"closePrice"`
	AvgSharePrice  float64   `json:"avgSharePrice"`
	LastTradePrice float64   `json:"lastTradePrice"`
	LastTradeTime  time.Time `json:"lastTradeTime"`
}

// Trade records one executed leg. The first leg of the session sets the open
// price and seeds the daily range.
func (b *Bookkeeper) Trade(direction orderv1.Direction, shares int64, price float64, at time.Time) {
	if b.Trades == 0 {
		b.OpenPrice = price
		b.DailyHigh = price
		b.DailyLow = price
	} else {
		if price > b.DailyHigh {
			b.DailyHigh = price
		}
		if price < b.DailyLow {
			b.DailyLow = price
		}
	}

	b.Trades++
	b.SharesTraded += shares
	b.Volume += price * float64(shares)
	b.LastTradePrice = price
	b.LastTradeTime = at
}

// Cancel records one cancelled order.
func (b *Bookkeeper) Cancel() {
	b.Cancels++
}

// Amend records one accepted amend.
func (b *Bookkeeper) Amend() {
	b.Amends++
}

// Reject records one rejected instruction.
func (b *Bookkeeper) Reject() {
	b.Rejects++
}

// Close seals the session: the close price is the last trade price and the
// average share price is volume over shares traded (0 with no trades).
func (b *Bookkeeper) Close() {
	b.ClosePrice = b.LastTradePrice
	if b.SharesTraded > 0 {
		b.AvgSharePrice = b.Volume / float64(b.SharesTraded)
	} else {
		b.AvgSharePrice = 0
	}
}
