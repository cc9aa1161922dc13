package courierv1

import (
	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
)

// ResponseStatus represents the terminal or lifecycle status carried by a Response.
type ResponseStatus string

const (
	// StatusAccepted acknowledges a limit order resting on the book.
	StatusAccepted ResponseStatus = "ACCEPTED"
	// StatusFilled reports an order fully executed.
	StatusFilled ResponseStatus = "FILLED"
	// StatusCancelled reports an order removed from the book.
	StatusCancelled ResponseStatus = "CANCELLED"
	// StatusAmended acknowledges an amend applied to a resting order.
	StatusAmended ResponseStatus = "AMENDED"
	// StatusRejected reports an instruction the engine refused; Reason carries the cause.
	StatusRejected ResponseStatus = "REJECTED"
)

// Response is the engine's reply to a single instruction.
type Response struct {
	OrderID     uint64         `json:"orderID"`
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	Symbol      string         `json:"symbol,omitempty"`
	Status      ResponseStatus `json:"status"`
	Reason      string         `json:"reason,omitempty"`
	Sequence    uint64         `json:"sequence,omitempty"`
}

// TradeReport is one leg of a matched trade. A single match produces two
// legs, one for the aggressor and one for the resting order, both at the
// resting order's price.
type TradeReport struct {
	TradeID    string            `json:"tradeID"`
	Symbol     string            `json:"symbol"`
	OrderID    uint64            `json:"orderID"`
	Origin     string            `json:"origin"`
	Direction  orderv1.Direction `json:"direction"`
	Shares     int64             `json:"shares"`
	Price      float64           `json:"price"`
	Aggressor  bool              `json:"aggressor"`
	ExecutedAt int64             `json:"executedAt"`
}

// MarketData is a per-symbol top-of-book and session summary.
type MarketData struct {
	Symbol         string  `json:"symbol"`
	IsOpen         bool    `json:"isOpen"`
	BestBidPrice   float64 `json:"bestBidPrice,omitempty"`
	BestBidShares  int64   `json:"bestBidShares,omitempty"`
	BestAskPrice   float64 `json:"bestAskPrice,omitempty"`
	BestAskShares  int64   `json:"bestAskShares,omitempty"`
	LastTradePrice float64 `json:"lastTradePrice,omitempty"`
	LastTradeTime  int64   `json:"lastTradeTime,omitempty"`
	DailyHigh      float64 `json:"dailyHigh,omitempty"`
	DailyLow       float64 `json:"dailyLow,omitempty"`
	SharesTraded   int64   `json:"sharesTraded"`
	Volume         float64 `json:"volume"`
	Timestamp      int64   `json:"timestamp"`
}
