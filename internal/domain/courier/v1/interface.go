package courierv1

import (
	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
)

// OrderHandler consumes inbound order instructions.
type OrderHandler interface {
	Apply(order *orderv1.Order)
}

// Courier is the only channel between the matching core and the outside
// world. Sends are fire-and-forget: the core assumes they always succeed and
// never blocks on them.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=courierv1_mock
type Courier interface {
	// SendResponse emits the engine's reply to an instruction.
	SendResponse(response *Response)
	// SendTrade emits one leg of a matched trade.
	SendTrade(trade *TradeReport)
	// SendMarketData emits a top-of-book summary.
	SendMarketData(md *MarketData)
	// Receive forwards an inbound order to the attached handler. Orders
	// arriving with no handler attached are dropped and counted.
	Receive(order *orderv1.Order)
}
