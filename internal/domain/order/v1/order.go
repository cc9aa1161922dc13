package orderv1

// Type represents the kind of instruction carried by an Order.
type Type string

const (
	// TypeLimit represents a limit order.
	TypeLimit Type = "LIMIT"
	// TypeMarket represents a market order.
	TypeMarket Type = "MARKET"
	// TypeCancel represents a cancel instruction for a resting order.
	TypeCancel Type = "CANCEL"
	// TypeAmend represents an amend instruction for a resting order.
	TypeAmend Type = "AMEND"
)

// Direction represents the side an order trades on.
type Direction string

const (
	// Buy is the bid side.
	Buy Direction = "BUY"
	// Sell is the ask side.
	Sell Direction = "SELL"
)

// Opposite returns the other side of the book.
func (d Direction) Opposite() Direction {
	if d == Buy {
		return Sell
	}
	return Buy
}

// AmendField identifies which attribute an amend instruction changes.
// An amend carries exactly one of them.
type AmendField string

const (
	// AmendPrice amends the resting price. The order loses time priority.
	AmendPrice AmendField = "price"
	// AmendShares amends the remaining shares in place, keeping priority.
	AmendShares AmendField = "shares"
)

// Order is a single immutable instruction handed to the engine exactly once.
// The Type tag closes the variant set; consumers dispatch with a switch.
// For AMEND instructions Price or Shares holds the new value, selected by Amend.
type Order struct {
	ID          uint64     `json:"id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Type        Type       `json:"type"`
	Symbol      string     `json:"symbol,omitempty"`
	Direction   Direction  `json:"direction,omitempty"`
	Shares      int64      `json:"shares,omitempty"`
	Price       float64    `json:"price,omitempty"`
	Amend       AmendField `json:"amend,omitempty"`
}

// NewLimit creates a limit order instruction.
func NewLimit(id uint64, origin, destination, symbol string, direction Direction, shares int64, price float64) *Order {
	return &Order{
		ID:          id,
		Origin:      origin,
		Destination: destination,
		Type:        TypeLimit,
		Symbol:      symbol,
		Direction:   direction,
		Shares:      shares,
		Price:       price,
	}
}

// NewMarket creates a market order instruction.
func NewMarket(id uint64, origin, destination, symbol string, direction Direction, shares int64) *Order {
	return &Order{
		ID:          id,
		Origin:      origin,
		Destination: destination,
		Type:        TypeMarket,
		Symbol:      symbol,
		Direction:   direction,
		Shares:      shares,
	}
}

// NewCancel creates a cancel instruction for the order with the given id.
func NewCancel(id uint64, origin, destination string) *Order {
	return &Order{
		ID:          id,
		Origin:      origin,
		Destination: destination,
		Type:        TypeCancel,
	}
}

// NewAmendPrice creates an amend instruction that moves the order to a new price.
func NewAmendPrice(id uint64, origin, destination string, price float64) *Order {
	return &Order{
		ID:          id,
		Origin:      origin,
		Destination: destination,
		Type:        TypeAmend,
		Amend:       AmendPrice,
		Price:       price,
	}
}

// NewAmendShares creates an amend instruction that changes the remaining shares.
func NewAmendShares(id uint64, origin, destination string, shares int64) *Order {
	return &Order{
		ID:          id,
		Origin:      origin,
		Destination: destination,
		Type:        TypeAmend,
		Amend:       AmendShares,
		Shares:      shares,
	}
}

// IsBid checks if the order trades on the bid side.
func (o *Order) IsBid() bool {
	return o.Direction == Buy
}

// IsAsk checks if the order trades on the ask side.
func (o *Order) IsAsk() bool {
	return o.Direction == Sell
}
