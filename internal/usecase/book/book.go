package book

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	courierv1 "github.com/gide100/matching-engine/internal/domain/courier/v1"
	marketv1 "github.com/gide100/matching-engine/internal/domain/market/v1"
	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
	errs "github.com/gide100/matching-engine/pkg/errors"
)

var (
	// ErrBookClosed indicates an instruction against a book that is not open.
	ErrBookClosed = errors.New("book closed")
	// ErrUnknownOrder indicates a cancel or amend for an id that is not resting.
	ErrUnknownOrder = errors.New("unknown order")
	// ErrUnauthorized indicates a cancel or amend from a party that does not own the order.
	ErrUnauthorized = errors.New("not order owner")
	// ErrInvalidPrice indicates a limit price off the symbol's tick grid.
	ErrInvalidPrice = errors.New("price off tick grid")
	// ErrDuplicateOrder indicates an order id that is already resting on the book.
	ErrDuplicateOrder = errors.New("order id already resting")
	// ErrInvalidShares indicates an amend to a non-positive share count.
	ErrInvalidShares = errors.New("shares must be positive")
)

// Registrar tracks which book currently owns a resting order id, so the
// engine can route symbol-less cancels and amends. A Book registers an id
// when an order rests and unregisters it on fill, cancel and close.
type Registrar interface {
	Register(id uint64)
	Unregister(id uint64)
}

// activeOrder pairs the original instruction with its resting record.
type activeOrder struct {
	order  *orderv1.Order
	record *SideRecord
}

// Book is one symbol's matching state machine: two sides, an active-order
// table, an open/closed lifecycle and the crossing algorithm. The lifecycle
// is Closed → Open → Closed and terminal: a book constructed for a
// non-tradeable or delisted security never opens, and a closed book never
// reopens.
//
// All mutating operations serialize on one mutex, keeping the book
// single-threaded per symbol.
type Book struct {
	mu sync.Mutex

	symbol        string
	epoch         time.Time
	tickTable     *marketv1.TickTable
	previousClose float64
	isOpen        bool

	buy  *Side
	sell *Side

	activeOrders map[uint64]*activeOrder
	bookkeeper   Bookkeeper

	courier   courierv1.Courier
	registrar Registrar
}

// Stats is a point-in-time copy of a book's aggregate state.
type Stats struct {
	Symbol     string
	IsOpen     bool
	Bookkeeper Bookkeeper
	Buy        SideStats
	Sell       SideStats
}

// NewBook creates the book for one security. It opens immediately iff the
// security is tradeable and not already delisted; otherwise it stays closed
// forever. registrar may be nil.
func NewBook(security *marketv1.Security, tickTable *marketv1.TickTable, courier courierv1.Courier, registrar Registrar) *Book {
	return &Book{
		symbol:        security.Symbol,
		epoch:         time.Now(),
		tickTable:     tickTable,
		previousClose: security.ClosingPrice,
		isOpen:        security.Tradeable && !security.Delisted(),
		buy:           NewSide(orderv1.Buy),
		sell:          NewSide(orderv1.Sell),
		activeOrders:  make(map[uint64]*activeOrder),
		courier:       courier,
		registrar:     registrar,
	}
}

// Symbol returns the symbol this book trades.
func (b *Book) Symbol() string {
	return b.symbol
}

// IsOpen reports whether the book accepts instructions.
func (b *Book) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isOpen
}

// ActiveOrders returns the number of orders currently resting.
func (b *Book) ActiveOrders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.activeOrders)
}

// Stats returns a copy of the book's aggregate state.
func (b *Book) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		Symbol:     b.symbol,
		IsOpen:     b.isOpen,
		Bookkeeper: b.bookkeeper,
		Buy:        b.buy.Stats(),
		Sell:       b.sell.Stats(),
	}
}

// Execute runs a limit or market order through the crossing loop, resting
// any limit remainder. Every outcome is reported through the courier.
func (b *Book) Execute(order *orderv1.Order, sequence uint64, at time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.execute(order, sequence, at)
}

// execute is the unlocked core, shared with price amends so the
// remove-and-resubmit pair stays inside one critical section.
func (b *Book) execute(order *orderv1.Order, sequence uint64, at time.Time) error {
	if !b.isOpen {
		b.reject(order, sequence, errs.ErrBookClosed)
		return ErrBookClosed
	}
	if _, exists := b.activeOrders[order.ID]; exists {
		b.reject(order, sequence, errs.GeneralBadRequestError)
		return ErrDuplicateOrder
	}

	price := order.Price
	if order.Type == orderv1.TypeLimit {
		ok, rounded := b.tickTable.ValidateAndRound(price)
		if !ok {
			b.reject(order, sequence, errs.ErrInvalidPrice)
			return ErrInvalidPrice
		}
		price = rounded
	}

	record := &SideRecord{
		ID:        order.ID,
		Sequence:  sequence,
		Timestamp: at,
		Kind:      order.Type,
		Direction: order.Direction,
		Price:     price,
		Shares:    order.Shares,
		Visible:   true,
		Origin:    order.Origin,
	}

	b.cross(order, record, at)

	switch {
	case record.Shares == 0:
		b.respond(order.ID, order.Origin, order.Destination, courierv1.StatusFilled, "", sequence)
	case record.Kind == orderv1.TypeLimit:
		b.sideFor(record.Direction).Add(record)
		b.activeOrders[order.ID] = &activeOrder{order: order, record: record}
		if b.registrar != nil {
			b.registrar.Register(order.ID)
		}
		b.respond(order.ID, order.Origin, order.Destination, courierv1.StatusAccepted, "", sequence)
	default:
		// Market remainder is never queued: discard and count as a cancel.
		b.bookkeeper.Cancel()
		reason := errs.ErrInsufficientAskVolume
		if order.IsAsk() {
			reason = errs.ErrInsufficientBidVolume
		}
		b.respond(order.ID, order.Origin, order.Destination, courierv1.StatusCancelled, string(reason), sequence)
	}
	return nil
}

// cross consumes opposite-side liquidity while the incoming record is
// marketable. Each match executes at the resting order's price and produces
// two legs: one for the aggressor, one for the resting order.
func (b *Book) cross(order *orderv1.Order, record *SideRecord, at time.Time) {
	opposite := b.sideFor(record.Direction.Opposite())

	for record.Shares > 0 {
		top := opposite.Top()
		if top == nil {
			break
		}
		if record.Kind != orderv1.TypeMarket && !b.marketable(record, top) {
			break
		}

		quantity := min(record.Shares, top.Shares)
		execPrice := top.Price

		b.bookkeeper.Trade(record.Direction, quantity, execPrice, at)
		b.bookkeeper.Trade(top.Direction, quantity, execPrice, at)

		b.courier.SendTrade(b.tradeLeg(record, quantity, execPrice, true, at))
		b.courier.SendTrade(b.tradeLeg(top, quantity, execPrice, false, at))

		record.Shares -= quantity
		opposite.Fill(top, quantity)

		if top.Shares == 0 {
			resting := b.activeOrders[top.ID]
			opposite.Tombstone(top)
			delete(b.activeOrders, top.ID)
			if b.registrar != nil {
				b.registrar.Unregister(top.ID)
			}
			if resting != nil {
				b.respond(top.ID, resting.order.Origin, resting.order.Destination, courierv1.StatusFilled, "", top.Sequence)
			}
		}
	}
}

// marketable reports whether the incoming limit record crosses the best
// opposite resting price.
func (b *Book) marketable(record, top *SideRecord) bool {
	if record.Direction == orderv1.Buy {
		return record.Price >= top.Price
	}
	return record.Price <= top.Price
}

// Cancel removes a resting order. The requester must be the order's origin.
func (b *Book) Cancel(id uint64, origin, destination string, sequence uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isOpen {
		b.bookkeeper.Reject()
		b.respond(id, origin, destination, courierv1.StatusRejected, string(errs.ErrBookClosed), sequence)
		return ErrBookClosed
	}

	active, err := b.lookup(id, origin, destination, sequence)
	if err != nil {
		return err
	}

	b.removeActive(active)
	b.bookkeeper.Cancel()
	b.respond(id, origin, destination, courierv1.StatusCancelled, "", sequence)
	return nil
}

// Amend changes a resting order. A shares amend mutates the record in place,
// keeping its time priority. A price amend removes the record and resubmits
// it as a fresh limit order with the same remaining shares under the new
// sequence; it forfeits time priority and may cross immediately.
func (b *Book) Amend(order *orderv1.Order, sequence uint64, at time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isOpen {
		b.reject(order, sequence, errs.ErrBookClosed)
		return ErrBookClosed
	}

	active, err := b.lookup(order.ID, order.Origin, order.Destination, sequence)
	if err != nil {
		return err
	}
	record := active.record

	if order.Amend == orderv1.AmendShares {
		if order.Shares <= 0 {
			b.reject(order, sequence, errs.GeneralBadRequestError)
			return ErrInvalidShares
		}
		b.sideFor(record.Direction).AmendShares(record, order.Shares)
		b.bookkeeper.Amend()
		b.respond(order.ID, order.Origin, order.Destination, courierv1.StatusAmended, "", sequence)
		return nil
	}

	// Price amend. Validate before touching the book so a bad price leaves
	// the resting order untouched.
	if ok, _ := b.tickTable.ValidateAndRound(order.Price); !ok {
		b.reject(order, sequence, errs.ErrInvalidPrice)
		return ErrInvalidPrice
	}

	b.removeActive(active)
	b.bookkeeper.Amend()
	b.respond(order.ID, order.Origin, order.Destination, courierv1.StatusAmended, "", sequence)

	resubmitted := orderv1.NewLimit(
		order.ID,
		active.order.Origin,
		active.order.Destination,
		b.symbol,
		record.Direction,
		record.Shares,
		order.Price,
	)
	return b.execute(resubmitted, sequence, at)
}

// Close cancels every resting order, seals the bookkeeper and transitions
// the book to its terminal closed state. Closing an already-closed book is a
// no-op. Leaving an active order behind is a programming error, not an input
// condition, and panics.
func (b *Book) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isOpen {
		return
	}

	ids := make([]uint64, 0, len(b.activeOrders))
	for id := range b.activeOrders {
		ids = append(ids, id)
	}
	for _, id := range ids {
		active := b.activeOrders[id]
		b.removeActive(active)
		b.bookkeeper.Cancel()
		b.respond(id, active.order.Origin, active.order.Destination, courierv1.StatusCancelled, string(errs.ErrBookClosed), active.record.Sequence)
	}

	b.bookkeeper.Close()
	b.isOpen = false

	if len(b.activeOrders) != 0 {
		panic(fmt.Sprintf("book %s closed with %d active orders", b.symbol, len(b.activeOrders)))
	}
}

// MarketData assembles a top-of-book summary for publication.
func (b *Book) MarketData(at time.Time) *courierv1.MarketData {
	b.mu.Lock()
	defer b.mu.Unlock()

	md := &courierv1.MarketData{
		Symbol:       b.symbol,
		IsOpen:       b.isOpen,
		SharesTraded: b.bookkeeper.SharesTraded,
		Volume:       b.bookkeeper.Volume,
		DailyHigh:    b.bookkeeper.DailyHigh,
		DailyLow:     b.bookkeeper.DailyLow,
		Timestamp:    at.UnixNano(),
	}
	if price, shares, ok := b.buy.BestQuote(); ok {
		md.BestBidPrice = price
		md.BestBidShares = shares
	}
	if price, shares, ok := b.sell.BestQuote(); ok {
		md.BestAskPrice = price
		md.BestAskShares = shares
	}
	if b.bookkeeper.Trades > 0 {
		md.LastTradePrice = b.bookkeeper.LastTradePrice
		md.LastTradeTime = b.bookkeeper.LastTradeTime.UnixNano()
	}
	return md
}

// Side returns the side for the given direction, for inspection.
func (b *Book) Side(direction orderv1.Direction) *Side {
	return b.sideFor(direction)
}

func (b *Book) sideFor(direction orderv1.Direction) *Side {
	if direction == orderv1.Buy {
		return b.buy
	}
	return b.sell
}

// lookup resolves an active order and checks ownership, emitting the reject
// response on failure.
func (b *Book) lookup(id uint64, origin, destination string, sequence uint64) (*activeOrder, error) {
	active, ok := b.activeOrders[id]
	if !ok {
		b.bookkeeper.Reject()
		b.respond(id, origin, destination, courierv1.StatusRejected, string(errs.ErrUnknownOrder), sequence)
		return nil, ErrUnknownOrder
	}
	if active.record.Origin != origin {
		b.bookkeeper.Reject()
		b.respond(id, origin, destination, courierv1.StatusRejected, string(errs.ErrUnauthorized), sequence)
		return nil, ErrUnauthorized
	}
	return active, nil
}

// removeActive physically removes a resting order from its side and the
// active-order table.
func (b *Book) removeActive(active *activeOrder) {
	b.sideFor(active.record.Direction).Remove(active.record)
	delete(b.activeOrders, active.record.ID)
	if b.registrar != nil {
		b.registrar.Unregister(active.record.ID)
	}
}

// reject books a reject and emits the rejected response.
func (b *Book) reject(order *orderv1.Order, sequence uint64, reason errs.ErrorCode) {
	b.bookkeeper.Reject()
	b.respond(order.ID, order.Origin, order.Destination, courierv1.StatusRejected, string(reason), sequence)
}

func (b *Book) respond(id uint64, origin, destination string, status courierv1.ResponseStatus, reason string, sequence uint64) {
	b.courier.SendResponse(&courierv1.Response{
		OrderID:     id,
		Origin:      origin,
		Destination: destination,
		Symbol:      b.symbol,
		Status:      status,
		Reason:      reason,
		Sequence:    sequence,
	})
}

func (b *Book) tradeLeg(record *SideRecord, shares int64, price float64, aggressor bool, at time.Time) *courierv1.TradeReport {
	return &courierv1.TradeReport{
		TradeID:    ulid.Make().String(),
		Symbol:     b.symbol,
		OrderID:    record.ID,
		Origin:     record.Origin,
		Direction:  record.Direction,
		Shares:     shares,
		Price:      price,
		Aggressor:  aggressor,
		ExecutedAt: at.UnixNano(),
	}
}
