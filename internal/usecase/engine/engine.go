package engine

import (
	"sync"
	"sync/atomic"
	"time"

	courierv1 "github.com/gide100/matching-engine/internal/domain/courier/v1"
	marketv1 "github.com/gide100/matching-engine/internal/domain/market/v1"
	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
	"github.com/gide100/matching-engine/internal/usecase/book"
	errs "github.com/gide100/matching-engine/pkg/errors"
	"github.com/gide100/matching-engine/pkg/logger"
)

// MatchingEngine owns one Book per security in the database, routes inbound
// instructions by symbol and assigns the global sequencing. The sequence
// counter is the engine's own field, issued atomically and monotonically;
// one number is assigned per accepted instruction before routing.
type MatchingEngine struct {
	exchangeID string
	db         marketv1.Database
	courier    courierv1.Courier
	logger     *logger.Logger

	books    []*book.Book
	sequence atomic.Uint64
	rejects  atomic.Int64

	// orderIndex maps a resting order id to its book, so cancels and
	// amends that carry no symbol still route without scanning books.
	// Books maintain it through their registrar on rest/fill/cancel/close.
	mu         sync.Mutex
	orderIndex map[uint64]int
}

// EngineStats aggregates bookkeeping across all books.
type EngineStats struct {
	Symbols      int64          `json:"symbols"`
	OpenBooks    int64          `json:"openBooks"`
	ActiveTrades int64          `json:"activeTrades"`
	Trades       int64          `json:"trades"`
	SharesTraded int64          `json:"sharesTraded"`
	Volume       float64        `json:"volume"`
	Cancels      int64          `json:"cancels"`
	Amends       int64          `json:"amends"`
	Rejects      int64          `json:"rejects"`
	Buy          book.SideStats `json:"buy"`
	Sell         book.SideStats `json:"sell"`
}

// bookRegistrar binds one book's resting ids to its index in the engine.
type bookRegistrar struct {
	engine *MatchingEngine
	index  int
}

func (r *bookRegistrar) Register(id uint64) {
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()
	r.engine.orderIndex[id] = r.index
}

func (r *bookRegistrar) Unregister(id uint64) {
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()
	delete(r.engine.orderIndex, id)
}

// NewMatchingEngine builds one book per security in the database. Books for
// tradeable, listed securities open immediately; the rest stay closed.
func NewMatchingEngine(exchangeID string, db marketv1.Database, courier courierv1.Courier, log *logger.Logger) *MatchingEngine {
	e := &MatchingEngine{
		exchangeID: exchangeID,
		db:         db,
		courier:    courier,
		logger:     log,
		books:      make([]*book.Book, db.Len()),
		orderIndex: make(map[uint64]int),
	}

	for i := 0; i < db.Len(); i++ {
		e.books[i] = book.NewBook(db.Record(i), db.TickTable(i), courier, &bookRegistrar{engine: e, index: i})
		e.logger.Debug("book created",
			logger.Field{Key: "symbol", Value: e.books[i].Symbol()},
			logger.Field{Key: "open", Value: e.books[i].IsOpen()},
		)
	}

	return e
}

// Apply routes a single instruction to its book. An instruction for an
// unknown symbol (or an unroutable cancel/amend) is rejected at the engine
// level without touching any book or consuming a sequence number.
func (e *MatchingEngine) Apply(order *orderv1.Order) {
	index, reason, ok := e.resolve(order)
	if !ok {
		e.rejects.Add(1)
		e.courier.SendResponse(&courierv1.Response{
			OrderID:     order.ID,
			Origin:      order.Origin,
			Destination: order.Destination,
			Symbol:      order.Symbol,
			Status:      courierv1.StatusRejected,
			Reason:      reason,
		})
		e.logger.Warn("instruction unroutable",
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "symbol", Value: order.Symbol},
			logger.Field{Key: "reason", Value: reason},
		)
		return
	}

	sequence := e.sequence.Add(1)
	now := time.Now()
	target := e.books[index]

	var err error
	switch order.Type {
	case orderv1.TypeLimit, orderv1.TypeMarket:
		err = target.Execute(order, sequence, now)
	case orderv1.TypeCancel:
		err = target.Cancel(order.ID, order.Origin, order.Destination, sequence)
	case orderv1.TypeAmend:
		err = target.Amend(order, sequence, now)
	}

	if err != nil {
		e.logger.Debug("instruction rejected",
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "symbol", Value: target.Symbol()},
			logger.Field{Key: "sequence", Value: sequence},
			logger.Field{Key: "reason", Value: err.Error()},
		)
	}
}

// resolve finds the book index for an instruction: by symbol when present,
// otherwise through the resting-order index.
func (e *MatchingEngine) resolve(order *orderv1.Order) (int, string, bool) {
	if order.Symbol != "" {
		index, ok := e.db.Find(order.Symbol)
		if !ok {
			return 0, "symbol not found", false
		}
		return index, "", true
	}

	e.mu.Lock()
	index, ok := e.orderIndex[order.ID]
	e.mu.Unlock()
	if !ok {
		return 0, string(errs.ErrUnknownOrder), false
	}
	return index, "", true
}

// Stats sums bookkeeping across every book. ActiveTrades counts resting
// records over both sides of every book; Rejects includes engine-level
// routing rejects.
func (e *MatchingEngine) Stats() EngineStats {
	stats := EngineStats{
		Symbols: int64(len(e.books)),
		Rejects: e.rejects.Load(),
	}

	for _, target := range e.books {
		s := target.Stats()
		if s.IsOpen {
			stats.OpenBooks++
		}
		stats.ActiveTrades += s.Buy.Trades + s.Sell.Trades
		stats.Trades += s.Bookkeeper.Trades
		stats.SharesTraded += s.Bookkeeper.SharesTraded
		stats.Volume += s.Bookkeeper.Volume
		stats.Cancels += s.Bookkeeper.Cancels
		stats.Amends += s.Bookkeeper.Amends
		stats.Rejects += s.Bookkeeper.Rejects
		stats.Buy.Add(s.Buy)
		stats.Sell.Add(s.Sell)
	}

	return stats
}

// Sequence returns the last issued sequence number.
func (e *MatchingEngine) Sequence() uint64 {
	return e.sequence.Load()
}

// MarketData assembles a top-of-book summary for every book.
func (e *MatchingEngine) MarketData(at time.Time) []*courierv1.MarketData {
	out := make([]*courierv1.MarketData, 0, len(e.books))
	for _, target := range e.books {
		out = append(out, target.MarketData(at))
	}
	return out
}

// Close closes every book, cancelling all resting orders. After it returns
// no book is open.
func (e *MatchingEngine) Close() {
	for _, target := range e.books {
		target.Close()
	}
	e.logger.Info("all books closed",
		logger.Field{Key: "exchangeID", Value: e.exchangeID},
		logger.Field{Key: "symbols", Value: len(e.books)},
	)
}
