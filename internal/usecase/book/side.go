package book

import (
	"sort"
	"time"

	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
)

// SideRecord is the book's internal representation of a resting or in-flight
// order. It is owned exclusively by its Side/Book and mutated in place by
// fills and amends.
type SideRecord struct {
	ID        uint64
	Sequence  uint64
	Timestamp time.Time
	Kind      orderv1.Type
	Direction orderv1.Direction
	Price     float64
	Shares    int64
	Visible   bool
	Origin    string
}

// SideStats aggregates what is currently resting on one side of the book.
// Volume is the only monotonic field: it counts everything ever added and is
// unaffected by removal.
type SideStats struct {
	Trades int64   `json:"trades"`
	Shares int64   `json:"shares"`
	Value  float64 `json:"value"`
	Volume float64 `json:"volume"`
}

// Add accumulates another side's stats, for engine-wide aggregation.
func (s *SideStats) Add(other SideStats) {
	s.Trades += other.Trades
	s.Shares += other.Shares
	s.Value += other.Value
	s.Volume += other.Volume
}

// Side is one direction of a symbol's book: records ordered best-first by
// (price, sequence) plus an id index for O(1) cancel and amend lookup.
// Bids rank higher prices first, asks lower prices first; equal prices rank
// the earlier sequence first.
type Side struct {
	direction orderv1.Direction
	records   []*SideRecord
	index     map[uint64]*SideRecord
	stats     SideStats
}

// NewSide creates an empty side for the given direction.
func NewSide(direction orderv1.Direction) *Side {
	return &Side{
		direction: direction,
		index:     make(map[uint64]*SideRecord),
	}
}

// ranksBefore reports whether a has strictly better price-time priority than b.
func (s *Side) ranksBefore(a, b *SideRecord) bool {
	if a.Price != b.Price {
		if s.direction == orderv1.Buy {
			return a.Price > b.Price
		}
		return a.Price < b.Price
	}
	return a.Sequence < b.Sequence
}

// Add inserts a record in priority order and updates the side stats.
func (s *Side) Add(record *SideRecord) {
	pos := sort.Search(len(s.records), func(i int) bool {
		return s.ranksBefore(record, s.records[i])
	})
	s.records = append(s.records, nil)
	copy(s.records[pos+1:], s.records[pos:])
	s.records[pos] = record
	s.index[record.ID] = record

	added := record.Price * float64(record.Shares)
	s.stats.Trades++
	s.stats.Shares += record.Shares
	s.stats.Value += added
	s.stats.Volume += added
}

// Remove physically removes a record. Volume is untouched.
func (s *Side) Remove(record *SideRecord) bool {
	pos := s.position(record)
	if pos < 0 {
		return false
	}
	s.records = append(s.records[:pos], s.records[pos+1:]...)
	delete(s.index, record.ID)

	s.stats.Trades--
	s.stats.Shares -= record.Shares
	s.stats.Value -= record.Price * float64(record.Shares)
	return true
}

// AmendShares changes a record's remaining shares in place. The (price,
// sequence) key is unchanged so the record keeps its position and its time
// priority; Volume is untouched.
func (s *Side) AmendShares(record *SideRecord, shares int64) {
	delta := shares - record.Shares
	record.Shares = shares
	s.stats.Shares += delta
	s.stats.Value += record.Price * float64(delta)
}

// Fill consumes shares from a resting record during a cross.
func (s *Side) Fill(record *SideRecord, shares int64) {
	record.Shares -= shares
	s.stats.Shares -= shares
	s.stats.Value -= record.Price * float64(shares)
}

// Tombstone marks a fully consumed record invisible. It stays in the ordered
// structure until Top encounters it; only the id index and the resting count
// drop immediately.
func (s *Side) Tombstone(record *SideRecord) {
	record.Visible = false
	delete(s.index, record.ID)
	s.stats.Trades--
}

// Top returns the best-ranked visible record, lazily discarding tombstoned
// entries sitting at the front. Returns nil when the side is empty.
func (s *Side) Top() *SideRecord {
	for len(s.records) > 0 {
		head := s.records[0]
		if head.Visible {
			return head
		}
		s.records[0] = nil
		s.records = s.records[1:]
	}
	return nil
}

// Find returns the resting record with the given id, nil if absent.
func (s *Side) Find(id uint64) *SideRecord {
	return s.index[id]
}

// BestQuote returns the best visible price and the total visible shares
// resting at that price.
func (s *Side) BestQuote() (price float64, shares int64, ok bool) {
	top := s.Top()
	if top == nil {
		return 0, 0, false
	}
	for _, record := range s.records {
		if record.Price != top.Price {
			break
		}
		if record.Visible {
			shares += record.Shares
		}
	}
	return top.Price, shares, true
}

// Walk visits every visible record in priority order.
func (s *Side) Walk(fn func(*SideRecord)) {
	for _, record := range s.records {
		if record.Visible {
			fn(record)
		}
	}
}

// Stats returns a copy of the side stats.
func (s *Side) Stats() SideStats {
	return s.stats
}

// Len returns the number of visible resting records.
func (s *Side) Len() int {
	return int(s.stats.Trades)
}

// position locates a record by its (price, sequence) key.
func (s *Side) position(record *SideRecord) int {
	pos := sort.Search(len(s.records), func(i int) bool {
		return !s.ranksBefore(s.records[i], record)
	})
	if pos < len(s.records) && s.records[pos] == record {
		return pos
	}
	return -1
}
