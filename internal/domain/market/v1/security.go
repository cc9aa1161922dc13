package marketv1

import "time"

// Security is one reference-data record from the security master.
type Security struct {
	ID                int       `json:"id"`
	Exchange          string    `json:"exchange"`
	Symbol            string    `json:"symbol"`
	ClosingPrice      float64   `json:"closingPrice"`
	OutstandingShares int64     `json:"outstandingShares"`
	Born              time.Time `json:"born"`
	HasDied           bool      `json:"hasDied"`
	Died              time.Time `json:"died"`
	Tradeable         bool      `json:"tradeable"`
	TickLadderID      int       `json:"tickLadderID"`
}

// Delisted reports whether the security has already been delisted.
func (s *Security) Delisted() bool {
	return s.HasDied
}

// Database resolves a symbol to its index and reference attributes.
//
//go:generate mockgen -source security.go -destination=mock/security_mock.go -package=marketv1_mock
type Database interface {
	// Find resolves a symbol to its index, false when the symbol is unknown.
	Find(symbol string) (int, bool)
	// Record returns the security at the given index.
	Record(index int) *Security
	// TickTable returns the tick table for the security at the given index.
	TickTable(index int) *TickTable
	// Len returns the number of securities, for iteration by index.
	Len() int
}
