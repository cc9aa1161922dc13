package securities

import (
	"errors"
	"fmt"

	marketv1 "github.com/gide100/matching-engine/internal/domain/market/v1"
)

// ErrConfig indicates malformed reference data. It is fatal at load time and
// never occurs during matching.
var ErrConfig = errors.New("invalid reference data")

// Database is the in-memory security master: symbol resolution plus each
// security's tick table.
type Database struct {
	securities []*marketv1.Security
	bySymbol   map[string]int
	ladders    map[int]*marketv1.TickTable
}

// NewDatabase assembles a database from loaded securities and tick ladders.
// Duplicate symbols, references to missing ladders and ladders that do not
// cover the whole price range all fail.
func NewDatabase(records []*marketv1.Security, ladders map[int]*marketv1.TickTable) (*Database, error) {
	db := &Database{
		securities: records,
		bySymbol:   make(map[string]int, len(records)),
		ladders:    ladders,
	}

	for id, table := range ladders {
		if !table.Complete() {
			return nil, fmt.Errorf("%w: tick ladder %d does not cover [0, +Inf)", ErrConfig, id)
		}
	}

	for i, record := range records {
		if _, dup := db.bySymbol[record.Symbol]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %s", ErrConfig, record.Symbol)
		}
		if _, ok := ladders[record.TickLadderID]; !ok {
			return nil, fmt.Errorf("%w: symbol %s references unknown tick ladder %d", ErrConfig, record.Symbol, record.TickLadderID)
		}
		db.bySymbol[record.Symbol] = i
	}

	return db, nil
}

// Find resolves a symbol to its index.
func (d *Database) Find(symbol string) (int, bool) {
	index, ok := d.bySymbol[symbol]
	return index, ok
}

// Record returns the security at the given index.
func (d *Database) Record(index int) *marketv1.Security {
	return d.securities[index]
}

// TickTable returns the tick table for the security at the given index.
func (d *Database) TickTable(index int) *marketv1.TickTable {
	return d.ladders[d.securities[index].TickLadderID]
}

// Len returns the number of securities.
func (d *Database) Len() int {
	return len(d.securities)
}
