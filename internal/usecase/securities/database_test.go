package securities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketv1 "github.com/gide100/matching-engine/internal/domain/market/v1"
)

func completeLadder(t *testing.T) *marketv1.TickTable {
	t.Helper()
	table := marketv1.NewTickTable()
	require.NoError(t, table.Add(marketv1.NewOpenBand(0, 0.01)))
	return table
}

func security(id int, symbol string, ladderID int) *marketv1.Security {
	return &marketv1.Security{
		ID:           id,
		Exchange:     "ME",
		Symbol:       symbol,
		ClosingPrice: 10.0,
		Born:         time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		Tradeable:    true,
		TickLadderID: ladderID,
	}
}

// Test 1: Assembly and lookup
func TestNewDatabase(t *testing.T) {
	ladders := map[int]*marketv1.TickTable{1: completeLadder(t)}
	db, err := NewDatabase([]*marketv1.Security{
		security(1, "MSFT", 1),
		security(2, "IBM", 1),
	}, ladders)
	require.NoError(t, err)

	assert.Equal(t, 2, db.Len())

	index, ok := db.Find("IBM")
	require.True(t, ok)
	assert.Equal(t, "IBM", db.Record(index).Symbol)
	assert.NotNil(t, db.TickTable(index))

	_, ok = db.Find("NOPE")
	assert.False(t, ok)
}

// Test 2: Duplicate symbols fail
func TestNewDatabase_DuplicateSymbol(t *testing.T) {
	ladders := map[int]*marketv1.TickTable{1: completeLadder(t)}
	_, err := NewDatabase([]*marketv1.Security{
		security(1, "MSFT", 1),
		security(2, "MSFT", 1),
	}, ladders)
	assert.ErrorIs(t, err, ErrConfig)
}

// Test 3: A reference to a missing ladder fails
func TestNewDatabase_MissingLadder(t *testing.T) {
	ladders := map[int]*marketv1.TickTable{1: completeLadder(t)}
	_, err := NewDatabase([]*marketv1.Security{security(1, "MSFT", 9)}, ladders)
	assert.ErrorIs(t, err, ErrConfig)
}

// Test 4: An incomplete ladder fails
func TestNewDatabase_IncompleteLadder(t *testing.T) {
	partial := marketv1.NewTickTable()
	require.NoError(t, partial.Add(marketv1.Band{Lower: 0, Upper: 10, Tick: 0.01}))

	_, err := NewDatabase([]*marketv1.Security{security(1, "MSFT", 1)},
		map[int]*marketv1.TickTable{1: partial})
	assert.ErrorIs(t, err, ErrConfig)
}
