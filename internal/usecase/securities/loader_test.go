package securities

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const securityHeader = "id,exchange,symbol,closing_price,outstanding_shares,born,died,tradeable,tick_ladder_id\n"
const ladderHeader = "ladder_id,lower,upper,tick\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// Test 1: Load a well-formed security master
func TestLoadSecurities(t *testing.T) {
	path := writeFile(t, "securities.csv", securityHeader+
		"1,ME,MSFT,92.0,1000000,2010-03-05,,true,1\n"+
		"2,ME,GONE,5.5,200000,2001-01-15,2019-06-28,false,1\n")

	records, err := LoadSecurities(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	msft := records[0]
	assert.Equal(t, 1, msft.ID)
	assert.Equal(t, "MSFT", msft.Symbol)
	assert.Equal(t, 92.0, msft.ClosingPrice)
	assert.Equal(t, int64(1000000), msft.OutstandingShares)
	assert.True(t, msft.Tradeable)
	assert.False(t, msft.Delisted())

	gone := records[1]
	assert.True(t, gone.HasDied)
	assert.True(t, gone.Delisted())
	assert.False(t, gone.Tradeable)
}

// Test 2: Malformed security rows fail with the file and row number
func TestLoadSecurities_Malformed(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"bad id", "x,ME,MSFT,92.0,1000,2010-03-05,,true,1"},
		{"bad price", "1,ME,MSFT,abc,1000,2010-03-05,,true,1"},
		{"bad born", "1,ME,MSFT,92.0,1000,sometime,,true,1"},
		{"bad died", "1,ME,MSFT,92.0,1000,2010-03-05,never,true,1"},
		{"bad tradeable", "1,ME,MSFT,92.0,1000,2010-03-05,,maybe,1"},
		{"bad ladder id", "1,ME,MSFT,92.0,1000,2010-03-05,,true,x"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "securities.csv", securityHeader+tc.row+"\n")
			_, err := LoadSecurities(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
			assert.Contains(t, err.Error(), "row 2")
		})
	}
}

// Test 3: Wrong column count fails
func TestLoadSecurities_WrongColumns(t *testing.T) {
	path := writeFile(t, "securities.csv", securityHeader+"1,ME,MSFT\n")
	_, err := LoadSecurities(path)
	assert.ErrorIs(t, err, ErrConfig)
}

// Test 4: Empty file fails
func TestLoadSecurities_Empty(t *testing.T) {
	path := writeFile(t, "securities.csv", "")
	_, err := LoadSecurities(path)
	assert.ErrorIs(t, err, ErrConfig)
}

// Test 5: Load tick ladders; empty upper is the open band
func TestLoadTickLadders(t *testing.T) {
	path := writeFile(t, "ladders.csv", ladderHeader+
		"1,0,1,0.001\n"+
		"1,1,5,0.005\n"+
		"1,5,,0.01\n"+
		"2,0,,0.05\n")

	ladders, err := LoadTickLadders(path)
	require.NoError(t, err)
	require.Len(t, ladders, 2)

	require.True(t, ladders[1].Complete())
	assert.Len(t, ladders[1].Bands(), 3)
	assert.True(t, ladders[1].Validate(1.005))
	assert.False(t, ladders[1].Validate(1.001))

	require.True(t, ladders[2].Complete())
	assert.True(t, ladders[2].Validate(0.15))
}

// Test 6: A ladder with a gap fails at load time
func TestLoadTickLadders_Gap(t *testing.T) {
	path := writeFile(t, "ladders.csv", ladderHeader+
		"1,0,1,0.001\n"+
		"1,2,,0.01\n")

	_, err := LoadTickLadders(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "row 3")
}

// Test 7: LoadDatabase wires securities to their ladders
func TestLoadDatabase(t *testing.T) {
	securityPath := writeFile(t, "securities.csv", securityHeader+
		"1,ME,MSFT,92.0,1000000,2010-03-05,,true,1\n")
	ladderPath := writeFile(t, "ladders.csv", ladderHeader+"1,0,,0.01\n")

	db, err := LoadDatabase(securityPath, ladderPath)
	require.NoError(t, err)

	index, ok := db.Find("MSFT")
	require.True(t, ok)
	assert.Equal(t, "MSFT", db.Record(index).Symbol)
	assert.True(t, db.TickTable(index).Validate(92.0))
	assert.Equal(t, 1, db.Len())
}

// Test 8: A security referencing a missing ladder fails assembly
func TestLoadDatabase_MissingLadder(t *testing.T) {
	securityPath := writeFile(t, "securities.csv", securityHeader+
		"1,ME,MSFT,92.0,1000000,2010-03-05,,true,7\n")
	ladderPath := writeFile(t, "ladders.csv", ladderHeader+"1,0,,0.01\n")

	_, err := LoadDatabase(securityPath, ladderPath)
	assert.ErrorIs(t, err, ErrConfig)
}
