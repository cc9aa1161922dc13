package securities

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	marketv1 "github.com/gide100/matching-engine/internal/domain/market/v1"
)

const dateLayout = "2006-01-02"

// LoadDatabase loads the security master and tick ladder files and assembles
// the database. Any malformed row fails the whole load.
func LoadDatabase(securityPath, ladderPath string) (*Database, error) {
	ladders, err := LoadTickLadders(ladderPath)
	if err != nil {
		return nil, err
	}
	records, err := LoadSecurities(securityPath)
	if err != nil {
		return nil, err
	}
	return NewDatabase(records, ladders)
}

// LoadSecurities reads the security master CSV:
//
//	id,exchange,symbol,closing_price,outstanding_shares,born,died,tradeable,tick_ladder_id
//
// The first row is a header. An empty died column means the security is
// still listed.
func LoadSecurities(path string) ([]*marketv1.Security, error) {
	rows, err := readCSV(path, 9)
	if err != nil {
		return nil, err
	}

	records := make([]*marketv1.Security, 0, len(rows))
	for i, row := range rows {
		record, err := parseSecurity(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", ErrConfig, path, i+2, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// LoadTickLadders reads the tick ladder CSV:
//
//	ladder_id,lower,upper,tick
//
// The first row is a header. Rows for one ladder must appear in ascending
// band order; an empty upper column marks the final, open band.
func LoadTickLadders(path string) (map[int]*marketv1.TickTable, error) {
	rows, err := readCSV(path, 4)
	if err != nil {
		return nil, err
	}

	ladders := make(map[int]*marketv1.TickTable)
	for i, row := range rows {
		ladderID, band, err := parseBand(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", ErrConfig, path, i+2, err)
		}

		table, ok := ladders[ladderID]
		if !ok {
			table = marketv1.NewTickTable()
			ladders[ladderID] = table
		}
		if err := table.Add(band); err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", ErrConfig, path, i+2, err)
		}
	}
	return ladders, nil
}

func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = fields

	// Skip the header row.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %s is empty", ErrConfig, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return rows, nil
}

func parseSecurity(row []string) (*marketv1.Security, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return nil, fmt.Errorf("bad id [%s]", row[0])
	}
	closingPrice, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return nil, fmt.Errorf("bad closing_price [%s]", row[3])
	}
	outstanding, err := strconv.ParseInt(row[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad outstanding_shares [%s]", row[4])
	}
	born, err := time.Parse(dateLayout, row[5])
	if err != nil {
		return nil, fmt.Errorf("bad born [%s]", row[5])
	}

	record := &marketv1.Security{
		ID:                id,
		Exchange:          row[1],
		Symbol:            row[2],
		ClosingPrice:      closingPrice,
		OutstandingShares: outstanding,
		Born:              born,
	}

	if row[6] != "" {
		died, err := time.Parse(dateLayout, row[6])
		if err != nil {
			return nil, fmt.Errorf("bad died [%s]", row[6])
		}
		record.HasDied = true
		record.Died = died
	}

	record.Tradeable, err = strconv.ParseBool(row[7])
	if err != nil {
		return nil, fmt.Errorf("bad tradeable [%s]", row[7])
	}
	record.TickLadderID, err = strconv.Atoi(row[8])
	if err != nil {
		return nil, fmt.Errorf("bad tick_ladder_id [%s]", row[8])
	}

	return record, nil
}

func parseBand(row []string) (int, marketv1.Band, error) {
	ladderID, err := strconv.Atoi(row[0])
	if err != nil {
		return 0, marketv1.Band{}, fmt.Errorf("bad ladder_id [%s]", row[0])
	}
	lower, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return 0, marketv1.Band{}, fmt.Errorf("bad lower [%s]", row[1])
	}

	upper := math.Inf(1)
	if row[2] != "" {
		upper, err = strconv.ParseFloat(row[2], 64)
		if err != nil {
			return 0, marketv1.Band{}, fmt.Errorf("bad upper [%s]", row[2])
		}
	}

	tick, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return 0, marketv1.Band{}, fmt.Errorf("bad tick [%s]", row[3])
	}

	return ladderID, marketv1.Band{Lower: lower, Upper: upper, Tick: tick}, nil
}
