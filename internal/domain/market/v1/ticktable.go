package marketv1

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTickSize indicates a non-positive tick size or one wider than its band.
	ErrTickSize = errors.New("invalid tick size")
	// ErrBandGap indicates a band that leaves part of the price range uncovered.
	ErrBandGap = errors.New("tick table gap")
	// ErrBandOverlap indicates a band that overlaps an existing one.
	ErrBandOverlap = errors.New("tick table overlap")
	// ErrBandBounds indicates a band whose lower bound is not below its upper bound.
	ErrBandBounds = errors.New("invalid band bounds")
)

// priceEpsilon is the tolerance used when deciding whether a price sits on
// the tick grid. Prices are quoted to at most 6 decimal places.
const priceEpsilon = 1e-6

// Band is one segment of a tick table: prices in [Lower, Upper) move in
// increments of Tick. Upper is +Inf for the final, open band.
type Band struct {
	Lower float64
	Upper float64
	Tick  float64
}

// Open reports whether the band has no upper bound.
func (b Band) Open() bool {
	return math.IsInf(b.Upper, 1)
}

// TickTable is the legal price grid for a symbol: an ordered, contiguous,
// non-overlapping list of bands covering [0, +Inf).
type TickTable struct {
	bands []Band
}

// NewTickTable creates an empty tick table.
func NewTickTable() *TickTable {
	return &TickTable{}
}

// NewOpenBand creates a band with no upper bound.
func NewOpenBand(lower, tick float64) Band {
	return Band{Lower: lower, Upper: math.Inf(1), Tick: tick}
}

// Add appends a band to the table. If the previous band was open, its upper
// bound is closed at the new band's lower bound. Gaps, overlaps, non-positive
// tick sizes and ticks wider than their band all fail.
func (t *TickTable) Add(band Band) error {
	if band.Tick <= 0 {
		return fmt.Errorf("%w: tick %g", ErrTickSize, band.Tick)
	}
	if !band.Open() {
		if band.Lower >= band.Upper {
			return fmt.Errorf("%w: [%g, %g)", ErrBandBounds, band.Lower, band.Upper)
		}
		if band.Tick > band.Upper-band.Lower {
			return fmt.Errorf("%w: tick %g exceeds band width %g", ErrTickSize, band.Tick, band.Upper-band.Lower)
		}
	}

	if len(t.bands) == 0 {
		if band.Lower != 0 {
			return fmt.Errorf("%w: first band must start at 0, got %g", ErrBandGap, band.Lower)
		}
		t.bands = append(t.bands, band)
		return nil
	}

	last := &t.bands[len(t.bands)-1]
	if last.Open() {
		if band.Lower <= last.Lower {
			return fmt.Errorf("%w: band at %g overlaps band at %g", ErrBandOverlap, band.Lower, last.Lower)
		}
		// Close the previous open band at the new band's lower bound.
		last.Upper = band.Lower
	} else {
		switch {
		case band.Lower < last.Upper:
			return fmt.Errorf("%w: band at %g overlaps band ending at %g", ErrBandOverlap, band.Lower, last.Upper)
		case band.Lower > last.Upper:
			return fmt.Errorf("%w: between %g and %g", ErrBandGap, last.Upper, band.Lower)
		}
	}

	t.bands = append(t.bands, band)
	return nil
}

// Validate reports whether price sits on the tick grid.
func (t *TickTable) Validate(price float64) bool {
	ok, _ := t.ValidateAndRound(price)
	return ok
}

// ValidateAndRound locates the band containing price and checks that the
// price is within epsilon of a multiple of the band's tick size. On success
// it also returns the price snapped to the nearest tick, rounding half away
// from zero.
func (t *TickTable) ValidateAndRound(price float64) (bool, float64) {
	band, ok := t.band(price)
	if !ok {
		return false, price
	}

	steps := math.Round(price / band.Tick)
	rounded := steps * band.Tick
	if math.Abs(price-rounded) > priceEpsilon {
		return false, price
	}
	return true, rounded
}

// Bands returns a copy of the table's bands in ascending order.
func (t *TickTable) Bands() []Band {
	out := make([]Band, len(t.bands))
	copy(out, t.bands)
	return out
}

// Complete reports whether the table covers [0, +Inf), i.e. it is non-empty
// and its final band is open.
func (t *TickTable) Complete() bool {
	return len(t.bands) > 0 && t.bands[len(t.bands)-1].Open()
}

func (t *TickTable) band(price float64) (Band, bool) {
	if price < 0 {
		return Band{}, false
	}
	for _, band := range t.bands {
		if price >= band.Lower && (band.Open() || price < band.Upper) {
			return band, true
		}
	}
	return Band{}, false
}
