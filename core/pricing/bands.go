package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidBands indicates a band table that does not partition the real
// line: unordered ceilings, duplicate labels, or a missing unbounded top
// band. It is fatal at construction time, before any classification runs.
var ErrInvalidBands = errors.New("invalid band configuration")

// PriceBand is one labeled price interval. Membership is price <= Ceiling,
// bands ordered ascending; the top band has Ceiling = +Inf.
type PriceBand struct {
	Label   string  `json:"label"`
	Ceiling float64 `json:"ceiling"`
}

// Unbounded reports whether the band has no ceiling.
func (b PriceBand) Unbounded() bool { return math.IsInf(b.Ceiling, 1) }

// DefaultBands returns the preset band table used by the electrolyzer
// procurement study: ceilings at 10, 15, 20, 25, 30, 35, 40 and 50 EUR/MWh
// plus an unbounded top band.
func DefaultBands() []PriceBand {
	return []PriceBand{
		{Label: "under_10", Ceiling: 10},
		{Label: "10_to_15", Ceiling: 15},
		{Label: "15_to_20", Ceiling: 20},
		{Label: "20_to_25", Ceiling: 25},
		{Label: "25_to_30", Ceiling: 30},
		{Label: "30_to_35", Ceiling: 35},
		{Label: "35_to_40", Ceiling: 40},
		{Label: "40_to_50", Ceiling: 50},
		{Label: "above_50", Ceiling: math.Inf(1)},
	}
}

// BandTable is a validated, immutable band table.
type BandTable struct {
	bands []PriceBand
}

// NewBandTable validates the bands once and returns the table. Errors wrap
// ErrInvalidBands.
func NewBandTable(bands []PriceBand) (*BandTable, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("%w: no bands supplied", ErrInvalidBands)
	}
	seen := make(map[string]struct{}, len(bands))
	for i, b := range bands {
		if b.Label == "" {
			return nil, fmt.Errorf("%w: band %d has an empty label", ErrInvalidBands, i)
		}
		if _, dup := seen[b.Label]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidBands, b.Label)
		}
		seen[b.Label] = struct{}{}
		if math.IsNaN(b.Ceiling) {
			return nil, fmt.Errorf("%w: band %q has NaN ceiling", ErrInvalidBands, b.Label)
		}
		if i > 0 && b.Ceiling <= bands[i-1].Ceiling {
			return nil, fmt.Errorf("%w: ceilings not strictly ascending at %q", ErrInvalidBands, b.Label)
		}
	}
	if !bands[len(bands)-1].Unbounded() {
		return nil, fmt.Errorf("%w: last band must be unbounded", ErrInvalidBands)
	}
	table := make([]PriceBand, len(bands))
	copy(table, bands)
	return &BandTable{bands: table}, nil
}

// Bands returns a copy of the table, for reporting.
func (t *BandTable) Bands() []PriceBand {
	out := make([]PriceBand, len(t.bands))
	copy(out, t.bands)
	return out
}

// Classify returns the band with the smallest ceiling >= price. The boundary
// is inclusive, so a price equal to a ceiling lands in the cheaper band, and
// negative prices land in the lowest band. The unbounded top band guarantees
// a match for every finite price; NaN compares false against every ceiling,
// so it is clamped into the top band rather than indexing past the table.
func (t *BandTable) Classify(price float64) PriceBand {
	i := sort.Search(len(t.bands), func(i int) bool {
		return t.bands[i].Ceiling >= price
	})
	if i == len(t.bands) {
		i--
	}
	return t.bands[i]
}
