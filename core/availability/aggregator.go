package availability

import (
	"sort"

	"github.com/maelgrv/spotflex/core/pricing"
)

// DefaultMinSampleHours is the floor below which a period's cells are flagged
// insufficient_data instead of reporting fractions.
const DefaultMinSampleHours = 24

// Cell holds the availability metrics for one (power level, price threshold)
// pair. Fraction fields are pointers: nil means the cell carries too little
// data to report a number, never a computed zero.
type Cell struct {
	PowerMW      float64 `json:"power_mw"`
	ThresholdEUR float64 `json:"threshold_eur_mwh"`
	// HoursAvailable counts the hours with price <= threshold.
	HoursAvailable int `json:"hours_available"`
	// HoursTotal counts the hours with data in the period. Gap hours are
	// excluded so they cannot deflate availability.
	HoursTotal       int  `json:"hours_total"`
	InsufficientData bool `json:"insufficient_data"`

	Availability *float64 `json:"availability,omitempty"`
	// EnergyWeightedAvailability weighs each qualifying hour by the power
	// level, making different capacities directly comparable.
	EnergyWeightedAvailability *float64 `json:"energy_weighted_availability,omitempty"`
	// AvailableEnergyMWh is the energy the load could draw over the
	// qualifying hours at this power level.
	AvailableEnergyMWh *float64 `json:"available_energy_mwh,omitempty"`
	// AvgCarbon is the mean carbon intensity over the qualifying hours that
	// carry carbon data; nil when none do.
	AvgCarbon *float64 `json:"avg_carbon_intensity,omitempty"`
}

// PeriodResult is the immutable aggregation output for one period.
type PeriodResult struct {
	Period     Period `json:"period"`
	HoursTotal int    `json:"hours_total"`
	// Cells are sorted by (power level, threshold) ascending.
	Cells []Cell `json:"cells"`
}

// Aggregate computes one Cell per (power level, threshold) pair over the
// records falling inside the period. Availability is price-driven: the power
// level only scales the energy metrics, it never gates which hours qualify.
//
// Records are sorted by price once and each threshold resolved by binary
// search, so the cost is O(n log n + t log n) instead of t×n. minSample <= 0
// selects DefaultMinSampleHours. An empty period is not an error: every cell
// comes back flagged insufficient_data.
func Aggregate(records []pricing.ClassifiedRecord, p Period, thresholds, powersMW []float64, minSample int) PeriodResult {
	if minSample <= 0 {
		minSample = DefaultMinSampleHours
	}

	var prices []float64
	var inPeriod []pricing.ClassifiedRecord
	for _, r := range records {
		if p.Contains(r.Timestamp) {
			inPeriod = append(inPeriod, r)
			prices = append(prices, r.Price)
		}
	}
	total := len(prices)
	sort.Float64s(prices)

	// Prefix sums of carbon over the price-sorted records, so the average
	// over any "price <= threshold" subset is two lookups.
	sort.Slice(inPeriod, func(i, j int) bool { return inPeriod[i].Price < inPeriod[j].Price })
	carbonSum := make([]float64, total+1)
	carbonCnt := make([]int, total+1)
	for i, r := range inPeriod {
		carbonSum[i+1] = carbonSum[i]
		carbonCnt[i+1] = carbonCnt[i]
		if r.Carbon != nil {
			carbonSum[i+1] += *r.Carbon
			carbonCnt[i+1]++
		}
	}

	ts := append([]float64(nil), thresholds...)
	ps := append([]float64(nil), powersMW...)
	sort.Float64s(ts)
	sort.Float64s(ps)

	res := PeriodResult{Period: p, HoursTotal: total, Cells: make([]Cell, 0, len(ts)*len(ps))}
	for _, power := range ps {
		for _, threshold := range ts {
			avail := sort.Search(total, func(i int) bool { return prices[i] > threshold })
			cell := Cell{
				PowerMW:        power,
				ThresholdEUR:   threshold,
				HoursAvailable: avail,
				HoursTotal:     total,
			}
			if total < minSample {
				cell.InsufficientData = true
			} else {
				frac := float64(avail) / float64(total)
				// Energy-weighted availability is (power*avail)/(power*total);
				// the power cancels for every positive level, and this form
				// stays finite even for a zero power.
				weighted := float64(avail) / float64(total)
				energy := power * float64(avail)
				cell.Availability = &frac
				cell.EnergyWeightedAvailability = &weighted
				cell.AvailableEnergyMWh = &energy
				if cnt := carbonCnt[avail]; cnt > 0 {
					avg := carbonSum[avail] / float64(cnt)
					cell.AvgCarbon = &avg
				}
			}
			res.Cells = append(res.Cells, cell)
		}
	}
	return res
}
