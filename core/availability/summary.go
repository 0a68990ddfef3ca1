package availability

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/maelgrv/spotflex/core/pricing"
)

// PriceSummary holds descriptive statistics of the prices inside a period.
type PriceSummary struct {
	Hours         int     `json:"hours"`
	Mean          float64 `json:"mean"`
	Median        float64 `json:"median"`
	StdDev        float64 `json:"std_dev"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	P05           float64 `json:"p05"`
	P95           float64 `json:"p95"`
	NegativeHours int     `json:"negative_hours"`
}

// SummarizePrices computes descriptive statistics over the period's records.
// It returns nil when the period holds no data, so absence stays
// distinguishable from a zero-price period.
func SummarizePrices(records []pricing.ClassifiedRecord, p Period) *PriceSummary {
	var prices []float64
	negative := 0
	for _, r := range records {
		if !p.Contains(r.Timestamp) {
			continue
		}
		prices = append(prices, r.Price)
		if r.Price < 0 {
			negative++
		}
	}
	if len(prices) == 0 {
		return nil
	}
	sort.Float64s(prices)
	s := &PriceSummary{
		Hours:         len(prices),
		Mean:          stat.Mean(prices, nil),
		Median:        stat.Quantile(0.5, stat.Empirical, prices, nil),
		Min:           prices[0],
		Max:           prices[len(prices)-1],
		P05:           stat.Quantile(0.05, stat.Empirical, prices, nil),
		P95:           stat.Quantile(0.95, stat.Empirical, prices, nil),
		NegativeHours: negative,
	}
	if len(prices) > 1 {
		s.StdDev = stat.StdDev(prices, nil)
	}
	return s
}

// HourBucket is the availability of one hour of the day across a period.
type HourBucket struct {
	Hour           int      `json:"hour"`
	HoursTotal     int      `json:"hours_total"`
	HoursAvailable int      `json:"hours_available"`
	Share          *float64 `json:"share,omitempty"`
}

// HourlyProfile shows, for a reference threshold, how the favorable hours
// spread across the day. Timestamps are already in the reference zone, so
// Hour() is the local hour of day.
func HourlyProfile(records []pricing.ClassifiedRecord, p Period, threshold float64) [24]HourBucket {
	var out [24]HourBucket
	for h := range out {
		out[h].Hour = h
	}
	for _, r := range records {
		if !p.Contains(r.Timestamp) {
			continue
		}
		h := r.Timestamp.Hour()
		out[h].HoursTotal++
		if r.Price <= threshold {
			out[h].HoursAvailable++
		}
	}
	for h := range out {
		if out[h].HoursTotal > 0 {
			share := float64(out[h].HoursAvailable) / float64(out[h].HoursTotal)
			out[h].Share = &share
		}
	}
	return out
}
