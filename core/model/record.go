package model

import "time"

// CanonicalRecord is the normalized representation of one hour of spot-market
// data. Timestamps are hour-aligned and expressed in the reference timezone
// (Europe/Paris). Price is in EUR/MWh and may be negative.
type CanonicalRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	// Carbon is the grid carbon intensity in gCO2/kWh for that hour.
	// nil means unknown; a missing value is never replaced by zero.
	Carbon *float64 `json:"carbon_intensity,omitempty"`
	// Source identifies the feed that supplied the record.
	Source string `json:"source"`
}

// Series is a canonical hourly series: strictly increasing, unique timestamps.
// Missing hours are simply absent; nothing in this layer interpolates them.
type Series []CanonicalRecord

// Start returns the timestamp of the first record, or the zero time.
func (s Series) Start() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Timestamp
}

// End returns the timestamp of the last record, or the zero time.
func (s Series) End() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Timestamp
}

// Slice returns the records with Timestamp in [start, end).
func (s Series) Slice(start, end time.Time) Series {
	var out Series
	for _, r := range s {
		if r.Timestamp.Before(start) {
			continue
		}
		if !r.Timestamp.Before(end) {
			break
		}
		out = append(out, r)
	}
	return out
}

// Gaps enumerates the hours missing between the first and last record.
// Gaps wider than one hour yield one entry per missing hour.
func (s Series) Gaps() []time.Time {
	var gaps []time.Time
	for i := 1; i < len(s); i++ {
		for t := s[i-1].Timestamp.Add(time.Hour); t.Before(s[i].Timestamp); t = t.Add(time.Hour) {
			gaps = append(gaps, t)
		}
	}
	return gaps
}
