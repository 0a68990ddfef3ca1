package ingest

// RawRow is the loosely typed row handed over by a feed. All fields hold the
// raw text exactly as the feed saw it; parsing and validation happen once,
// in the normalizer.
type RawRow struct {
	Timestamp string `json:"timestamp"`
	Price     string `json:"price"`
	// Carbon is the optional grid carbon intensity (gCO2/kWh). Empty means
	// the feed has no carbon data for this hour.
	Carbon string `json:"carbon_intensity,omitempty"`
}

// Payload is one batch of raw rows from a single feed.
type Payload struct {
	// Source tags every record produced from this payload and drives
	// dedup precedence.
	Source string
	// Timezone is the IANA zone naive timestamps in this payload are
	// expressed in. Empty means the reference zone.
	Timezone string
	Rows     []RawRow
}

// Rejection records one row dropped during normalization, together with the
// offending raw row for diagnostics.
type Rejection struct {
	Source string `json:"source"`
	Row    RawRow `json:"row"`
	Reason string `json:"reason"`
}
