package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/maelgrv/spotflex/core/availability"
	"github.com/maelgrv/spotflex/core/ingest"
	"github.com/maelgrv/spotflex/core/pricing"
)

// PeriodReport bundles one period's availability cells with its optional
// descriptive statistics and hour-of-day profile.
type PeriodReport struct {
	Period     availability.Period `json:"period"`
	HoursTotal int                 `json:"hours_total"`
	Cells      []availability.Cell `json:"cells"`
	// Prices is nil for periods without data; the field is then omitted.
	Prices *availability.PriceSummary `json:"price_summary,omitempty"`
	// Hourly is the availability profile at the reference threshold.
	Hourly []availability.HourBucket `json:"hourly_profile,omitempty"`
}

// NewPeriodReport wraps an aggregation result.
func NewPeriodReport(res availability.PeriodResult, prices *availability.PriceSummary, hourly []availability.HourBucket) PeriodReport {
	return PeriodReport{
		Period:     res.Period,
		HoursTotal: res.HoursTotal,
		Cells:      res.Cells,
		Prices:     prices,
		Hourly:     hourly,
	}
}

// Report is the final serializable structure handed to export. Its shape is
// stable: insufficient cells always carry the flag and omit fraction fields,
// cells are sorted by (power, threshold) and periods by start time.
type Report struct {
	ID            string                  `json:"id"`
	GeneratedAt   time.Time               `json:"generated_at"`
	ReferenceZone string                  `json:"reference_zone"`
	Bands         []pricing.PriceBand     `json:"bands"`
	Periods       []PeriodReport          `json:"periods"`
	Provenance    []ingest.ProvenanceNote `json:"provenance,omitempty"`
	RejectedRows  int                     `json:"rejected_rows"`
}

// Compiler assembles reports. The clock and ID source are injectable so
// identical inputs can produce byte-identical reports in tests.
type Compiler struct {
	Now   func() time.Time
	NewID func() string
}

// NewCompiler returns a Compiler using the wall clock and random UUIDs.
func NewCompiler() Compiler {
	return Compiler{Now: time.Now, NewID: uuid.NewString}
}

// Compile assembles the report. It performs no numeric computation; it only
// fixes ordering and provenance so downstream consumers can rely on a stable
// shape regardless of input size.
func (c Compiler) Compile(zone string, bands []pricing.PriceBand, periods []PeriodReport, prov []ingest.ProvenanceNote, rejected int) Report {
	sorted := make([]PeriodReport, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Period.Start.Before(sorted[j].Period.Start)
	})
	return Report{
		ID:            c.NewID(),
		GeneratedAt:   c.Now(),
		ReferenceZone: zone,
		Bands:         bands,
		Periods:       sorted,
		Provenance:    prov,
		RejectedRows:  rejected,
	}
}
