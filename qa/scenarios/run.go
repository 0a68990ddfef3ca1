package scenarios

import (
	"testing"
	"time"

	"github.com/maelgrv/spotflex/core/availability"
	"github.com/maelgrv/spotflex/core/ingest"
	"github.com/maelgrv/spotflex/core/pricing"
)

// RunScenario drives the full path from raw payloads to availability cells
// and checks the outcome against the scenario's expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	zone := sc.ReferenceZone
	if zone == "" {
		zone = "UTC"
	}
	norm, err := ingest.NewNormalizer(ingest.Config{ReferenceZone: zone, Authority: sc.Authority}, nil, nil)
	if err != nil {
		t.Fatalf("normalizer: %v", err)
	}

	payloads := make([]ingest.Payload, len(sc.Payloads))
	for i, p := range sc.Payloads {
		payloads[i] = p.ToModel()
	}
	res, err := norm.Ingest(payloads...)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(res.Rejected) != sc.Expected.Rejected {
		t.Errorf("scenario %s expected %d rejected rows, got %d", sc.Name, sc.Expected.Rejected, len(res.Rejected))
	}

	table, err := pricing.NewBandTable(pricing.DefaultBands())
	if err != nil {
		t.Fatalf("bands: %v", err)
	}
	classified := table.Annotate(res.Series)

	loc, err := time.LoadLocation(zone)
	if err != nil {
		t.Fatalf("zone: %v", err)
	}
	period, err := sc.Period.ToModel(loc)
	if err != nil {
		t.Fatalf("period: %v", err)
	}

	result := availability.Aggregate(classified, period, sc.Thresholds, sc.PowersMW, sc.MinSample)
	if result.HoursTotal != sc.Expected.HoursTotal {
		t.Errorf("scenario %s expected %d total hours, got %d", sc.Name, sc.Expected.HoursTotal, result.HoursTotal)
	}
	for _, want := range sc.Expected.Cells {
		cell, ok := findCell(result.Cells, want.PowerMW, want.Threshold)
		if !ok {
			t.Errorf("scenario %s missing cell power=%v threshold=%v", sc.Name, want.PowerMW, want.Threshold)
			continue
		}
		if cell.HoursAvailable != want.HoursAvailable {
			t.Errorf("scenario %s cell power=%v threshold=%v expected %d available hours, got %d",
				sc.Name, want.PowerMW, want.Threshold, want.HoursAvailable, cell.HoursAvailable)
		}
		if cell.InsufficientData != want.Insufficient {
			t.Errorf("scenario %s cell power=%v threshold=%v insufficient flag = %v, want %v",
				sc.Name, want.PowerMW, want.Threshold, cell.InsufficientData, want.Insufficient)
		}
	}
}

func findCell(cells []availability.Cell, power, threshold float64) (availability.Cell, bool) {
	for _, c := range cells {
		if c.PowerMW == power && c.ThresholdEUR == threshold {
			return c, true
		}
	}
	return availability.Cell{}, false
}
