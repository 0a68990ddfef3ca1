package availability

import (
	"testing"
	"time"
)

func TestMonthlyPeriodsClamped(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	periods := MonthlyPeriods(start, end)
	if len(periods) != 3 {
		t.Fatalf("expected 3 months, got %d", len(periods))
	}
	if periods[0].Label != "2024-01" || !periods[0].Start.Equal(start) {
		t.Fatalf("first period must clamp to window start: %+v", periods[0])
	}
	if periods[2].Label != "2024-03" || !periods[2].End.Equal(end) {
		t.Fatalf("last period must clamp to window end: %+v", periods[2])
	}
	if !periods[1].Start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("middle period misaligned: %+v", periods[1])
	}
}

func TestYearlyPeriods(t *testing.T) {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	periods := YearlyPeriods(start, end)
	if len(periods) != 3 {
		t.Fatalf("expected 3 years, got %d", len(periods))
	}
	labels := []string{"2023", "2024", "2025"}
	for i, p := range periods {
		if p.Label != labels[i] {
			t.Fatalf("period %d label %q", i, p.Label)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("invalid period: %v", err)
		}
	}
}

func TestPeriodContainsHalfOpen(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := Period{Label: "d", Start: start, End: start.Add(24 * time.Hour)}
	if !p.Contains(start) {
		t.Fatalf("start must be included")
	}
	if p.Contains(p.End) {
		t.Fatalf("end must be excluded")
	}
}

// A day with a daylight-saving transition counts its actual records: the
// long October day in Europe/Paris has 25 hours.
func TestDSTDayHoursComeFromRecords(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	start := time.Date(2024, 10, 27, 0, 0, 0, 0, loc)
	end := time.Date(2024, 10, 28, 0, 0, 0, 0, loc)
	recs := classifiedHours(start, end)
	res := Aggregate(recs, Period{Label: "dst", Start: start, End: end}, []float64{100}, []float64{1}, 1)
	if res.HoursTotal != 25 {
		t.Fatalf("expected 25 hours on the long day, got %d", res.HoursTotal)
	}
}
