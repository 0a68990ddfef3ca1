package model

import (
	"testing"
	"time"
)

func hourly(start time.Time, prices ...float64) Series {
	s := make(Series, len(prices))
	for i, p := range prices {
		s[i] = CanonicalRecord{Timestamp: start.Add(time.Duration(i) * time.Hour), Price: p, Source: "test"}
	}
	return s
}

func TestSeriesSlice(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := hourly(start, 1, 2, 3, 4, 5)
	got := s.Slice(start.Add(time.Hour), start.Add(3*time.Hour))
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Price != 2 || got[1].Price != 3 {
		t.Fatalf("wrong slice: %+v", got)
	}
}

func TestSeriesGaps(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := Series{
		{Timestamp: start, Price: 1},
		{Timestamp: start.Add(3 * time.Hour), Price: 2},
		{Timestamp: start.Add(4 * time.Hour), Price: 3},
	}
	gaps := s.Gaps()
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gap hours, got %d", len(gaps))
	}
	if !gaps[0].Equal(start.Add(time.Hour)) || !gaps[1].Equal(start.Add(2*time.Hour)) {
		t.Fatalf("wrong gaps: %v", gaps)
	}
}

func TestSeriesBoundsEmpty(t *testing.T) {
	var s Series
	if !s.Start().IsZero() || !s.End().IsZero() {
		t.Fatalf("empty series must report zero bounds")
	}
	if got := s.Gaps(); got != nil {
		t.Fatalf("empty series has no gaps, got %v", got)
	}
}
