package pricing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/maelgrv/spotflex/core/model"
)

func TestNewBandTableRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name  string
		bands []PriceBand
	}{
		{"empty", nil},
		{"no unbounded top", []PriceBand{{Label: "a", Ceiling: 10}}},
		{"not ascending", []PriceBand{
			{Label: "a", Ceiling: 20},
			{Label: "b", Ceiling: 10},
			{Label: "c", Ceiling: math.Inf(1)},
		}},
		{"duplicate ceiling", []PriceBand{
			{Label: "a", Ceiling: 10},
			{Label: "b", Ceiling: 10},
			{Label: "c", Ceiling: math.Inf(1)},
		}},
		{"empty label", []PriceBand{
			{Label: "", Ceiling: 10},
			{Label: "c", Ceiling: math.Inf(1)},
		}},
		{"duplicate label", []PriceBand{
			{Label: "a", Ceiling: 10},
			{Label: "a", Ceiling: math.Inf(1)},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewBandTable(tc.bands); !errors.Is(err, ErrInvalidBands) {
				t.Fatalf("expected ErrInvalidBands, got %v", err)
			}
		})
	}
}

func TestClassifyBoundaryInclusive(t *testing.T) {
	table, err := NewBandTable([]PriceBand{
		{Label: "favorable", Ceiling: 10},
		{Label: "neutral", Ceiling: 30},
		{Label: "unfavorable", Ceiling: math.Inf(1)},
	})
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	cases := []struct {
		price float64
		want  string
	}{
		{-50, "favorable"}, // negative prices are the most favorable
		{0, "favorable"},
		{10, "favorable"}, // inclusive ceiling
		{10.01, "neutral"},
		{30, "neutral"},
		{31, "unfavorable"},
		{1e9, "unfavorable"},
	}
	for _, tc := range cases {
		if got := table.Classify(tc.price).Label; got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.price, got, tc.want)
		}
	}
}

// Every price must be claimed by exactly one band: Classify always returns a
// band, and the half-open intervals implied by ascending ceilings cannot
// overlap.
func TestClassifyPartition(t *testing.T) {
	table, err := NewBandTable(DefaultBands())
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	bands := table.Bands()
	for price := -100.0; price <= 120.0; price += 0.5 {
		got := table.Classify(price)
		matches := 0
		for i, b := range bands {
			lower := math.Inf(-1)
			if i > 0 {
				lower = bands[i-1].Ceiling
			}
			if price > lower && price <= b.Ceiling {
				matches++
				if b.Label != got.Label {
					t.Fatalf("price %v: Classify gave %q, partition says %q", price, got.Label, b.Label)
				}
			}
		}
		if matches != 1 {
			t.Fatalf("price %v claimed by %d bands", price, matches)
		}
	}
}

// Non-finite prices are rejected upstream at ingestion; Classify must still
// not index past the table if one slips through.
func TestClassifyNonFinite(t *testing.T) {
	table, err := NewBandTable(DefaultBands())
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if got := table.Classify(math.NaN()).Label; got != "above_50" {
		t.Fatalf("Classify(NaN) = %q, want top band", got)
	}
	if got := table.Classify(math.Inf(1)).Label; got != "above_50" {
		t.Fatalf("Classify(+Inf) = %q, want top band", got)
	}
	if got := table.Classify(math.Inf(-1)).Label; got != "under_10" {
		t.Fatalf("Classify(-Inf) = %q, want lowest band", got)
	}
}

func TestAnnotatePreservesRecords(t *testing.T) {
	table, err := NewBandTable([]PriceBand{
		{Label: "favorable", Ceiling: 10},
		{Label: "neutral", Ceiling: 30},
		{Label: "unfavorable", Ceiling: math.Inf(1)},
	})
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := model.Series{
		{Timestamp: start, Price: 5, Source: "s"},
		{Timestamp: start.Add(time.Hour), Price: -2, Source: "s"},
		{Timestamp: start.Add(2 * time.Hour), Price: 22, Source: "s"},
		{Timestamp: start.Add(3 * time.Hour), Price: 41, Source: "s"},
	}
	got := table.Annotate(series)
	want := []string{"favorable", "favorable", "neutral", "unfavorable"}
	for i, cr := range got {
		if cr.Band != want[i] {
			t.Fatalf("record %d: band %q, want %q", i, cr.Band, want[i])
		}
		if cr.CanonicalRecord != series[i] {
			t.Fatalf("record %d mutated: %+v", i, cr.CanonicalRecord)
		}
	}
}
