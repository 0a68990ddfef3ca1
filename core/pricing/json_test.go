package pricing

import (
	"encoding/json"
	"testing"
)

func TestBandJSONRoundTrip(t *testing.T) {
	bands := DefaultBands()
	data, err := json.Marshal(bands)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back []PriceBand
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != len(bands) {
		t.Fatalf("length mismatch")
	}
	for i := range bands {
		if back[i].Label != bands[i].Label {
			t.Fatalf("label %d mismatch", i)
		}
		if back[i].Unbounded() != bands[i].Unbounded() {
			t.Fatalf("band %q lost its unbounded ceiling", bands[i].Label)
		}
		if !bands[i].Unbounded() && back[i].Ceiling != bands[i].Ceiling {
			t.Fatalf("band %q ceiling changed", bands[i].Label)
		}
	}
	if _, err := NewBandTable(back); err != nil {
		t.Fatalf("round-tripped table must validate: %v", err)
	}
}
