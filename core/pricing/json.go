package pricing

import (
	"encoding/json"
	"math"
)

// bandJSON is the wire shape of a band: a null ceiling means unbounded,
// since IEEE infinities do not exist in JSON.
type bandJSON struct {
	Label   string   `json:"label"`
	Ceiling *float64 `json:"ceiling"`
}

// MarshalJSON encodes an unbounded ceiling as null.
func (b PriceBand) MarshalJSON() ([]byte, error) {
	out := bandJSON{Label: b.Label}
	if !b.Unbounded() {
		c := b.Ceiling
		out.Ceiling = &c
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null or missing ceiling as unbounded.
func (b *PriceBand) UnmarshalJSON(data []byte) error {
	var in bandJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b.Label = in.Label
	if in.Ceiling == nil {
		b.Ceiling = math.Inf(1)
	} else {
		b.Ceiling = *in.Ceiling
	}
	return nil
}
