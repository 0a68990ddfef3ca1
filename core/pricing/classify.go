package pricing

import "github.com/maelgrv/spotflex/core/model"

// ClassifiedRecord is a canonical record with its derived band label. The
// original record is embedded untouched.
type ClassifiedRecord struct {
	model.CanonicalRecord
	Band string `json:"band"`
}

// Annotate classifies every record of the series. The input series is read
// only; the returned slice is new.
func (t *BandTable) Annotate(series model.Series) []ClassifiedRecord {
	out := make([]ClassifiedRecord, len(series))
	for i, rec := range series {
		out[i] = ClassifiedRecord{CanonicalRecord: rec, Band: t.Classify(rec.Price).Label}
	}
	return out
}
