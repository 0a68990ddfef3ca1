package wholesalemarket

import (
	"strconv"

	"github.com/maelgrv/spotflex/core/ingest"
)

// Response mirrors the france_power_exchanges JSON document. Values carry one
// price per market time unit (hourly).
type Response struct {
	FrancePowerExchanges []Exchange `json:"france_power_exchanges"`
}

type Exchange struct {
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	UpdatedDate string  `json:"updated_date"`
	Values      []Value `json:"values"`
}

type Value struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Value     float64 `json:"value"`
	Price     float64 `json:"price"`
}

// Rows flattens the document into raw ingest rows. Timestamps pass through as
// the API sent them; the normalizer owns parsing and alignment checks.
func (r *Response) Rows() []ingest.RawRow {
	var rows []ingest.RawRow
	for _, exchange := range r.FrancePowerExchanges {
		for _, v := range exchange.Values {
			rows = append(rows, ingest.RawRow{
				Timestamp: v.StartDate,
				Price:     strconv.FormatFloat(v.Price, 'f', -1, 64),
			})
		}
	}
	return rows
}
