package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/maelgrv/spotflex/core/ingest"
)

// CSVConfig describes one CSV file source. Columns are timestamp, price and
// optionally carbon intensity, in that order.
type CSVConfig struct {
	Source    string `json:"source"`
	Path      string `json:"path"`
	Timezone  string `json:"timezone"`
	HasHeader bool   `json:"has_header"`
}

// CSVSource reads raw rows from a local CSV export (e.g. an ENTSO-E
// day-ahead price dump).
type CSVSource struct {
	cfg CSVConfig
}

// NewCSVSource creates a CSV file source.
func NewCSVSource(cfg CSVConfig) *CSVSource { return &CSVSource{cfg: cfg} }

// Fetch reads the whole file. Field values pass through untouched; rows with
// too few columns still become raw rows so the normalizer can report them.
func (s *CSVSource) Fetch(ctx context.Context) (ingest.Payload, error) {
	if err := ctx.Err(); err != nil {
		return ingest.Payload{}, err
	}
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return ingest.Payload{}, fmt.Errorf("open %s: %w", s.cfg.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	lines, err := r.ReadAll()
	if err != nil {
		return ingest.Payload{}, fmt.Errorf("read %s: %w", s.cfg.Path, err)
	}
	if s.cfg.HasHeader && len(lines) > 0 {
		lines = lines[1:]
	}

	payload := ingest.Payload{Source: s.cfg.Source, Timezone: s.cfg.Timezone, Rows: make([]ingest.RawRow, 0, len(lines))}
	for _, fields := range lines {
		var row ingest.RawRow
		if len(fields) > 0 {
			row.Timestamp = fields[0]
		}
		if len(fields) > 1 {
			row.Price = fields[1]
		}
		if len(fields) > 2 {
			row.Carbon = fields[2]
		}
		payload.Rows = append(payload.Rows, row)
	}
	return payload, nil
}
