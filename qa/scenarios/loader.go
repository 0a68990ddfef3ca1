package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maelgrv/spotflex/core/availability"
	"github.com/maelgrv/spotflex/core/ingest"
)

type RowDef struct {
	Timestamp string `yaml:"timestamp"`
	Price     string `yaml:"price"`
	Carbon    string `yaml:"carbon,omitempty"`
}

type PayloadDef struct {
	Source   string   `yaml:"source"`
	Timezone string   `yaml:"timezone,omitempty"`
	Rows     []RowDef `yaml:"rows"`
}

func (p PayloadDef) ToModel() ingest.Payload {
	rows := make([]ingest.RawRow, len(p.Rows))
	for i, r := range p.Rows {
		rows[i] = ingest.RawRow{Timestamp: r.Timestamp, Price: r.Price, Carbon: r.Carbon}
	}
	return ingest.Payload{Source: p.Source, Timezone: p.Timezone, Rows: rows}
}

type PeriodDef struct {
	Label string `yaml:"label"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

func (p PeriodDef) ToModel(loc *time.Location) (availability.Period, error) {
	start, err := parseBound(p.Start, loc)
	if err != nil {
		return availability.Period{}, fmt.Errorf("period start: %w", err)
	}
	end, err := parseBound(p.End, loc)
	if err != nil {
		return availability.Period{}, fmt.Errorf("period end: %w", err)
	}
	return availability.Period{Label: p.Label, Start: start, End: end}, nil
}

type ExpectedCell struct {
	PowerMW        float64 `yaml:"power_mw"`
	Threshold      float64 `yaml:"threshold"`
	HoursAvailable int     `yaml:"hours_available"`
	Insufficient   bool    `yaml:"insufficient,omitempty"`
}

type Expected struct {
	Rejected   int            `yaml:"rejected"`
	HoursTotal int            `yaml:"hours_total"`
	Cells      []ExpectedCell `yaml:"cells"`
}

type Scenario struct {
	Name          string       `yaml:"name"`
	Description   string       `yaml:"description,omitempty"`
	ReferenceZone string       `yaml:"reference_zone,omitempty"`
	Authority     []string     `yaml:"authority,omitempty"`
	Payloads      []PayloadDef `yaml:"payloads"`
	Period        PeriodDef    `yaml:"period"`
	Thresholds    []float64    `yaml:"thresholds"`
	PowersMW      []float64    `yaml:"powers_mw"`
	MinSample     int          `yaml:"min_sample"`
	Expected      Expected     `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func parseBound(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable bound %q", s)
}
