package config

import (
	"fmt"
	"math"
	"time"

	"github.com/maelgrv/spotflex/core/pricing"
)

// BandDef is one configured price band. A nil ceiling means unbounded.
type BandDef struct {
	Label   string   `json:"label"`
	Ceiling *float64 `json:"ceiling"`
}

// BandsConfig is the configured band table.
type BandsConfig struct {
	Bands []BandDef `json:"bands"`
}

// SetDefaults installs the preset band table when none is configured.
func (c *BandsConfig) SetDefaults() {
	if len(c.Bands) != 0 {
		return
	}
	for _, b := range pricing.DefaultBands() {
		def := BandDef{Label: b.Label}
		if !b.Unbounded() {
			ceiling := b.Ceiling
			def.Ceiling = &ceiling
		}
		c.Bands = append(c.Bands, def)
	}
}

// Table builds the validated band table.
func (c BandsConfig) Table() (*pricing.BandTable, error) {
	bands := make([]pricing.PriceBand, len(c.Bands))
	for i, d := range c.Bands {
		ceiling := math.Inf(1)
		if d.Ceiling != nil {
			ceiling = *d.Ceiling
		}
		bands[i] = pricing.PriceBand{Label: d.Label, Ceiling: ceiling}
	}
	return pricing.NewBandTable(bands)
}

// Validate checks the band table once, at load time.
func (c BandsConfig) Validate() error {
	_, err := c.Table()
	return err
}

// AnalysisConfig defines the availability computation parameters.
type AnalysisConfig struct {
	// PeriodStart and PeriodEnd bound the analysis window, as YYYY-MM-DD or
	// RFC3339, interpreted in the reference zone.
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	// GroupBy splits the window: "period" (one block), "month" or "year".
	GroupBy string `json:"group_by"`
	// Thresholds are the price ceilings evaluated, in EUR/MWh.
	Thresholds []float64 `json:"thresholds"`
	// PowerLevelsMW are the electrolyzer capacities compared.
	PowerLevelsMW  []float64 `json:"power_levels_mw"`
	MinSampleHours int       `json:"min_sample_hours"`
	// ReferenceThreshold drives the hour-of-day profile.
	ReferenceThreshold float64 `json:"reference_threshold"`
	// Workers bounds the period worker pool; 0 means one per CPU.
	Workers int `json:"workers"`
}

// SetDefaults applies the study presets.
func (c *AnalysisConfig) SetDefaults() {
	if len(c.Thresholds) == 0 {
		c.Thresholds = []float64{10, 15, 20, 25, 30, 35, 40, 50}
	}
	if len(c.PowerLevelsMW) == 0 {
		c.PowerLevelsMW = []float64{0.5, 1, 2, 3, 5}
	}
	if c.MinSampleHours == 0 {
		c.MinSampleHours = 24
	}
	if c.GroupBy == "" {
		c.GroupBy = "month"
	}
	if c.ReferenceThreshold == 0 {
		c.ReferenceThreshold = 15
	}
}

// Validate fails fast on parameters that would invalidate every result.
func (c AnalysisConfig) Validate() error {
	switch c.GroupBy {
	case "period", "month", "year":
	default:
		return fmt.Errorf("unknown group_by %q", c.GroupBy)
	}
	for _, p := range c.PowerLevelsMW {
		if p <= 0 {
			return fmt.Errorf("power level must be positive, got %v", p)
		}
	}
	if c.MinSampleHours < 0 {
		return fmt.Errorf("min_sample_hours must not be negative")
	}
	start, end, err := c.window(time.UTC)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("period_end must be after period_start")
	}
	return nil
}

// Window parses the analysis bounds in the given location.
func (c AnalysisConfig) Window(loc *time.Location) (time.Time, time.Time, error) {
	start, end, err := c.window(loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (c AnalysisConfig) window(loc *time.Location) (time.Time, time.Time, error) {
	start, err := parseBound(c.PeriodStart, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("period_start: %w", err)
	}
	end, err := parseBound(c.PeriodEnd, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("period_end: %w", err)
	}
	return start, end, nil
}

func parseBound(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing bound")
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable bound %q", s)
}

// OutputConfig names the export destinations. An empty path skips that
// format.
type OutputConfig struct {
	JSONPath string `json:"json_path"`
	CSVPath  string `json:"csv_path"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.JSONPath == "" && c.CSVPath == "" {
		c.JSONPath = "report.json"
	}
}
