package metrics

import (
	"time"

	"github.com/maelgrv/spotflex/core/report"
)

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}

// Sink receives pipeline observations. Implementations must be safe for
// concurrent use.
type Sink interface {
	// RecordIngestion reports row counts for one normalized payload.
	RecordIngestion(source string, accepted, rejected int)
	// RecordReport reports one compiled report and its computation time.
	RecordReport(rep report.Report, dur time.Duration)
	Close() error
}

// NopSink discards every observation.
type NopSink struct{}

func (NopSink) RecordIngestion(string, int, int)          {}
func (NopSink) RecordReport(report.Report, time.Duration) {}
func (NopSink) Close() error                              { return nil }

// MultiSink fans observations out to several sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink { return &MultiSink{sinks: sinks} }

func (m *MultiSink) RecordIngestion(source string, accepted, rejected int) {
	for _, s := range m.sinks {
		s.RecordIngestion(source, accepted, rejected)
	}
}

func (m *MultiSink) RecordReport(rep report.Report, dur time.Duration) {
	for _, s := range m.sinks {
		s.RecordReport(rep, dur)
	}
}

func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
