package feed

// Package feed contains the data-retrieval side of the pipeline. The core
// engine never performs I/O; these sources fetch raw rows (file, HTTP, MQTT)
// and hand them to the normalizer as plain payloads.

import (
	"context"

	"github.com/maelgrv/spotflex/core/ingest"
)

// Source supplies one payload of raw rows. Retrieval, authentication and
// rate limiting are the source's problem; parsing is the normalizer's.
type Source interface {
	Fetch(ctx context.Context) (ingest.Payload, error)
}

// Config declares the configured sources.
type Config struct {
	CSV  []CSVConfig  `json:"csv"`
	HTTP []HTTPConfig `json:"http"`
	MQTT []MQTTConfig `json:"mqtt"`
	RTE  []RTEConfig  `json:"rte"`
}

// Build instantiates every configured source. MQTT sources connect lazily on
// Fetch, so Build itself performs no I/O.
func (c Config) Build() []Source {
	var out []Source
	for _, cfg := range c.CSV {
		out = append(out, NewCSVSource(cfg))
	}
	for _, cfg := range c.HTTP {
		out = append(out, NewHTTPSource(cfg))
	}
	for _, cfg := range c.MQTT {
		out = append(out, NewMQTTSource(cfg))
	}
	for _, cfg := range c.RTE {
		out = append(out, NewRTESource(cfg))
	}
	return out
}
