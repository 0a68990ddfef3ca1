package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/maelgrv/spotflex/core/ingest"
)

// HTTPConfig describes one HTTP JSON source: an endpoint returning an array
// of row objects with timestamp/price/carbon_intensity fields.
type HTTPConfig struct {
	Source         string `json:"source"`
	URL            string `json:"url"`
	Timezone       string `json:"timezone"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// HTTPSource fetches raw rows from a market-data API.
type HTTPSource struct {
	cfg    HTTPConfig
	client *http.Client
}

// NewHTTPSource creates an HTTP source with a bounded request timeout.
func NewHTTPSource(cfg HTTPConfig) *HTTPSource {
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	return &HTTPSource{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

// Fetch performs one GET and converts the response into raw rows. Values of
// any JSON scalar type are carried over as text; the normalizer decides what
// is valid.
func (s *HTTPSource) Fetch(ctx context.Context) (ingest.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return ingest.Payload{}, fmt.Errorf("build request: %w", err)
	}
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return ingest.Payload{}, fmt.Errorf("fetch %s: %w", s.cfg.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ingest.Payload{}, fmt.Errorf("fetch %s: unexpected status %s", s.cfg.URL, resp.Status)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return ingest.Payload{}, fmt.Errorf("decode %s: %w", s.cfg.URL, err)
	}

	payload := ingest.Payload{Source: s.cfg.Source, Timezone: s.cfg.Timezone, Rows: make([]ingest.RawRow, 0, len(rows))}
	for _, m := range rows {
		payload.Rows = append(payload.Rows, ingest.RawRow{
			Timestamp: scalarText(m["timestamp"]),
			Price:     scalarText(m["price"]),
			Carbon:    scalarText(m["carbon_intensity"]),
		})
	}
	return payload, nil
}

// scalarText renders a decoded JSON scalar as raw text; anything else
// (null, objects, arrays) becomes empty and fails validation downstream.
func scalarText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return fmt.Sprintf("%t", x)
	default:
		return ""
	}
}
