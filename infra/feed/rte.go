package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/maelgrv/spotflex/auth"
	"github.com/maelgrv/spotflex/connectors"
	"github.com/maelgrv/spotflex/connectors/clients/wholesalemarket"
	"github.com/maelgrv/spotflex/core/ingest"
)

// RTEConfig describes one RTE wholesale market API source. An empty BaseURL
// targets the production endpoint; point it at a local mock otherwise.
type RTEConfig struct {
	BaseURL string    `json:"base_url"`
	Auth    auth.Conf `json:"auth"`
	// StartDate and EndDate bound the fetched window, YYYY-MM-DD or RFC3339.
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RTESource fetches France day-ahead prices through the wholesale market
// connector.
type RTESource struct {
	cfg    RTEConfig
	client connectors.Client
	cred   *auth.ClientCred
}

// NewRTESource creates an RTE API source. Credentials are optional; a mock
// endpoint accepts unauthenticated requests.
func NewRTESource(cfg RTEConfig) *RTESource {
	s := &RTESource{cfg: cfg, client: wholesalemarket.New()}
	if cfg.Auth.TokenURL != "" {
		s.cred = auth.NewClientCred(cfg.Auth)
	}
	return s
}

// Fetch retrieves the configured window in one call.
func (s *RTESource) Fetch(ctx context.Context) (ingest.Payload, error) {
	start, err := parseFeedDate(s.cfg.StartDate)
	if err != nil {
		return ingest.Payload{}, fmt.Errorf("rte start_date: %w", err)
	}
	end, err := parseFeedDate(s.cfg.EndDate)
	if err != nil {
		return ingest.Payload{}, fmt.Errorf("rte end_date: %w", err)
	}

	opts := []connectors.Option{
		wholesalemarket.WithStartDate(start),
		wholesalemarket.WithEndDate(end),
	}
	if s.cfg.BaseURL != "" {
		opts = append(opts, wholesalemarket.WithBaseURL(s.cfg.BaseURL))
	}
	return s.client.Fetch(ctx, s.cred, opts...)
}

func parseFeedDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", v)
}
