package wholesalemarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/maelgrv/spotflex/auth"
	"github.com/maelgrv/spotflex/connectors"
	"github.com/maelgrv/spotflex/core/ingest"
)

// DefaultBaseURL is the production endpoint of the RTE wholesale market API.
const DefaultBaseURL = "https://digital.iservices.rte-france.com/open_api/wholesale_market/v2/france_power_exchanges"

// SourceName labels rows fetched from this API for authority ranking.
const SourceName = "rte-wholesale"

// Client retrieves France day-ahead power exchange prices.
type Client struct {
	baseURL   string
	startDate time.Time
	endDate   time.Time
	http      *http.Client
}

// New creates a wholesale market client against the production endpoint.
func New() *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves the price rows for the window set via WithStartDate and
// WithEndDate. Both bounds are required; the API rejects open windows.
func (c *Client) Fetch(ctx context.Context, cred *auth.ClientCred, opts ...connectors.Option) (ingest.Payload, error) {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return ingest.Payload{}, err
		}
	}
	if c.startDate.IsZero() || c.endDate.IsZero() {
		return ingest.Payload{}, fmt.Errorf("wholesale market fetch needs both start and end dates")
	}

	url := fmt.Sprintf("%s?start_date=%s&end_date=%s",
		c.baseURL, c.startDate.Format(time.RFC3339), c.endDate.Format(time.RFC3339))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ingest.Payload{}, fmt.Errorf("create request: %w", err)
	}
	if cred != nil {
		if err := cred.SetAuthHeader(ctx, req); err != nil {
			return ingest.Payload{}, fmt.Errorf("set auth header: %w", err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ingest.Payload{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ingest.Payload{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var market Response
	if err := json.NewDecoder(resp.Body).Decode(&market); err != nil {
		return ingest.Payload{}, fmt.Errorf("decode response: %w", err)
	}
	return ingest.Payload{Source: SourceName, Rows: market.Rows()}, nil
}
