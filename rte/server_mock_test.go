package rte

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/maelgrv/spotflex/auth"
	"github.com/maelgrv/spotflex/connectors/clients/wholesalemarket"
)

func TestMockServesClientEndToEnd(t *testing.T) {
	srv := NewServerMockWithRegistry(MockConfig{}, prometheus.NewRegistry())
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	ctx := context.Background()
	cred := auth.NewClientCred(auth.Conf{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     ts.URL + "/token",
	})

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	payload, err := wholesalemarket.New().Fetch(ctx, cred,
		wholesalemarket.WithBaseURL(ts.URL+"/open_api/wholesale_market/v2/france_power_exchanges"),
		wholesalemarket.WithStartDate(start),
		wholesalemarket.WithEndDate(end),
	)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if payload.Source != wholesalemarket.SourceName {
		t.Fatalf("source = %q", payload.Source)
	}
	if len(payload.Rows) != 48 {
		t.Fatalf("expected 48 rows, got %d", len(payload.Rows))
	}
	for i, row := range payload.Rows {
		if row.Timestamp == "" || row.Price == "" {
			t.Fatalf("row %d incomplete: %+v", i, row)
		}
	}
}

func TestMockRejectsBadWindow(t *testing.T) {
	srv := NewServerMockWithRegistry(MockConfig{}, prometheus.NewRegistry())
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/open_api/wholesale_market/v2/france_power_exchanges?start_date=nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestMockPing(t *testing.T) {
	srv := NewServerMockWithRegistry(MockConfig{}, prometheus.NewRegistry())
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestMockFetchRequiresWindow(t *testing.T) {
	srv := NewServerMockWithRegistry(MockConfig{}, prometheus.NewRegistry())
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	_, err := wholesalemarket.New().Fetch(context.Background(), nil,
		wholesalemarket.WithBaseURL(ts.URL+"/open_api/wholesale_market/v2/france_power_exchanges"),
	)
	if err == nil {
		t.Fatal("expected error without a window")
	}
}
