package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"timestamp":"2024-03-01T00:00:00Z","price":5.2,"carbon_intensity":30},
			{"timestamp":"2024-03-01T01:00:00Z","price":"-2"},
			{"timestamp":"2024-03-01T02:00:00Z","price":null}
		]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{Source: "api", URL: srv.URL, APIKey: "secret"})
	payload, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, payload.Rows, 3)
	assert.Equal(t, "5.2", payload.Rows[0].Price)
	assert.Equal(t, "30", payload.Rows[0].Carbon)
	assert.Equal(t, "-2", payload.Rows[1].Price)
	assert.Equal(t, "", payload.Rows[1].Carbon)
	// null price carries over as empty text and fails validation downstream.
	assert.Equal(t, "", payload.Rows[2].Price)
}

func TestHTTPSourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{Source: "api", URL: srv.URL})
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
}

func TestHTTPSourceBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{Source: "api", URL: srv.URL})
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
}
