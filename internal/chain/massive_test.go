package chain

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMassiveChainPaginationAndDecoding(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/open-close/SPX/2024-05-15", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"OK","symbol":"SPX","open":5300.1,"close":5308.15}`)
	})

	mux.HandleFunc("/v3/snapshot/options/SPX", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("cursor") == "" {
			assert.Equal(t, "2024-06-21", r.URL.Query().Get("expiration_date"))
			fmt.Fprintf(w, `{
				"status": "OK",
				"results": [
					{"details": {"contract_type": "call", "expiration_date": "2024-06-21", "strike_price": 5300, "ticker": "O:SPX240621C05300000"}, "day": {"close": 95.6}},
					{"details": {"contract_type": "put", "expiration_date": "2024-06-21", "strike_price": 5300, "ticker": "O:SPX240621P05300000"}, "day": {"close": 78.25}},
					{"details": {"contract_type": "call", "expiration_date": "2024-06-21", "strike_price": 5400, "ticker": "O:SPX240621C05400000"}, "day": {"close": 0}}
				],
				"next_url": "http://%s/v3/snapshot/options/SPX?cursor=page2"
			}`, r.Host)
			return
		}
		fmt.Fprint(w, `{
			"status": "OK",
			"results": [
				{"details": {"contract_type": "other", "expiration_date": "2024-06-21", "strike_price": 5000, "ticker": "O:SPXW"}, "day": {"close": 1}},
				{"details": {"contract_type": "put", "expiration_date": "2024-06-21", "strike_price": 5200, "ticker": "O:SPX240621P05200000"}, "day": {"close": 41.05}}
			]
		}`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	src := NewMassiveSource("test-key", 0.02, WithBaseURL(server.URL))

	asOf := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	quotes, err := src.Chain(context.Background(), "SPX", expiry, asOf)
	require.NoError(t, err)

	// Zero-close and unknown-type contracts are dropped; three survive
	// across both pages.
	require.Len(t, quotes, 3)

	for _, q := range quotes {
		assert.Equal(t, 5308.15, q.Spot)
		assert.Equal(t, 0.02, q.Rate)
		assert.InDelta(t, 37.0/365.0, q.TimeToExpiry, 1e-9)
	}
	assert.Equal(t, 5300.0, quotes[0].Strike)
	assert.Equal(t, 95.6, quotes[0].MarketPrice)
	assert.Equal(t, 5200.0, quotes[2].Strike)
	assert.Equal(t, 41.05, quotes[2].MarketPrice)
}

func TestMassiveSpotFallsBackToSecondary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"ERROR"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	secondary := NewSeededSyntheticSource(0.02, 7)
	src := NewMassiveSource("test-key", 0.02, WithBaseURL(server.URL), WithSecondary(secondary))

	spot, err := src.Spot(context.Background(), "SPX", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Greater(t, spot, 0.0)
	assert.Same(t, secondary, src.Secondary())
}
