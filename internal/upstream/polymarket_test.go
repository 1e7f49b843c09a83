package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/upstream"
)

func TestPolymarketFedCutProbability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/markets", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "true", q.Get("active"))
		require.Equal(t, "false", q.Get("closed"))
		require.Equal(t, "100", q.Get("limit"))
		_, _ = w.Write([]byte(`[
			{"question":"Will it rain in NYC tomorrow?","outcomePrices":"[\"0.30\", \"0.70\"]"},
			{"question":"Will the Fed cut rates in December?","outcomePrices":"[\"0.72\", \"0.28\"]"},
			{"question":"Fed rate hike before March?","outcomePrices":"[\"0.10\", \"0.90\"]"}
		]`))
	}))
	defer srv.Close()

	p := upstream.NewPolymarket(srv.URL, testClient(), zerolog.Nop())
	prob, err := p.FedCutProbability(context.Background())
	require.NoError(t, err)
	// First keyword match wins; later matching markets are ignored.
	require.Equal(t, 0.72, prob)
}

func TestPolymarketKeywordMatchIsCaseInsensitive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"question":"FED RATE decision odds","outcomePrices":"[\"0.55\"]"}]`))
	}))
	defer srv.Close()

	p := upstream.NewPolymarket(srv.URL, testClient(), zerolog.Nop())
	prob, err := p.FedCutProbability(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0.55, prob)
}

func TestPolymarketSkipsUnparsablePrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"question":"Fed rate cut by June?","outcomePrices":"not json"},
			{"question":"Fed rate cut by July?","outcomePrices":"[\"1.65\"]"},
			{"question":"Fed rate cut by August?","outcomePrices":"[\"0.41\", \"0.59\"]"}
		]`))
	}))
	defer srv.Close()

	p := upstream.NewPolymarket(srv.URL, testClient(), zerolog.Nop())
	prob, err := p.FedCutProbability(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0.41, prob)
}

func TestPolymarketNoMatchingMarket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"question":"Will BTC close above 100k?","outcomePrices":"[\"0.44\"]"}]`))
	}))
	defer srv.Close()

	p := upstream.NewPolymarket(srv.URL, testClient(), zerolog.Nop())
	_, err := p.FedCutProbability(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no market matching")
}
