package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/httpx"
)

// FRED fetches named economic series from the St. Louis Fed observations
// endpoint. Observations arrive newest first; the value "." marks a gap.
type FRED struct {
	baseURL string
	apiKey  string
	client  httpx.Doer
	logger  zerolog.Logger
}

func NewFRED(baseURL, apiKey string, client httpx.Doer, logger zerolog.Logger) *FRED {
	return &FRED{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		logger:  logger.With().Str("component", "fred").Logger(),
	}
}

func (f *FRED) Name() string { return "fred" }

// Latest returns the most recent numeric observation for series.
func (f *FRED) Latest(ctx context.Context, series string) (float64, error) {
	values, err := f.observations(ctx, series, 5)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("fred: no numeric observations for %s", series)
	}
	return values[0], nil
}

// LatestPair returns the two most recent numeric observations for series,
// newest first.
func (f *FRED) LatestPair(ctx context.Context, series string) (latest, prior float64, err error) {
	values, err := f.observations(ctx, series, 5)
	if err != nil {
		return 0, 0, err
	}
	if len(values) < 2 {
		return 0, 0, fmt.Errorf("fred: fewer than two numeric observations for %s", series)
	}
	return values[0], values[1], nil
}

func (f *FRED) observations(ctx context.Context, series string, limit int) ([]float64, error) {
	var body struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	q := url.Values{}
	q.Set("series_id", series)
	q.Set("api_key", f.apiKey)
	q.Set("file_type", "json")
	q.Set("sort_order", "desc")
	q.Set("limit", strconv.Itoa(limit))

	u := f.baseURL + "/fred/series/observations?" + q.Encode()
	if err := getJSON(ctx, f.client, u, &body); err != nil {
		return nil, err
	}

	values := make([]float64, 0, len(body.Observations))
	for _, obs := range body.Observations {
		if obs.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}
