package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/httpx"
)

// Polymarket lists active prediction markets and picks out a rate-cut
// probability. Matching is by keyword over free-text questions, so the
// matched market is best effort, not guaranteed to be the semantically
// right one.
type Polymarket struct {
	baseURL string
	client  httpx.Doer
	logger  zerolog.Logger
}

func NewPolymarket(baseURL string, client httpx.Doer, logger zerolog.Logger) *Polymarket {
	return &Polymarket{
		baseURL: baseURL,
		client:  client,
		logger:  logger.With().Str("component", "polymarket").Logger(),
	}
}

func (p *Polymarket) Name() string { return "polymarket" }

// FedCutProbability returns the first outcome probability of the first
// active market whose question mentions both "fed" and "rate".
func (p *Polymarket) FedCutProbability(ctx context.Context) (float64, error) {
	var markets []struct {
		Question      string `json:"question"`
		OutcomePrices string `json:"outcomePrices"`
	}
	u := p.baseURL + "/markets?active=true&closed=false&limit=100"
	if err := getJSON(ctx, p.client, u, &markets); err != nil {
		return 0, err
	}

	for _, m := range markets {
		q := strings.ToLower(m.Question)
		if !strings.Contains(q, "fed") || !strings.Contains(q, "rate") {
			continue
		}
		prob, err := firstOutcomePrice(m.OutcomePrices)
		if err != nil {
			p.logger.Debug().Str("question", m.Question).Err(err).Msg("skipping market with unparsable prices")
			continue
		}
		return prob, nil
	}
	return 0, fmt.Errorf("polymarket: no market matching fed rate keywords")
}

// firstOutcomePrice parses the outcomePrices field, which is a JSON array of
// decimal strings serialized into a string, e.g. "[\"0.65\", \"0.35\"]".
func firstOutcomePrice(raw string) (float64, error) {
	var prices []string
	if err := json.Unmarshal([]byte(raw), &prices); err != nil {
		return 0, fmt.Errorf("decode outcome prices: %w", err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("empty outcome prices")
	}
	prob, err := strconv.ParseFloat(prices[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parse outcome price %q: %w", prices[0], err)
	}
	if prob < 0 || prob > 1 {
		return 0, fmt.Errorf("outcome price %v out of range", prob)
	}
	return prob, nil
}
