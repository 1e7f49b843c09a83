package upstream

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/httpx"
)

// CoinGecko is the fallback bitcoin source behind Binance.
type CoinGecko struct {
	baseURL string
	client  httpx.Doer
	logger  zerolog.Logger
}

func NewCoinGecko(baseURL string, client httpx.Doer, logger zerolog.Logger) *CoinGecko {
	return &CoinGecko{
		baseURL: baseURL,
		client:  client,
		logger:  logger.With().Str("component", "coingecko").Logger(),
	}
}

func (c *CoinGecko) Name() string { return "coingecko" }

// BTCSimplePrice returns the simple-price payload for bitcoin in USD.
func (c *CoinGecko) BTCSimplePrice(ctx context.Context) (BTCQuote, error) {
	var body struct {
		Bitcoin struct {
			USD       *float64 `json:"usd"`
			Change24h *float64 `json:"usd_24h_change"`
			Vol24h    *float64 `json:"usd_24h_vol"`
		} `json:"bitcoin"`
	}
	url := c.baseURL + "/api/v3/simple/price?ids=bitcoin&vs_currencies=usd&include_24hr_change=true&include_24hr_vol=true"
	if err := getJSON(ctx, c.client, url, &body); err != nil {
		return BTCQuote{}, err
	}

	if body.Bitcoin.USD == nil || *body.Bitcoin.USD <= 0 {
		return BTCQuote{}, fmt.Errorf("coingecko: missing bitcoin price")
	}

	q := BTCQuote{PriceUSD: *body.Bitcoin.USD, ChangePct24h: math.NaN(), VolumeUSD24h: math.NaN()}
	if body.Bitcoin.Change24h != nil {
		q.ChangePct24h = *body.Bitcoin.Change24h
	}
	if body.Bitcoin.Vol24h != nil {
		q.VolumeUSD24h = *body.Bitcoin.Vol24h
	}
	return q, nil
}
