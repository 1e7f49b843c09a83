package upstream

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/httpx"
)

// BTCQuote is the shape both bitcoin sources converge on. Optional fields are
// NaN when the provider omitted them; the normalizer substitutes defaults.
type BTCQuote struct {
	PriceUSD     float64
	ChangePct24h float64
	VolumeUSD24h float64
}

// Binance fetches the spot 24h ticker for BTCUSDT.
type Binance struct {
	baseURL string
	client  httpx.Doer
	logger  zerolog.Logger
}

func NewBinance(baseURL string, client httpx.Doer, logger zerolog.Logger) *Binance {
	return &Binance{
		baseURL: baseURL,
		client:  client,
		logger:  logger.With().Str("component", "binance").Logger(),
	}
}

func (b *Binance) Name() string { return "binance" }

// BTCTicker returns the last price, 24h percent change, and 24h USD volume.
func (b *Binance) BTCTicker(ctx context.Context) (BTCQuote, error) {
	var body struct {
		LastPrice          string `json:"lastPrice"`
		PriceChangePercent string `json:"priceChangePercent"`
		Volume             string `json:"volume"`
	}
	url := b.baseURL + "/api/v3/ticker/24hr?symbol=BTCUSDT"
	if err := getJSON(ctx, b.client, url, &body); err != nil {
		return BTCQuote{}, err
	}

	price, err := strconv.ParseFloat(body.LastPrice, 64)
	if err != nil || price <= 0 {
		return BTCQuote{}, fmt.Errorf("binance: bad last price %q", body.LastPrice)
	}

	q := BTCQuote{PriceUSD: price, ChangePct24h: math.NaN(), VolumeUSD24h: math.NaN()}
	if change, err := strconv.ParseFloat(body.PriceChangePercent, 64); err == nil {
		q.ChangePct24h = change
	}
	// Binance reports base-asset volume; convert to USD via the last price.
	if vol, err := strconv.ParseFloat(body.Volume, 64); err == nil && vol >= 0 {
		q.VolumeUSD24h = vol * price
	}
	return q, nil
}
