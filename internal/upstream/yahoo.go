package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/httpx"
)

// Yahoo fetches the per-symbol chart endpoint and extracts the regular
// market price from its meta block.
type Yahoo struct {
	baseURL string
	client  httpx.Doer
	logger  zerolog.Logger
}

func NewYahoo(baseURL string, client httpx.Doer, logger zerolog.Logger) *Yahoo {
	return &Yahoo{
		baseURL: baseURL,
		client:  client,
		logger:  logger.With().Str("component", "yahoo").Logger(),
	}
}

func (y *Yahoo) Name() string { return "yahoo" }

// Quote returns the regular market price for one instrument symbol
// (e.g. "^GSPC", "DX-Y.NYB", "GC=F").
func (y *Yahoo) Quote(ctx context.Context, symbol string) (float64, error) {
	var body struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice *float64 `json:"regularMarketPrice"`
				} `json:"meta"`
			} `json:"result"`
		} `json:"chart"`
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", y.baseURL, url.PathEscape(symbol))
	if err := getJSON(ctx, y.client, u, &body); err != nil {
		return 0, err
	}

	if len(body.Chart.Result) == 0 || body.Chart.Result[0].Meta.RegularMarketPrice == nil {
		return 0, fmt.Errorf("yahoo: no regular market price for %s", symbol)
	}
	return *body.Chart.Result[0].Meta.RegularMarketPrice, nil
}
