// Command fetch runs one aggregation and prints the snapshot as JSON. It is
// a diagnostic tool for checking upstream connectivity and fallback behavior
// without starting the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/config"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/httpx"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/logging"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/market"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/upstream"
)

func main() {
	var configPath string
	var timeout time.Duration
	var showOrigins bool
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.yaml (optional)")
	flag.DurationVar(&timeout, "timeout", 0, "override aggregation timeout (e.g. 10s)")
	flag.BoolVar(&showOrigins, "origins", false, "also print per-field value origins to stderr")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config")
	}
	if timeout > 0 {
		cfg.Upstream.AggregationTimeout = timeout
	}

	logger := logging.NewLogger(cfg.Logging)
	client := httpx.New(cfg.Upstream.PerCallTimeout)

	agg := market.NewAggregator(
		market.Config{
			PerCallTimeout:     cfg.Upstream.PerCallTimeout,
			AggregationTimeout: cfg.Upstream.AggregationTimeout,
		},
		upstream.NewBinance(cfg.Upstream.Binance.BaseURL, client, logger),
		upstream.NewCoinGecko(cfg.Upstream.CoinGecko.BaseURL, client, logger),
		upstream.NewYahoo(cfg.Upstream.Yahoo.BaseURL, client, logger),
		upstream.NewFRED(cfg.Upstream.FRED.BaseURL, cfg.Upstream.FRED.APIKey, client, logger),
		upstream.NewPolymarket(cfg.Upstream.Polymarket.BaseURL, client, logger),
		nil,
		logger,
	)

	res, err := agg.Aggregate(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("aggregate")
	}

	b, err := json.MarshalIndent(res.Snapshot, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("encode")
	}
	fmt.Println(string(b))

	if showOrigins {
		for field, origin := range res.Provenance {
			fmt.Fprintf(os.Stderr, "%-28s %s\n", field, origin.Source)
		}
	}
}
