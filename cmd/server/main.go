package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/config"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/httpx"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/logging"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/market"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/market/cache"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/metrics"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/server"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/upstream"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config")
	}

	logger := logging.NewLogger(cfg.Logging)

	if cfg.Upstream.FRED.APIKey == "" {
		logger.Warn().Msg("BITCOINPRO_UPSTREAM_FRED_API_KEY not set; FRED series fall back to defaults")
	}

	client := httpx.New(cfg.Upstream.PerCallTimeout)
	var doer httpx.Doer = client
	if cfg.Upstream.MaxRequestsPerMinute > 0 {
		rate := float64(cfg.Upstream.MaxRequestsPerMinute) / 60.0
		burst := cfg.Upstream.Burst
		if burst <= 0 {
			burst = 1
		}
		doer = &httpx.RateLimited{D: doer, TB: httpx.NewTokenBucket(rate, burst)}
	}

	registry := prometheus.NewRegistry()
	rec := metrics.New(registry)

	agg := market.NewAggregator(
		market.Config{
			PerCallTimeout:     cfg.Upstream.PerCallTimeout,
			AggregationTimeout: cfg.Upstream.AggregationTimeout,
		},
		upstream.NewBinance(cfg.Upstream.Binance.BaseURL, doer, logger),
		upstream.NewCoinGecko(cfg.Upstream.CoinGecko.BaseURL, doer, logger),
		upstream.NewYahoo(cfg.Upstream.Yahoo.BaseURL, doer, logger),
		upstream.NewFRED(cfg.Upstream.FRED.BaseURL, cfg.Upstream.FRED.APIKey, doer, logger),
		upstream.NewPolymarket(cfg.Upstream.Polymarket.BaseURL, doer, logger),
		rec,
		logger,
	)
	snapshots := cache.New(cfg.Cache.TTL, agg, rec, logger)

	srv := server.New(snapshots, registry, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, ":"+cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("server")
	}
}
