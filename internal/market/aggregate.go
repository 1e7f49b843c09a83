package market

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/metrics"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/upstream"
)

// ErrAggregationTimeout reports that the whole aggregation exceeded its
// deadline. Unlike per-source failures it is not absorbed by fallbacks and
// surfaces to the caller.
var ErrAggregationTimeout = errors.New("market aggregation timed out")

// BitcoinTicker is the preferred bitcoin source (direct exchange ticker).
type BitcoinTicker interface {
	BTCTicker(ctx context.Context) (upstream.BTCQuote, error)
}

// SimplePricer is the secondary bitcoin source.
type SimplePricer interface {
	BTCSimplePrice(ctx context.Context) (upstream.BTCQuote, error)
}

// Quoter returns the regular market price for one instrument symbol.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// SeriesReader reads named economic series observations.
type SeriesReader interface {
	Latest(ctx context.Context, series string) (float64, error)
	LatestPair(ctx context.Context, series string) (latest, prior float64, err error)
}

// ProbabilityReader extracts a rate-cut probability from prediction markets.
type ProbabilityReader interface {
	FedCutProbability(ctx context.Context) (float64, error)
}

// Config bounds aggregation work.
type Config struct {
	// PerCallTimeout bounds one source call; expiry is an ordinary link
	// failure. AggregationTimeout bounds the whole fan-out and is fatal.
	PerCallTimeout     time.Duration
	AggregationTimeout time.Duration
}

// Aggregator fans out every metric's fallback chain concurrently and joins
// on all branches having settled. No branch depends on another's result; a
// branch exhausting its fallbacks never aborts or delays the rest.
type Aggregator struct {
	cfg     Config
	binance BitcoinTicker
	gecko   SimplePricer
	yahoo   Quoter
	fred    SeriesReader
	poly    ProbabilityReader
	logger  zerolog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

func NewAggregator(cfg Config, binance BitcoinTicker, gecko SimplePricer, yahoo Quoter, fred SeriesReader, poly ProbabilityReader, rec *metrics.Recorder, logger zerolog.Logger) *Aggregator {
	if cfg.PerCallTimeout <= 0 {
		cfg.PerCallTimeout = 7 * time.Second
	}
	if cfg.AggregationTimeout <= 0 {
		cfg.AggregationTimeout = 25 * time.Second
	}
	return &Aggregator{
		cfg:     cfg,
		binance: binance,
		gecko:   gecko,
		yahoo:   yahoo,
		fred:    fred,
		poly:    poly,
		logger:  logger.With().Str("component", "aggregator").Logger(),
		metrics: rec,
		now:     time.Now,
	}
}

// balancePair holds the two most recent balance-sheet observations in
// billions, newest first.
type balancePair struct {
	Latest float64
	Prior  float64
}

// raw collects every settled branch. Each branch writes exactly one field,
// so no locking is needed beyond the join.
type raw struct {
	btc     Outcome[upstream.BTCQuote]
	spx     Outcome[float64]
	rut     Outcome[float64]
	dxy     Outcome[float64]
	vix     Outcome[float64]
	gold    Outcome[float64]
	us10y   Outcome[float64]
	rrp     Outcome[float64]
	fedRate Outcome[float64]
	balance Outcome[balancePair]
	cutProb Outcome[float64]
}

// Aggregate runs all chains under the aggregation deadline and assembles a
// complete Result. The only non-nil error it returns wraps
// ErrAggregationTimeout; everything else is absorbed into defaults.
func (a *Aggregator) Aggregate(ctx context.Context) (*Result, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, a.cfg.AggregationTimeout)
	defer cancel()

	var r raw
	var wg sync.WaitGroup
	settle := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	settle(func() { r.btc = a.btcChain().resolve(ctx) })
	settle(func() { r.spx = a.yahooChain("spx", "^GSPC", defaultSPX).resolve(ctx) })
	settle(func() { r.rut = a.yahooChain("rut", "^RUT", defaultRUT).resolve(ctx) })
	settle(func() { r.dxy = a.yahooChain("dxy", "DX-Y.NYB", defaultDXY).resolve(ctx) })
	settle(func() { r.vix = a.yahooChain("vix", "^VIX", defaultVIX).resolve(ctx) })
	settle(func() { r.gold = a.yahooChain("gold", "GC=F", defaultGold).resolve(ctx) })
	settle(func() { r.us10y = a.yahooChain("us10y", "^TNX", defaultUS10Y).resolve(ctx) })
	settle(func() { r.rrp = a.fredChain("rrp", "RRPONTSYD", defaultRRP).resolve(ctx) })
	settle(func() { r.fedRate = a.fredChain("fedFunds", "DFF", defaultFedFunds).resolve(ctx) })
	settle(func() { r.balance = a.balanceChain().resolve(ctx) })
	settle(func() { r.cutProb = a.cutProbabilityChain().resolve(ctx) })

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// All-settled join. The deadline firing cancels the wait, not the
	// branches themselves; their outbound calls unwind through the per-call
	// contexts while the caller gets a prompt timeout.
	select {
	case <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w after %s", ErrAggregationTimeout, a.cfg.AggregationTimeout)
	}

	res := assemble(r, a.now().UTC())
	a.metrics.RecordBuild(time.Since(start).Seconds())
	a.logger.Debug().Dur("elapsed", time.Since(start)).Msg("snapshot aggregated")
	return res, nil
}

func (a *Aggregator) btcChain() chain[upstream.BTCQuote] {
	return chain[upstream.BTCQuote]{
		metric: "bitcoin",
		links: []link[upstream.BTCQuote]{
			{source: "binance", fetch: a.binance.BTCTicker},
			{source: "coingecko", fetch: a.gecko.BTCSimplePrice},
		},
		def: upstream.BTCQuote{
			PriceUSD:     defaultBTCPrice,
			ChangePct24h: defaultBTCChange,
			VolumeUSD24h: defaultBTCVolume,
		},
		perCall: a.cfg.PerCallTimeout,
		logger:  a.logger,
		metrics: a.metrics,
	}
}

func (a *Aggregator) yahooChain(metric, symbol string, def float64) chain[float64] {
	return chain[float64]{
		metric: metric,
		links: []link[float64]{
			{source: "yahoo", fetch: func(ctx context.Context) (float64, error) {
				return a.yahoo.Quote(ctx, symbol)
			}},
		},
		def:     def,
		perCall: a.cfg.PerCallTimeout,
		logger:  a.logger,
		metrics: a.metrics,
	}
}

func (a *Aggregator) fredChain(metric, series string, def float64) chain[float64] {
	return chain[float64]{
		metric: metric,
		links: []link[float64]{
			{source: "fred", fetch: func(ctx context.Context) (float64, error) {
				return a.fred.Latest(ctx, series)
			}},
		},
		def:     def,
		perCall: a.cfg.PerCallTimeout,
		logger:  a.logger,
		metrics: a.metrics,
	}
}

func (a *Aggregator) balanceChain() chain[balancePair] {
	return chain[balancePair]{
		metric: "fedBalance",
		links: []link[balancePair]{
			{source: "fred", fetch: func(ctx context.Context) (balancePair, error) {
				latest, prior, err := a.fred.LatestPair(ctx, "WALCL")
				if err != nil {
					return balancePair{}, err
				}
				// WALCL reports millions of dollars.
				return balancePair{Latest: latest / 1000, Prior: prior / 1000}, nil
			}},
		},
		def:     balancePair{Latest: defaultFedBalance, Prior: defaultFedBalance},
		perCall: a.cfg.PerCallTimeout,
		logger:  a.logger,
		metrics: a.metrics,
	}
}

func (a *Aggregator) cutProbabilityChain() chain[float64] {
	return chain[float64]{
		metric: "fedCutProbability",
		links: []link[float64]{
			{source: "polymarket", fetch: a.poly.FedCutProbability},
		},
		def:     defaultCutProbability,
		perCall: a.cfg.PerCallTimeout,
		logger:  a.logger,
		metrics: a.metrics,
	}
}
