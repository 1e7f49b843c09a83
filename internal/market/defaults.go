package market

// Constant fallbacks, one per metric. A chain settles on its fallback only
// after every source for the metric has failed, so a total upstream outage
// still yields a complete snapshot built from these.
const (
	defaultBTCPrice  = 95000.0
	defaultBTCChange = 2.5
	defaultBTCVolume = 45_000_000_000.0 // USD

	defaultSPX   = 5970.0
	defaultRUT   = 2582.0
	defaultDXY   = 109.07
	defaultVIX   = 14.67
	defaultGold  = 2650.0
	defaultUS10Y = 4.18
	defaultUS2Y  = 3.54

	defaultRRP             = 98.5  // billions
	defaultFedFunds        = 4.33  // percent
	defaultFedBalance      = 6800.0 // billions
	defaultQTActive        = true
	defaultCutProbability  = 0.65
	defaultNextMeetingDate = "2025-12-10"

	// btcSupplyEstimate approximates circulating supply in millions of
	// coins. It is a constant, not live-fetched; market cap derived from it
	// is an approximation.
	btcSupplyEstimate = 19.5
)
