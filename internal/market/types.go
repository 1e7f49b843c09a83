// Package market holds the aggregation core: fallback chains over upstream
// sources, the all-settled parallel aggregator, normalization into the
// canonical snapshot schema, and the correlation signals derived from it.
package market

import "time"

// Snapshot is the canonical market-conditions payload. Every field is always
// populated, either from a live source or from a documented constant
// fallback; the shape never varies with upstream availability.
type Snapshot struct {
	Bitcoin      BitcoinStats `json:"bitcoin"`
	MarketData   Indicators   `json:"marketData"`
	FedData      FedPolicy    `json:"fedData"`
	Correlations Correlations `json:"correlations"`
	Timestamp    time.Time    `json:"timestamp"`
}

// BitcoinStats describes the primary asset.
type BitcoinStats struct {
	Price     int     `json:"price"`
	Change24h float64 `json:"change24h"`
	Volume24h float64 `json:"volume24h"` // billions USD
	MarketCap float64 `json:"marketCap"` // billions USD
}

// Indicators are the broad market levels.
type Indicators struct {
	SPX   int     `json:"spx"`
	RUT   int     `json:"rut"`
	DXY   float64 `json:"dxy"`
	VIX   float64 `json:"vix"`
	Gold  int     `json:"gold"`
	US10Y float64 `json:"us10y"`
	US2Y  float64 `json:"us2y"`
}

// FedPolicy captures central-bank liquidity and policy expectations.
type FedPolicy struct {
	RRP               float64 `json:"rrp"`        // reverse repo volume, billions
	FedFunds          float64 `json:"fedFunds"`   // effective rate, percent
	FedBalance        float64 `json:"fedBalance"` // balance sheet, billions
	QTActive          bool    `json:"qtActive"`
	FedCutProbability float64 `json:"fedCutProbability"`
	NextMeetingDate   string  `json:"nextMeetingDate"`
}

// Correlations carries one qualitative signal per indicator pair.
type Correlations struct {
	SPXVsBTC  string `json:"spxVsBtc"`
	RUTVsBTC  string `json:"rutVsBtc"`
	DXYVsBTC  string `json:"dxyVsBtc"`
	GoldVsBTC string `json:"goldVsBtc"`
	VIXVsBTC  string `json:"vixVsBtc"`
	RRPVsBTC  string `json:"rrpVsBtc"`
}

// Origin records where one snapshot field's value came from.
type Origin struct {
	Source string // provider name, or "default"
	Live   bool
}

// Provenance maps snapshot field paths (e.g. "marketData.spx") to their
// origin. It never reaches the wire; it exists so default substitution stays
// observable.
type Provenance map[string]Origin

// Result pairs a finished snapshot with its provenance.
type Result struct {
	Snapshot   Snapshot
	Provenance Provenance
}
