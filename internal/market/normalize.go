package market

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Rounding rules for the canonical schema: display-grade levels (asset
// price, index levels, gold) round to the nearest integer; percentages,
// yields, and the currency index keep two decimals; volume keeps one.
// Halves round away from zero, on the shortest decimal form of the float.

func roundInt(v float64) int {
	return int(decimal.NewFromFloat(v).Round(0).IntPart())
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// assemble normalizes the settled branches into a complete Result. Missing
// or non-numeric optional fields take their constant defaults silently; the
// substitution is recorded in Provenance.
func assemble(r raw, now time.Time) *Result {
	prov := make(Provenance, 16)
	origin := func(key string, o Outcome[float64]) float64 {
		prov[key] = Origin{Source: o.Source, Live: o.Live}
		return o.Value
	}

	btc := r.btc.Value
	btcOrigin := Origin{Source: r.btc.Source, Live: r.btc.Live}
	prov["bitcoin.price"] = btcOrigin
	prov["bitcoin.marketCap"] = btcOrigin

	change := btc.ChangePct24h
	prov["bitcoin.change24h"] = btcOrigin
	if math.IsNaN(change) {
		change = defaultBTCChange
		prov["bitcoin.change24h"] = Origin{Source: "default"}
	}
	volume := btc.VolumeUSD24h
	prov["bitcoin.volume24h"] = btcOrigin
	if math.IsNaN(volume) {
		volume = defaultBTCVolume
		prov["bitcoin.volume24h"] = Origin{Source: "default"}
	}

	bitcoin := BitcoinStats{
		Price:     roundInt(btc.PriceUSD),
		Change24h: round2(change),
		Volume24h: round1(volume / 1e9),
		MarketCap: round2(btc.PriceUSD * btcSupplyEstimate / 1000),
	}

	indicators := Indicators{
		SPX:   roundInt(origin("marketData.spx", r.spx)),
		RUT:   roundInt(origin("marketData.rut", r.rut)),
		DXY:   round2(origin("marketData.dxy", r.dxy)),
		VIX:   round2(origin("marketData.vix", r.vix)),
		Gold:  roundInt(origin("marketData.gold", r.gold)),
		US10Y: round2(origin("marketData.us10y", r.us10y)),
		US2Y:  defaultUS2Y,
	}
	prov["marketData.us2y"] = Origin{Source: "default"}

	balanceOrigin := Origin{Source: r.balance.Source, Live: r.balance.Live}
	prov["fedData.fedBalance"] = balanceOrigin
	prov["fedData.qtActive"] = balanceOrigin
	// Tightening is active iff the balance sheet shrank between the two most
	// recent observations.
	qtActive := defaultQTActive
	if r.balance.Live {
		qtActive = r.balance.Value.Latest < r.balance.Value.Prior
	}

	fed := FedPolicy{
		RRP:               round2(origin("fedData.rrp", r.rrp)),
		FedFunds:          round2(origin("fedData.fedFunds", r.fedRate)),
		FedBalance:        round2(r.balance.Value.Latest),
		QTActive:          qtActive,
		FedCutProbability: round2(origin("fedData.fedCutProbability", r.cutProb)),
		NextMeetingDate:   defaultNextMeetingDate,
	}

	return &Result{
		Snapshot: Snapshot{
			Bitcoin:      bitcoin,
			MarketData:   indicators,
			FedData:      fed,
			Correlations: Correlate(indicators, fed),
			Timestamp:    now,
		},
		Provenance: prov,
	}
}
