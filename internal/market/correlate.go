package market

// Fixed thresholds for the qualitative signals. Each signal is bullish for
// the primary asset when its condition holds, bearish otherwise.
const (
	spxBullFloor   = 5800.0
	rutBullFloor   = 2400.0
	dxyBullCeiling = 110.0
	goldBandLow    = 2500.0
	goldBandHigh   = 2900.0
	vixBullCeiling = 20.0
	rrpBullCeiling = 500.0
)

const (
	labelBullish = "bullish"
	labelBearish = "bearish"
)

// Correlate derives the signal set from a normalized snapshot. Pure and
// stateless: same inputs, same labels.
func Correlate(ind Indicators, fed FedPolicy) Correlations {
	return Correlations{
		SPXVsBTC:  label(float64(ind.SPX) > spxBullFloor),
		RUTVsBTC:  label(float64(ind.RUT) > rutBullFloor),
		DXYVsBTC:  label(ind.DXY < dxyBullCeiling),
		GoldVsBTC: label(float64(ind.Gold) > goldBandLow && float64(ind.Gold) < goldBandHigh),
		VIXVsBTC:  label(ind.VIX < vixBullCeiling),
		RRPVsBTC:  label(fed.RRP < rrpBullCeiling),
	}
}

func label(bullish bool) string {
	if bullish {
		return labelBullish
	}
	return labelBearish
}
