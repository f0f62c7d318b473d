package rating

import (
	"math"

	"github.com/markcheno/go-talib"

	"fourcastr/internal/domain/market"
)

// Technical component scores. Each function returns a 0-100 value and
// substitutes 50 when the window is too short for its indicators, so
// degraded inputs read as neutral rather than failing.

// momentumScore blends RSI(14) with the normalized MACD histogram and
// adjusts 15% for alignment with the target direction
func momentumScore(bars []market.Bar, bullish bool) float64 {
	closes := market.Closes(bars)
	if len(closes) < 35 {
		return 50
	}

	rsi := talib.Rsi(closes, 14)
	currentRSI := rsi[len(rsi)-1]

	_, _, hist := talib.Macd(closes, 12, 26, 9)
	currentHist := hist[len(hist)-1]

	lastClose := closes[len(closes)-1]
	if lastClose <= 0 || math.IsNaN(currentRSI) {
		return 50
	}

	// Histogram as percent of price, centered at 50
	histNorm := clampScore(50 + currentHist/lastClose*100*20)

	score := currentRSI*0.7 + histNorm*0.3

	aligned := (bullish && currentRSI >= 50) || (!bullish && currentRSI < 50)
	if aligned {
		score *= 1.15
	} else {
		score *= 0.85
	}
	return clampScore(score)
}

// trendScore scores the EMA12/26 cross plus the EMA26 slope over the
// last 5 bars
func trendScore(bars []market.Bar) float64 {
	closes := market.Closes(bars)
	if len(closes) < 32 {
		return 50
	}

	ema12 := talib.Ema(closes, 12)
	ema26 := talib.Ema(closes, 26)
	n := len(closes) - 1

	score := 50.0
	if ema12[n] > ema26[n] {
		score += 25
	} else if ema12[n] < ema26[n] {
		score -= 25
	}

	slope := ema26[n] - ema26[n-5]
	if slope > 0 {
		score += 25
	} else if slope < 0 {
		score -= 25
	}
	return clampScore(score)
}

// idealATRPercent is the ATR% sweet spot for tradability
const idealATRPercent = 2.75

// volatilityScore blends the ATR% distance from the ideal band with
// the Bollinger band-width regime
func volatilityScore(bars []market.Bar, atrPercent float64) float64 {
	base := 50.0
	if atrPercent > 0 {
		base = clampScore(100 - math.Abs(atrPercent-idealATRPercent)*20)
	}

	closes := market.Closes(bars)
	if len(closes) < 21 {
		return base
	}

	upper, middle, lower := talib.BBands(closes, 20, 2.0, 2.0, talib.SMA)
	n := len(closes) - 1
	if middle[n] <= 0 {
		return base
	}
	width := (upper[n] - lower[n]) / middle[n] * 100

	regime := 60.0
	switch {
	case width < 4:
		regime = 70 // squeeze, stored energy
	case width > 12:
		regime = 40
	}

	return clampScore(base*0.6 + regime*0.4)
}

// volumeScore blends the latest volume against its 20-bar average with
// the 10-bar On-Balance-Volume trend
func volumeScore(bars []market.Bar) float64 {
	if len(bars) < 21 {
		return 50
	}

	n := len(bars) - 1
	sum := 0.0
	for _, b := range bars[n-20 : n] {
		sum += b.Volume
	}
	avg := sum / 20
	if avg <= 0 {
		return 50
	}

	base := clampScore(bars[n].Volume / avg * 50)

	obv := talib.Obv(market.Closes(bars), market.Volumes(bars))
	obvScore := 35.0
	if obv[n] > obv[n-10] {
		obvScore = 65
	}

	return clampScore(base*0.6 + obvScore*0.4)
}

// proximityScore decays from 100 at the level by 10 points per percent
// of distance
func proximityScore(distancePercent float64) float64 {
	return clampScore(100 - 10*distancePercent)
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 50
	}
	return math.Min(100, math.Max(0, v))
}
