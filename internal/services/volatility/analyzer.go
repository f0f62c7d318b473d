package volatility

import (
	"math"

	"github.com/markcheno/go-talib"

	"fourcastr/internal/domain/market"
	"fourcastr/internal/domain/volatility"
	"fourcastr/pkg/logger"
)

const (
	atrPeriod    = 14
	sampleWindow = 20

	compressionRatio = 0.85
	expansionRatio   = 1.15
)

// Analyzer classifies current ATR behavior as compression, expansion,
// or neutral relative to recent history
type Analyzer struct {
	log *logger.Logger
}

// NewAnalyzer creates a new volatility analyzer
func NewAnalyzer(log *logger.Logger) *Analyzer {
	return &Analyzer{log: log.With("component", "volatility")}
}

// Analyze computes the ATR regime snapshot for a bar window.
//
// With fewer than atrPeriod+1 bars, or fewer than sampleWindow ATR
// samples, the snapshot is the defined neutral/zero value with
// Sufficient=false. No input produces NaN or Inf.
func (a *Analyzer) Analyze(bars []market.Bar) volatility.Snapshot {
	neutral := volatility.Snapshot{State: volatility.StateNeutral}

	if len(bars) < atrPeriod+1 {
		return neutral
	}

	atr := talib.Atr(market.Highs(bars), market.Lows(bars), market.Closes(bars), atrPeriod)

	currentATR := atr[len(atr)-1]
	lastClose := bars[len(bars)-1].Close
	if currentATR <= 0 || lastClose <= 0 {
		return neutral
	}

	// ATR as percent of close per bar, over the trailing sample window
	var samples []float64
	for i := len(bars) - sampleWindow; i < len(bars); i++ {
		if i < atrPeriod {
			continue
		}
		if bars[i].Close <= 0 || atr[i] <= 0 {
			continue
		}
		samples = append(samples, atr[i]/bars[i].Close*100)
	}

	currentPct := currentATR / lastClose * 100

	if len(samples) < sampleWindow {
		neutral.CurrentATR = currentATR
		neutral.CurrentATRPercent = currentPct
		return neutral
	}

	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	averagePct := sum / float64(len(samples))
	if averagePct <= 0 {
		neutral.CurrentATR = currentATR
		neutral.CurrentATRPercent = currentPct
		return neutral
	}

	ratio := currentPct / averagePct

	snap := volatility.Snapshot{
		CurrentATR:        currentATR,
		CurrentATRPercent: currentPct,
		AverageATRPercent: averagePct,
		Sufficient:        true,
	}

	switch {
	case ratio < compressionRatio:
		snap.State = volatility.StateCompression
		snap.Strength = clamp((1-ratio)*200, 0, 100)
	case ratio > expansionRatio:
		snap.State = volatility.StateExpansion
		snap.Strength = clamp((ratio-1)*200, 0, 100)
	default:
		snap.State = volatility.StateNeutral
		snap.Strength = 50
	}

	a.log.Debugf("atr=%.4f atr%%=%.2f avg%%=%.2f state=%s strength=%.0f",
		snap.CurrentATR, snap.CurrentATRPercent, snap.AverageATRPercent,
		snap.State, snap.Strength)

	return snap
}

// CurrentATR returns the latest ATR(14) value, or 0 when fewer than 15
// bars exist
func CurrentATR(bars []market.Bar) float64 {
	if len(bars) < atrPeriod+1 {
		return 0
	}
	atr := talib.Atr(market.Highs(bars), market.Lows(bars), market.Closes(bars), atrPeriod)
	v := atr[len(atr)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
