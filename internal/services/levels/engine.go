package levels

import (
	"fmt"

	"fourcastr/internal/domain/levels"
	"fourcastr/internal/domain/market"
	"fourcastr/pkg/logger"
)

// Config holds the key-level engine tunables
type Config struct {
	SwingWindow    int
	PivotLeftBars  int
	PivotRightBars int
	NumPriceLevels int

	// Per-method toggles
	Octaves       bool
	Pivots        bool
	VolumeProfile bool
	Fibonacci     bool
	PivotRange    bool
}

// DefaultConfig returns the standard engine configuration
func DefaultConfig() Config {
	return Config{
		SwingWindow:    20,
		PivotLeftBars:  5,
		PivotRightBars: 5,
		NumPriceLevels: 24,
		Octaves:        true,
		Pivots:         true,
		VolumeProfile:  true,
		Fibonacci:      true,
		PivotRange:     true,
	}
}

// fibRetracementRatios are the standard retracement ratios applied to
// the swing-window high/low
var fibRetracementRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0}

// octaveStrengths are fixed weights per eighth; the midpoint (4/8) is
// the strongest, extremes next
var octaveStrengths = [9]float64{9, 5, 7, 6, 10, 6, 7, 5, 9}

// Engine derives static candidate support/resistance prices from a bar
// window using independent geometric and statistical methods.
//
// Any method with insufficient bars silently contributes zero levels;
// the engine as a whole never fails.
type Engine struct {
	cfg Config
	log *logger.Logger
}

// NewEngine creates a new key-level engine
func NewEngine(cfg Config, log *logger.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		log: log.With("component", "level_engine"),
	}
}

// Derive computes all enabled key levels for the bar window
func (e *Engine) Derive(bars []market.Bar) []levels.KeyLevel {
	var out []levels.KeyLevel

	if e.cfg.Octaves {
		out = append(out, e.octaveLevels(bars)...)
	}
	if e.cfg.Pivots {
		out = append(out, e.pivotLevels(bars)...)
	}
	if e.cfg.VolumeProfile {
		out = append(out, e.volumeLevels(bars)...)
	}
	if e.cfg.Fibonacci {
		out = append(out, e.fibonacciLevels(bars)...)
	}
	if e.cfg.PivotRange {
		out = append(out, e.pivotRangeLevels(bars)...)
	}

	return out
}

// octaveLevels divides the swing-window range into eighths plus the two
// extremes. Always exactly 9 levels when the window is long enough.
func (e *Engine) octaveLevels(bars []market.Bar) []levels.KeyLevel {
	if len(bars) < e.cfg.SwingWindow {
		return nil
	}

	high, low := market.WindowHighLow(bars, e.cfg.SwingWindow)
	span := high - low
	if span <= 0 {
		return nil
	}

	out := make([]levels.KeyLevel, 0, 9)
	for i := 0; i <= 8; i++ {
		out = append(out, levels.KeyLevel{
			Price:    low + span*float64(i)/8,
			Type:     levels.TypeGannOctave,
			Label:    fmt.Sprintf("%d/8", i),
			Strength: octaveStrengths[i],
		})
	}
	return out
}

// pivotLevels finds local extrema confirmed by strict inequality over
// the configured look-around bars on both sides
func (e *Engine) pivotLevels(bars []market.Bar) []levels.KeyLevel {
	left, right := e.cfg.PivotLeftBars, e.cfg.PivotRightBars
	if len(bars) < left+right+1 {
		return nil
	}

	var out []levels.KeyLevel
	for i := left; i < len(bars)-right; i++ {
		if isPivotHigh(bars, i, left, right) {
			out = append(out, levels.KeyLevel{
				Price:    bars[i].High,
				Type:     levels.TypePivotHigh,
				Label:    "pivot high " + bars[i].Timestamp.Format("2006-01-02"),
				Strength: 7,
			})
		}
		if isPivotLow(bars, i, left, right) {
			out = append(out, levels.KeyLevel{
				Price:    bars[i].Low,
				Type:     levels.TypePivotLow,
				Label:    "pivot low " + bars[i].Timestamp.Format("2006-01-02"),
				Strength: 7,
			})
		}
	}
	return out
}

func isPivotHigh(bars []market.Bar, i, left, right int) bool {
	h := bars[i].High
	for j := i - left; j < i; j++ {
		if bars[j].High >= h {
			return false
		}
	}
	for j := i + 1; j <= i+right; j++ {
		if bars[j].High >= h {
			return false
		}
	}
	return true
}

func isPivotLow(bars []market.Bar, i, left, right int) bool {
	l := bars[i].Low
	for j := i - left; j < i; j++ {
		if bars[j].Low <= l {
			return false
		}
	}
	for j := i + 1; j <= i+right; j++ {
		if bars[j].Low <= l {
			return false
		}
	}
	return true
}

// volumeLevels derives POC and value-area boundaries from the volume
// profile of the window
func (e *Engine) volumeLevels(bars []market.Bar) []levels.KeyLevel {
	profile, ok := BuildProfile(bars, e.cfg.NumPriceLevels)
	if !ok {
		return nil
	}

	return []levels.KeyLevel{
		{Price: profile.POC, Type: levels.TypePOC, Label: "POC", Strength: 9},
		{Price: profile.ValueAreaHigh, Type: levels.TypeValueAreaHigh, Label: "VAH", Strength: 8},
		{Price: profile.ValueAreaLow, Type: levels.TypeValueAreaLow, Label: "VAL", Strength: 8},
	}
}

// fibonacciLevels applies the standard retracement ratios to the
// swing-window high/low
func (e *Engine) fibonacciLevels(bars []market.Bar) []levels.KeyLevel {
	if len(bars) < e.cfg.SwingWindow {
		return nil
	}

	high, low := market.WindowHighLow(bars, e.cfg.SwingWindow)
	span := high - low
	if span <= 0 {
		return nil
	}

	out := make([]levels.KeyLevel, 0, len(fibRetracementRatios))
	for _, ratio := range fibRetracementRatios {
		strength := 6.0
		if ratio == 0.5 || ratio == 0.618 {
			strength = 8
		}
		out = append(out, levels.KeyLevel{
			Price:    low + span*ratio,
			Type:     levels.TypeFibonacci,
			Label:    fmt.Sprintf("fib %.3f", ratio),
			Strength: strength,
		})
	}
	return out
}

// pivotRangeLevels derives the central pivot range of the latest bar
func (e *Engine) pivotRangeLevels(bars []market.Bar) []levels.KeyLevel {
	if len(bars) < 2 {
		return nil
	}

	last := bars[len(bars)-1]
	prior := bars[len(bars)-2]
	priorCPR := ComputePivotRange(prior, 0)
	cpr := ComputePivotRange(last, priorCPR.Width)

	return []levels.KeyLevel{
		{Price: cpr.Pivot, Type: levels.TypeSwing, Label: "CPR pivot", Strength: 6},
		{Price: cpr.BottomCentral, Type: levels.TypeSwing, Label: "CPR bc", Strength: 5},
		{Price: cpr.TopCentral, Type: levels.TypeSwing, Label: "CPR tc", Strength: 5},
	}
}

// ComputePivotRange builds the central pivot range of a bar. Width is
// classified narrowing relative to the supplied prior-period width.
func ComputePivotRange(bar market.Bar, priorWidth float64) levels.CentralPivotRange {
	pivot := bar.TypicalPrice()
	bc := (bar.High + bar.Low) / 2
	tc := 2*pivot - bc

	width := tc - bc
	if width < 0 {
		width = -width
	}

	return levels.CentralPivotRange{
		Pivot:         pivot,
		BottomCentral: bc,
		TopCentral:    tc,
		Width:         width,
		Narrowing:     priorWidth > 0 && width < priorWidth,
	}
}
