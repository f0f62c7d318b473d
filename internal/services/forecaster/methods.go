package forecaster

import (
	"math"
	"time"

	"fourcastr/internal/domain/forecast"
	"fourcastr/internal/domain/market"
	"fourcastr/pkg/logger"
)

// Config holds the forecaster tunables
type Config struct {
	SwingLookaround int

	// Gann time-square projection constants. Empirically chosen in the
	// source methodology, kept configurable.
	GannMultiplier float64
}

// DefaultConfig returns the standard forecaster configuration
func DefaultConfig() Config {
	return Config{
		SwingLookaround: 5,
		GannMultiplier:  2.0,
	}
}

// atrHorizon is one fixed projection horizon of the ATR method
type atrHorizon struct {
	method     forecast.Method
	bars       int
	minATR     float64
	maxATR     float64
	confidence float64
}

var atrHorizons = []atrHorizon{
	{forecast.MethodATRWeekly, 5, 1, 1.5, 0.65},
	{forecast.MethodATRBiweekly, 10, 2, 3, 0.75},
	{forecast.MethodATRMonthly, 20, 3, 5, 0.75},
	{forecast.MethodATRQuarterly, 60, 6, 10, 0.65},
}

// fibExtension is one extension ratio of the Fibonacci method
type fibExtension struct {
	method     forecast.Method
	ratio      float64
	confidence float64
}

var fibExtensions = []fibExtension{
	{forecast.MethodFibExt618, 0.618, 0.75},
	{forecast.MethodFibExt1000, 1.0, 0.85},
	{forecast.MethodFibExt1618, 1.618, 0.9},
}

// gannSquare is one bar-offset of the time-square method
type gannSquare struct {
	method     forecast.Method
	offset     int
	confidence float64
}

var gannSquares = []gannSquare{
	{forecast.MethodGannSquare5, 5, 0.7},
	{forecast.MethodGannSquare10, 10, 0.7},
	{forecast.MethodGannSquare20, 20, 0.8},
	{forecast.MethodGannSquare60, 60, 0.8},
}

// Forecaster projects future price/date pairs from the most recent
// confirmed swing point using three independent methods
type Forecaster struct {
	cfg Config
	log *logger.Logger
}

// NewForecaster creates a new multi-method forecaster
func NewForecaster(cfg Config, log *logger.Logger) *Forecaster {
	return &Forecaster{
		cfg: cfg,
		log: log.With("component", "forecaster"),
	}
}

// Forecast runs all three methods against the anchor swing. windowEnd
// bounds how far forward the ATR-horizon method projects; a zero
// windowEnd means unbounded. atr must be the current ATR(14); a zero
// atr disables the ATR and Gann methods.
func (f *Forecaster) Forecast(bars []market.Bar, swing *forecast.SwingPoint, atr float64, windowEnd time.Time) []forecast.MethodForecast {
	if swing == nil {
		return nil
	}

	var out []forecast.MethodForecast
	out = append(out, f.atrProjections(swing, atr, windowEnd)...)
	out = append(out, f.fibProjections(bars, swing, atr)...)
	out = append(out, f.gannProjections(swing, atr)...)

	f.log.Debugf("projected %d forecasts from %s swing at %.4f",
		len(out), swing.Type, swing.Price)
	return out
}

// atrProjections projects one target per fixed horizon at
// swingPrice +/- mean(minATR, maxATR) x ATR, skipping dates beyond the
// window boundary
func (f *Forecaster) atrProjections(swing *forecast.SwingPoint, atr float64, windowEnd time.Time) []forecast.MethodForecast {
	if atr <= 0 {
		return nil
	}

	var out []forecast.MethodForecast
	for _, h := range atrHorizons {
		date := swing.Date.AddDate(0, 0, h.bars)
		if !windowEnd.IsZero() && date.After(windowEnd) {
			continue
		}

		move := (h.minATR + h.maxATR) / 2 * atr
		price := swing.Price + directed(swing, move)
		if price <= 0 {
			continue
		}

		out = append(out, forecast.MethodForecast{
			Method:     h.method,
			Price:      price,
			Date:       date,
			Confidence: h.confidence,
			Horizon:    h.bars,
		})
	}
	return out
}

// fibProjections extends the range between the anchor swing and the
// preceding opposite swing at the standard extension ratios. The date
// is the anchor date pushed forward by the prior swing's bar span
// scaled by the same ratio.
func (f *Forecaster) fibProjections(bars []market.Bar, swing *forecast.SwingPoint, atr float64) []forecast.MethodForecast {
	prev := FindPrecedingSwing(bars, swing, f.cfg.SwingLookaround)
	if prev == nil {
		return nil
	}

	span := math.Abs(swing.Price - prev.Price)
	barSpan := swing.BarIndex - prev.BarIndex
	if span <= 0 || barSpan <= 0 {
		return nil
	}

	var out []forecast.MethodForecast
	for _, ext := range fibExtensions {
		price := swing.Price + directed(swing, span*ext.ratio)
		if price <= 0 {
			continue
		}

		confidence := ext.confidence
		if atr > 0 {
			mult := math.Abs(price-swing.Price) / atr
			if mult >= 2 && mult <= 5 {
				confidence = math.Min(0.95, confidence+0.1)
			}
		}

		days := int(math.Round(float64(barSpan) * ext.ratio))
		out = append(out, forecast.MethodForecast{
			Method:     ext.method,
			Price:      price,
			Date:       swing.Date.AddDate(0, 0, days),
			Confidence: confidence,
			Horizon:    days,
		})
	}
	return out
}

// gannProjections squares time against price at the fixed bar offsets:
// price moves ATR x sqrt(offset/5) x multiplier from the anchor
func (f *Forecaster) gannProjections(swing *forecast.SwingPoint, atr float64) []forecast.MethodForecast {
	if atr <= 0 {
		return nil
	}

	var out []forecast.MethodForecast
	for _, sq := range gannSquares {
		move := atr * math.Sqrt(float64(sq.offset)/5) * f.cfg.GannMultiplier
		price := swing.Price + directed(swing, move)
		if price <= 0 {
			continue
		}

		out = append(out, forecast.MethodForecast{
			Method:     sq.method,
			Price:      price,
			Date:       swing.Date.AddDate(0, 0, sq.offset),
			Confidence: sq.confidence,
			Horizon:    sq.offset,
		})
	}
	return out
}

// directed signs a price move away from the anchor swing: up off a
// swing low, down off a swing high
func directed(swing *forecast.SwingPoint, move float64) float64 {
	if swing.Type == forecast.SwingLow {
		return move
	}
	return -move
}
