package rating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"fourcastr/internal/domain/market"
)

func trendingBars(n int, start, step float64) []market.Bar {
	bars := make([]market.Bar, n)
	for i := range bars {
		price := start + step*float64(i)
		bars[i] = market.Bar{
			Timestamp: asOf.AddDate(0, 0, i-n),
			Open:      price - step/2,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
			Volume:    1000,
		}
	}
	return bars
}

func TestMomentumScore(t *testing.T) {
	t.Run("short window is neutral", func(t *testing.T) {
		assert.Equal(t, 50.0, momentumScore(trendingBars(20, 100, 1), true))
	})

	t.Run("uptrend favors the bullish direction", func(t *testing.T) {
		bars := trendingBars(60, 100, 1)

		bullish := momentumScore(bars, true)
		bearish := momentumScore(bars, false)

		assert.GreaterOrEqual(t, bullish, 95.0)
		assert.Less(t, bearish, bullish)
		assert.LessOrEqual(t, bullish, 100.0)
	})

	t.Run("downtrend reads weak even when aligned", func(t *testing.T) {
		bars := trendingBars(60, 200, -1)
		assert.Less(t, momentumScore(bars, false), 30.0)
	})
}

func TestTrendScore(t *testing.T) {
	assert.Equal(t, 50.0, trendScore(trendingBars(20, 100, 1)))
	assert.Equal(t, 100.0, trendScore(trendingBars(60, 100, 1)))
	assert.Equal(t, 0.0, trendScore(trendingBars(60, 200, -1)))
	assert.Equal(t, 50.0, trendScore(trendingBars(60, 100, 0)))
}

func TestVolatilityScore(t *testing.T) {
	t.Run("atr percent alone when the window is short", func(t *testing.T) {
		short := trendingBars(10, 100, 0)
		assert.Equal(t, 100.0, volatilityScore(short, idealATRPercent))
		assert.Equal(t, 50.0, volatilityScore(short, 0))
		assert.Equal(t, 0.0, volatilityScore(short, idealATRPercent+5))
	})

	t.Run("tight bands read as a squeeze", func(t *testing.T) {
		flat := trendingBars(40, 100, 0)
		// 100 x 0.6 + 70 x 0.4
		assert.InDelta(t, 88.0, volatilityScore(flat, idealATRPercent), 1e-9)
	})
}

func TestVolumeScore(t *testing.T) {
	t.Run("short window is neutral", func(t *testing.T) {
		assert.Equal(t, 50.0, volumeScore(trendingBars(15, 100, 1)))
	})

	t.Run("zero volume is neutral", func(t *testing.T) {
		bars := trendingBars(30, 100, 1)
		for i := range bars {
			bars[i].Volume = 0
		}
		assert.Equal(t, 50.0, volumeScore(bars))
	})

	t.Run("spike over average with rising obv", func(t *testing.T) {
		bars := trendingBars(30, 100, 1)
		bars[len(bars)-1].Volume = 2000

		// 100 x 0.6 + 65 x 0.4
		assert.InDelta(t, 86.0, volumeScore(bars), 1e-9)
	})
}

func TestProximityScore(t *testing.T) {
	assert.Equal(t, 100.0, proximityScore(0))
	assert.Equal(t, 50.0, proximityScore(5))
	assert.Equal(t, 0.0, proximityScore(20))
	assert.Equal(t, 100.0, proximityScore(-1))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 42.0, clampScore(42))
	assert.Equal(t, 100.0, clampScore(150))
	assert.Equal(t, 0.0, clampScore(-5))
	assert.Equal(t, 50.0, clampScore(math.NaN()))
	assert.Equal(t, 50.0, clampScore(math.Inf(1)))
}
