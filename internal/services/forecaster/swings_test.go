package forecaster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fourcastr/internal/domain/forecast"
	"fourcastr/internal/domain/market"
)

var testStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// pathBars builds bars following a price path, one bar per point
func pathBars(path []float64) []market.Bar {
	bars := make([]market.Bar, len(path))
	for i, p := range path {
		bars[i] = market.Bar{
			Timestamp: testStart.AddDate(0, 0, i),
			Open:      p - 0.2,
			High:      p + 0.5,
			Low:       p - 0.5,
			Close:     p,
			Volume:    1000,
		}
	}
	return bars
}

// rampPath walks from start by step over n points
func rampPath(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestFindLastSwing(t *testing.T) {
	t.Run("peak before decline is the last swing high", func(t *testing.T) {
		path := append(rampPath(100, 1, 41), rampPath(139, -1, 10)...)
		bars := pathBars(path)

		swing := FindLastSwing(bars, 5)
		require.NotNil(t, swing)
		assert.Equal(t, forecast.SwingHigh, swing.Type)
		assert.Equal(t, 40, swing.BarIndex)
		assert.InDelta(t, bars[40].High, swing.Price, 1e-9)
		assert.Equal(t, bars[40].Timestamp, swing.Date)
	})

	t.Run("trough before rally is the last swing low", func(t *testing.T) {
		path := append(rampPath(140, -1, 41), rampPath(101, 1, 10)...)
		bars := pathBars(path)

		swing := FindLastSwing(bars, 5)
		require.NotNil(t, swing)
		assert.Equal(t, forecast.SwingLow, swing.Type)
		assert.Equal(t, 40, swing.BarIndex)
		assert.InDelta(t, bars[40].Low, swing.Price, 1e-9)
	})

	t.Run("monotone series has no swing", func(t *testing.T) {
		assert.Nil(t, FindLastSwing(pathBars(rampPath(100, 1, 50)), 5))
	})

	t.Run("too few bars has no swing", func(t *testing.T) {
		assert.Nil(t, FindLastSwing(pathBars(rampPath(100, 1, 8)), 5))
	})
}

func TestFindPrecedingSwing(t *testing.T) {
	// Down to a trough at 20, up to a peak at 40, then down again
	path := append(rampPath(120, -1, 21), rampPath(101, 1, 20)...)
	path = append(path, rampPath(119, -1, 10)...)
	bars := pathBars(path)

	last := FindLastSwing(bars, 5)
	require.NotNil(t, last)
	require.Equal(t, forecast.SwingHigh, last.Type)
	require.Equal(t, 40, last.BarIndex)

	prev := FindPrecedingSwing(bars, last, 5)
	require.NotNil(t, prev)
	assert.Equal(t, forecast.SwingLow, prev.Type)
	assert.Equal(t, 20, prev.BarIndex)
	assert.InDelta(t, bars[20].Low, prev.Price, 1e-9)

	t.Run("nil anchor yields nil", func(t *testing.T) {
		assert.Nil(t, FindPrecedingSwing(bars, nil, 5))
	})

	t.Run("no opposite swing yields nil", func(t *testing.T) {
		rising := pathBars(append(rampPath(100, 1, 41), rampPath(139, -1, 10)...))
		peak := FindLastSwing(rising, 5)
		require.NotNil(t, peak)
		assert.Nil(t, FindPrecedingSwing(rising, peak, 5))
	})
}
