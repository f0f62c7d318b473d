package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fourcastr/internal/domain/levels"
	"fourcastr/pkg/logger"
)

func TestDetector_Detect(t *testing.T) {
	detector := NewDetector(DefaultConfluenceConfig(), logger.Get())

	t.Run("two close levels form one zone", func(t *testing.T) {
		lvls := []levels.KeyLevel{
			{Price: 100.0, Type: levels.TypeGannOctave, Strength: 9},
			{Price: 100.2, Type: levels.TypeFibonacci, Strength: 8},
		}

		zones := detector.Detect(lvls, 100)
		require.Len(t, zones, 1)

		z := zones[0]
		assert.InDelta(t, 100.1, z.Price, 1e-9)
		assert.Len(t, z.Levels, 2)
		assert.Equal(t, []string{"fibonacci", "gann-octave"}, z.Types)

		// 15 per level + 10 per distinct type + strength/2
		assert.InDelta(t, 15*2+10*2+8.5, z.ConfluenceScore, 1e-9)
	})

	t.Run("lone level emits no zone", func(t *testing.T) {
		lvls := []levels.KeyLevel{
			{Price: 100.0, Type: levels.TypeGannOctave, Strength: 9},
			{Price: 150.0, Type: levels.TypeFibonacci, Strength: 8},
		}
		assert.Empty(t, detector.Detect(lvls, 100))
	})

	t.Run("zones sorted descending by score", func(t *testing.T) {
		lvls := []levels.KeyLevel{
			{Price: 100.0, Type: levels.TypeGannOctave, Strength: 9},
			{Price: 100.1, Type: levels.TypeFibonacci, Strength: 8},
			{Price: 100.2, Type: levels.TypePOC, Strength: 9},
			{Price: 200.0, Type: levels.TypePivotHigh, Strength: 7},
			{Price: 200.5, Type: levels.TypePivotHigh, Strength: 7},
		}

		zones := detector.Detect(lvls, 100)
		require.Len(t, zones, 2)
		assert.Greater(t, zones[0].ConfluenceScore, zones[1].ConfluenceScore)
		assert.Len(t, zones[0].Levels, 3)
	})

	t.Run("score caps at 100", func(t *testing.T) {
		var lvls []levels.KeyLevel
		for i := 0; i < 8; i++ {
			lvls = append(lvls, levels.KeyLevel{
				Price: 100 + float64(i)*0.01, Type: levels.TypeFibonacci, Strength: 10,
			})
		}

		zones := detector.Detect(lvls, 100)
		require.Len(t, zones, 1)
		assert.Equal(t, 100.0, zones[0].ConfluenceScore)
	})

	t.Run("proximity measured from reference price", func(t *testing.T) {
		lvls := []levels.KeyLevel{
			{Price: 102.0, Type: levels.TypeGannOctave, Strength: 9},
			{Price: 102.0, Type: levels.TypeFibonacci, Strength: 8},
		}

		zones := detector.Detect(lvls, 100)
		require.Len(t, zones, 1)
		assert.InDelta(t, 2.0, zones[0].ProximityPercent, 1e-9)
	})

	t.Run("no levels no zones", func(t *testing.T) {
		assert.Empty(t, detector.Detect(nil, 100))
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		lvls := []levels.KeyLevel{
			{Price: 100.0, Type: levels.TypeGannOctave, Strength: 9},
			{Price: 100.2, Type: levels.TypeFibonacci, Strength: 8},
			{Price: 100.4, Type: levels.TypePOC, Strength: 9},
		}

		first := detector.Detect(lvls, 100)
		second := detector.Detect(lvls, 100)
		assert.Equal(t, first, second)
	})
}
