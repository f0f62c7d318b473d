package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fourcastr/internal/domain/forecast"
	"fourcastr/internal/domain/levels"
	"fourcastr/internal/domain/rating"
	"fourcastr/pkg/logger"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	return NewAggregator(nil, logger.Get())
}

func TestAggregator_RateEmptyInput(t *testing.T) {
	agg := newTestAggregator(t)

	out := agg.Rate(Input{
		Symbol:    "XYZ",
		AsOf:      asOf,
		WindowEnd: asOf.AddDate(0, 0, 90),
	})

	assert.Equal(t, "XYZ", out.Symbol)
	assert.Zero(t, out.CurrentPrice)

	// Technical 22.5, fundamental 50, blended 70/30
	assert.InDelta(t, 22.5, out.Scores.Technical, 1e-9)
	assert.InDelta(t, 50.0, out.Scores.Fundamental, 1e-9)
	assert.InDelta(t, 30.75, out.Scores.Total, 1e-9)

	assert.Equal(t, rating.GradeF, out.Grade)
	assert.Equal(t, rating.ConfidenceUnfavorable, out.Confidence)
	assert.Equal(t, rating.RecommendHold, out.Recommendation)

	assert.Contains(t, out.Warnings, "volatility context based on insufficient history")
	assert.Contains(t, out.Warnings, "no calendar events, seasonal and aspect scores neutral")
	assert.Nil(t, out.NextKeyLevel)
}

func TestAggregator_ConfluenceCappedByLevelCount(t *testing.T) {
	agg := newTestAggregator(t)

	zone := levels.ConfluenceZone{
		Price:           100,
		ConfluenceScore: 80,
		Levels: []levels.KeyLevel{
			{Price: 99.9, Type: levels.TypeFibonacci},
			{Price: 100.1, Type: levels.TypePOC},
		},
	}

	out := agg.Rate(Input{
		Symbol: "XYZ", AsOf: asOf, WindowEnd: asOf.AddDate(0, 0, 90),
		Zones: []levels.ConfluenceZone{zone},
	})

	assert.Equal(t, 30.0, out.Scores.Confluence)
}

func TestAggregator_NearestLevel(t *testing.T) {
	agg := newTestAggregator(t)

	out := agg.Rate(Input{
		Symbol: "XYZ", AsOf: asOf, WindowEnd: asOf.AddDate(0, 0, 90),
		Bars: trendingBars(10, 100, 0),
		KeyLevels: []levels.KeyLevel{
			{Price: 95, Type: levels.TypeFibonacci},
			{Price: 102, Type: levels.TypePOC},
		},
	})

	require.NotNil(t, out.NextKeyLevel)
	assert.Equal(t, 102.0, out.NextKeyLevel.Price)
	// 2% away, decaying 10 per percent
	assert.InDelta(t, 80.0, out.Scores.Proximity, 1e-9)
	assert.Contains(t, out.Reasons, "next point-of-control level at 102.0000")
}

func TestAggregator_ForecastDirection(t *testing.T) {
	agg := newTestAggregator(t)

	fc := &forecast.ForecastedSwing{
		Candidate: forecast.ConvergenceCandidate{
			Price:      108,
			Date:       asOf.AddDate(0, 0, 20),
			Methods:    []string{"atr_monthly", "gann_square_20"},
			Confidence: 0.8,
		},
		Bullish: true,
		State:   forecast.BinaryState{TradeSignal: forecast.SignalExecute},
	}

	out := agg.Rate(Input{
		Symbol: "XYZ", AsOf: asOf, WindowEnd: asOf.AddDate(0, 0, 90),
		Bars:     trendingBars(10, 100, 0),
		Forecast: fc,
	})

	require.NotNil(t, out.Forecast)
	assert.Contains(t, out.Reasons, "bullish turning point forecast at 108.0000 on "+
		fc.Candidate.Date.Format("2006-01-02")+" (EXECUTE)")
}

func TestAggregator_SectorFromCategory(t *testing.T) {
	agg := newTestAggregator(t)

	out := agg.Rate(Input{
		Symbol: "BTCUSDT", Category: "crypto",
		AsOf: asOf, WindowEnd: asOf.AddDate(0, 0, 90),
	})
	assert.Equal(t, "tech", out.Sector)

	out = agg.Rate(Input{
		Symbol: "ZZZ", Category: "unknown",
		AsOf: asOf, WindowEnd: asOf.AddDate(0, 0, 90),
	})
	assert.Empty(t, out.Sector)
}

func TestNearestLevel(t *testing.T) {
	lvl, dist := nearestLevel(nil, 100)
	assert.Nil(t, lvl)
	assert.Equal(t, 100.0, dist)

	lvls := []levels.KeyLevel{{Price: 90}, {Price: 104}, {Price: 110}}
	lvl, dist = nearestLevel(lvls, 100)
	require.NotNil(t, lvl)
	assert.Equal(t, 104.0, lvl.Price)
	assert.InDelta(t, 4.0, dist, 1e-9)
}

func TestConfluenceScore(t *testing.T) {
	assert.Equal(t, 0.0, confluenceScore(nil))

	zones := []levels.ConfluenceZone{
		{ConfluenceScore: 40, Levels: make([]levels.KeyLevel, 2)},
		{ConfluenceScore: 70, Levels: make([]levels.KeyLevel, 5)},
	}
	// Best zone wins and its ceiling (75) does not bind
	assert.Equal(t, 70.0, confluenceScore(zones))
}
