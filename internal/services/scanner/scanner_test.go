package scanner

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fourcastr/internal/adapters/config"
	"fourcastr/internal/domain/astro"
	"fourcastr/internal/domain/market"
	"fourcastr/pkg/errors"
	"fourcastr/pkg/logger"
)

type stubBarRepo struct {
	bars map[string][]market.Bar
	err  error
}

func (r *stubBarRepo) GetBars(_ context.Context, q market.Query) ([]market.Bar, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.bars[q.Symbol], nil
}

type stubEventRepo struct {
	events []astro.Event
	err    error
}

func (r *stubEventRepo) GetEvents(_ context.Context, _ astro.Query) ([]astro.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.events, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			SwingWindow:       20,
			SwingLookaround:   5,
			PivotLeftBars:     5,
			PivotRightBars:    5,
			VolumePriceLevels: 24,

			ConfluenceTolerancePct: 0.5,
			ConfluenceMinLevels:    2,

			ConvergencePriceTolerancePct: 2.0,
			ConvergenceDateToleranceDays: 3,
			ConvergenceMinMethods:        2,

			GannProjectionMultiplier: 2.0,
			GannAngleBandLow:         0.8,
			GannAngleBandHigh:        1.2,

			MinBars: 30,
		},
		Scanner: config.ScannerConfig{
			MaxConcurrency: 5,
			BarLookback:    250,
		},
	}
}

// wavyBars builds an uptrend with a sine overlay so swings, pivots and
// a full volume profile all exist
func wavyBars(n int) []market.Bar {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]market.Bar, n)
	for i := range bars {
		price := 100 + 0.2*float64(i) + 3*math.Sin(float64(i)*0.3)
		bars[i] = market.Bar{
			Timestamp: end.AddDate(0, 0, i-n),
			Open:      price - 0.3,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    1000 + 50*float64(i%7),
		}
	}
	return bars
}

func flatBars(n int) []market.Bar {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]market.Bar, n)
	for i := range bars {
		bars[i] = market.Bar{
			Timestamp: end.AddDate(0, 0, i-n),
			Open:      100, High: 100, Low: 100, Close: 100,
			Volume: 1000,
		}
	}
	return bars
}

func newTestScanner(barRepo market.Repository, eventRepo astro.Repository) *Scanner {
	return NewScanner(barRepo, eventRepo, testConfig(), astro.DefaultSectorProfiles(), logger.Get())
}

func TestScanner_Evaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("rates a symbol with enough history", func(t *testing.T) {
		repo := &stubBarRepo{bars: map[string][]market.Bar{"ACME": wavyBars(120)}}
		s := newTestScanner(repo, nil)

		r, err := s.Evaluate(ctx, Ticker{Symbol: "ACME"}, time.Time{})
		require.NoError(t, err)
		require.NotNil(t, r)

		assert.Equal(t, "ACME", r.Symbol)
		assert.InDelta(t, repo.bars["ACME"][119].Close, r.CurrentPrice, 1e-9)
		assert.GreaterOrEqual(t, r.Scores.Total, 0.0)
		assert.LessOrEqual(t, r.Scores.Total, 100.0)
		assert.NotEmpty(t, r.Grade)
		assert.True(t, r.WindowEnd.After(r.AsOf))
	})

	t.Run("caller-supplied window boundary is honored", func(t *testing.T) {
		repo := &stubBarRepo{bars: map[string][]market.Bar{"ACME": wavyBars(120)}}
		s := newTestScanner(repo, nil)

		boundary := time.Now().UTC().AddDate(0, 0, 45)
		r, err := s.Evaluate(ctx, Ticker{Symbol: "ACME"}, boundary)
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.True(t, r.WindowEnd.Equal(boundary))

		// Zero boundary falls back to the default horizon
		r, err = s.Evaluate(ctx, Ticker{Symbol: "ACME"}, time.Time{})
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.InDelta(t, 90*24.0, r.WindowEnd.Sub(r.AsOf).Hours(), 1.0)
	})

	t.Run("not enough history yields no rating and no error", func(t *testing.T) {
		repo := &stubBarRepo{bars: map[string][]market.Bar{"THIN": wavyBars(10)}}
		s := newTestScanner(repo, nil)

		r, err := s.Evaluate(ctx, Ticker{Symbol: "THIN"}, time.Time{})
		assert.NoError(t, err)
		assert.Nil(t, r)
	})

	t.Run("flat series rates without panicking", func(t *testing.T) {
		repo := &stubBarRepo{bars: map[string][]market.Bar{"FLAT": flatBars(60)}}
		s := newTestScanner(repo, nil)

		r, err := s.Evaluate(ctx, Ticker{Symbol: "FLAT"}, time.Time{})
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Nil(t, r.Forecast)
	})

	t.Run("repository failure surfaces as an error", func(t *testing.T) {
		repo := &stubBarRepo{err: errors.ErrUnavailable}
		s := newTestScanner(repo, nil)

		r, err := s.Evaluate(ctx, Ticker{Symbol: "ACME"}, time.Time{})
		assert.Error(t, err)
		assert.Nil(t, r)
	})

	t.Run("failing event feed degrades to neutral", func(t *testing.T) {
		repo := &stubBarRepo{bars: map[string][]market.Bar{"ACME": wavyBars(120)}}
		evs := &stubEventRepo{err: errors.ErrUnavailable}
		s := newTestScanner(repo, evs)

		r, err := s.Evaluate(ctx, Ticker{Symbol: "ACME"}, time.Time{})
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Equal(t, 50.0, r.Scores.Seasonal)
		assert.Equal(t, 50.0, r.Scores.Aspect)
	})
}

func TestScanner_ScanBatch(t *testing.T) {
	repo := &stubBarRepo{bars: map[string][]market.Bar{
		"AAA": wavyBars(120),
		"BBB": wavyBars(90),
		"CCC": wavyBars(5), // skipped, not enough history
	}}
	s := newTestScanner(repo, nil)

	results, err := s.ScanBatch(context.Background(), []Ticker{
		{Symbol: "AAA"}, {Symbol: "BBB"}, {Symbol: "CCC"},
	}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	symbols := map[string]bool{}
	for _, r := range results {
		symbols[r.Symbol] = true
	}
	assert.True(t, symbols["AAA"])
	assert.True(t, symbols["BBB"])
}

func TestScanner_ScanBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &stubBarRepo{bars: map[string][]market.Bar{"AAA": wavyBars(120)}}
	s := newTestScanner(repo, nil)

	_, err := s.ScanBatch(ctx, []Ticker{{Symbol: "AAA"}}, time.Time{})
	assert.Error(t, err)
}
