package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fourcastr/internal/adapters/config"
	"fourcastr/internal/domain/astro"
	"fourcastr/internal/domain/forecast"
	"fourcastr/internal/domain/market"
	"fourcastr/internal/domain/rating"
	"fourcastr/internal/domain/volatility"
	"fourcastr/internal/metrics"
	"fourcastr/internal/services/forecaster"
	"fourcastr/internal/services/gates"
	levelssvc "fourcastr/internal/services/levels"
	ratingsvc "fourcastr/internal/services/rating"
	volatilitysvc "fourcastr/internal/services/volatility"
	"fourcastr/pkg/errors"
	"fourcastr/pkg/logger"
)

// defaultForecastWindowDays bounds how far ahead projections are
// considered when the caller supplies no window boundary. Matches the
// longest ATR horizon (quarterly, ~60 trading days).
const defaultForecastWindowDays = 90

// eventLookbackDays is how far back calendar events are fetched; the
// aspect and lunar-cycle windows both look backward from the as-of date.
const eventLookbackDays = 60

// Ticker identifies one symbol to evaluate
type Ticker struct {
	Symbol   string `json:"symbol"`
	Category string `json:"category,omitempty"`
}

// Scanner orchestrates the full per-symbol evaluation:
// volatility context, key levels, confluence, swing anchoring,
// multi-method forecasting, convergence, gate validation and the
// composite rating.
type Scanner struct {
	bars   market.Repository
	events astro.Repository

	volatility *volatilitysvc.Analyzer
	levels     *levelssvc.Engine
	confluence *levelssvc.Detector
	forecaster *forecaster.Forecaster
	gates      *gates.Pipeline
	rating     *ratingsvc.Aggregator

	minBars        int
	barLookback    int
	maxConcurrency int
	lookaround     int

	convergence forecaster.ConvergenceConfig

	log *logger.Logger
}

// NewScanner wires the analysis services together from configuration.
// The events repository may be nil; seasonal and aspect scores then
// stay neutral.
func NewScanner(
	bars market.Repository,
	events astro.Repository,
	cfg *config.Config,
	profiles []astro.SectorProfile,
	log *logger.Logger,
) *Scanner {
	maxConcurrency := cfg.Scanner.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 5
	}

	levelCfg := levelssvc.Config{
		SwingWindow:    cfg.Analysis.SwingWindow,
		PivotLeftBars:  cfg.Analysis.PivotLeftBars,
		PivotRightBars: cfg.Analysis.PivotRightBars,
		NumPriceLevels: cfg.Analysis.VolumePriceLevels,
		Octaves:        true,
		Pivots:         true,
		VolumeProfile:  true,
		Fibonacci:      true,
		PivotRange:     true,
	}

	confluenceCfg := levelssvc.ConfluenceConfig{
		TolerancePercent: cfg.Analysis.ConfluenceTolerancePct,
		MinLevels:        cfg.Analysis.ConfluenceMinLevels,
	}

	forecastCfg := forecaster.Config{
		SwingLookaround: cfg.Analysis.SwingLookaround,
		GannMultiplier:  cfg.Analysis.GannProjectionMultiplier,
	}

	gateCfg := gates.Config{
		AngleBandLow:  cfg.Analysis.GannAngleBandLow,
		AngleBandHigh: cfg.Analysis.GannAngleBandHigh,
	}

	return &Scanner{
		bars:       bars,
		events:     events,
		volatility: volatilitysvc.NewAnalyzer(log),
		levels:     levelssvc.NewEngine(levelCfg, log),
		confluence: levelssvc.NewDetector(confluenceCfg, log),
		forecaster: forecaster.NewForecaster(forecastCfg, log),
		gates:      gates.NewPipeline(gateCfg, log),
		rating:     ratingsvc.NewAggregator(profiles, log),

		minBars:        cfg.Analysis.MinBars,
		barLookback:    cfg.Scanner.BarLookback,
		maxConcurrency: maxConcurrency,
		lookaround:     cfg.Analysis.SwingLookaround,

		convergence: forecaster.ConvergenceConfig{
			PriceTolerancePercent: cfg.Analysis.ConvergencePriceTolerancePct,
			DateToleranceDays:     cfg.Analysis.ConvergenceDateToleranceDays,
			MinMethods:            cfg.Analysis.ConvergenceMinMethods,
		},

		log: log.With("component", "scanner"),
	}
}

// ScanBatch evaluates all tickers concurrently and returns the ratings
// that produced a result. Per-symbol failures are logged and skipped;
// the batch itself only fails on context cancellation. windowEnd is
// the externally computed forecast boundary, for instance the end of
// the current ingress period; a zero value falls back to the default
// horizon past the as-of date.
func (s *Scanner) ScanBatch(ctx context.Context, tickers []Ticker, windowEnd time.Time) ([]rating.TickerRating, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := s.log.With("run_id", runID)

	log.Infow("starting batch scan",
		"tickers", len(tickers),
		"max_concurrency", s.maxConcurrency,
	)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []rating.TickerRating
	)
	semaphore := make(chan struct{}, s.maxConcurrency)

	for _, t := range tickers {
		wg.Add(1)
		go func(t Ticker) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			r, err := s.Evaluate(ctx, t, windowEnd)
			if err != nil {
				log.Errorw("evaluation failed", "symbol", t.Symbol, "error", err)
				return
			}
			if r == nil {
				return
			}

			mu.Lock()
			results = append(results, *r)
			mu.Unlock()
		}(t)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, errors.Wrap(err, "batch scan interrupted")
	}

	duration := time.Since(start)
	metrics.ScanDuration.Observe(duration.Seconds())

	log.Infow("batch scan complete",
		"tickers", len(tickers),
		"rated", len(results),
		"duration", duration,
	)
	return results, nil
}

// Evaluate runs the full pipeline for one symbol. A nil rating with a
// nil error means not enough history existed to say anything. A zero
// windowEnd defaults to the standard horizon past the as-of date.
func (s *Scanner) Evaluate(ctx context.Context, t Ticker, windowEnd time.Time) (*rating.TickerRating, error) {
	start := time.Now()

	asOf := time.Now().UTC()
	if windowEnd.IsZero() {
		windowEnd = asOf.AddDate(0, 0, defaultForecastWindowDays)
	}

	bars, err := s.bars.GetBars(ctx, market.Query{
		Symbol:  t.Symbol,
		EndTime: asOf,
		Limit:   s.barLookback,
	})
	if err != nil {
		metrics.RecordEvaluation("error", time.Since(start))
		return nil, errors.Wrapf(err, "failed to load bars for %s", t.Symbol)
	}

	if len(bars) < s.minBars {
		s.log.Debugw("not enough history, skipping",
			"symbol", t.Symbol,
			"bars", len(bars),
			"min_bars", s.minBars,
		)
		metrics.RecordEvaluation("no_data", time.Since(start))
		return nil, nil
	}

	events := s.loadEvents(ctx, asOf, windowEnd)

	snapshot := s.volatility.Analyze(bars)
	atr := volatilitysvc.CurrentATR(bars)

	keyLevels := s.levels.Derive(bars)
	zones := s.confluence.Detect(keyLevels, bars[len(bars)-1].Close)

	fc := s.buildForecast(bars, snapshot, atr, windowEnd, events, t.Symbol)

	result := s.rating.Rate(ratingsvc.Input{
		Symbol:     t.Symbol,
		Category:   t.Category,
		AsOf:       asOf,
		WindowEnd:  windowEnd,
		Bars:       bars,
		KeyLevels:  keyLevels,
		Zones:      zones,
		Volatility: snapshot,
		Forecast:   fc,
		Events:     events,
	})

	metrics.RecordEvaluation("rated", time.Since(start))
	return &result, nil
}

// buildForecast finds a swing anchor, projects turning points, clusters
// them and validates the best candidate. Candidates the gate pipeline
// rejects are discarded; the symbol is still rated without a forecast.
func (s *Scanner) buildForecast(
	bars []market.Bar,
	snapshot volatility.Snapshot,
	atr float64,
	windowEnd time.Time,
	events []astro.Event,
	symbol string,
) *forecast.ForecastedSwing {
	anchor := forecaster.FindLastSwing(bars, s.lookaround)
	if anchor == nil {
		return nil
	}
	previous := forecaster.FindPrecedingSwing(bars, anchor, s.lookaround)

	projections := s.forecaster.Forecast(bars, anchor, atr, windowEnd)
	candidates := forecaster.Converge(projections, s.convergence)
	best := forecaster.Best(candidates)
	if best == nil {
		return nil
	}

	state := s.gates.Evaluate(gates.Input{
		Bars:       bars,
		Volatility: snapshot,
		ATR:        atr,
		Anchor:     anchor,
		Previous:   previous,
		Candidate:  *best,
		Events:     events,
	})

	if state.TradeSignal == forecast.SignalDoNotTrade {
		recordRejection(state)
		s.log.Debugw("candidate rejected by gates",
			"symbol", symbol,
			"bits", state.BitString,
		)
		return nil
	}

	metrics.ForecastsAccepted.WithLabelValues(string(state.TradeSignal)).Inc()

	return &forecast.ForecastedSwing{
		Anchor:    *anchor,
		Candidate: *best,
		Bullish:   best.Price > bars[len(bars)-1].Close,
		State:     state,
	}
}

// loadEvents fetches calendar events around the evaluation window.
// A missing or failing feed degrades to neutral scoring.
func (s *Scanner) loadEvents(ctx context.Context, asOf, windowEnd time.Time) []astro.Event {
	if s.events == nil {
		return nil
	}

	events, err := s.events.GetEvents(ctx, astro.Query{
		StartTime: asOf.AddDate(0, 0, -eventLookbackDays),
		EndTime:   windowEnd,
	})
	if err != nil {
		s.log.Warnw("calendar feed unavailable, scoring neutral", "error", err)
		return nil
	}
	return events
}

// recordRejection attributes a rejection to the first failed gate
func recordRejection(state forecast.BinaryState) {
	for _, g := range state.Gates() {
		if !g.Passed {
			metrics.GateRejections.WithLabelValues(g.Gate).Inc()
			return
		}
	}
}
