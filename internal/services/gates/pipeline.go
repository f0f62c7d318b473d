package gates

import (
	"fourcastr/internal/domain/astro"
	"fourcastr/internal/domain/forecast"
	"fourcastr/internal/domain/market"
	"fourcastr/internal/domain/volatility"
	"fourcastr/pkg/logger"
)

// Config holds the gate pipeline tunables
type Config struct {
	// 1x1 angle acceptance band. Empirically chosen in the source
	// methodology, kept configurable.
	AngleBandLow  float64
	AngleBandHigh float64
}

// DefaultConfig returns the standard gate configuration
func DefaultConfig() Config {
	return Config{
		AngleBandLow:  0.8,
		AngleBandHigh: 1.2,
	}
}

// Input carries everything a candidate needs for validation
type Input struct {
	Bars       []market.Bar
	Volatility volatility.Snapshot
	ATR        float64
	Anchor     *forecast.SwingPoint
	Previous   *forecast.SwingPoint // preceding opposite swing, may be nil
	Candidate  forecast.ConvergenceCandidate
	Events     []astro.Event
}

// Bullish reports whether the candidate targets a price above the
// current close
func (in Input) Bullish() bool {
	if len(in.Bars) == 0 {
		return in.Anchor != nil && in.Anchor.Type == forecast.SwingLow
	}
	return in.Candidate.Price > in.Bars[len(in.Bars)-1].Close
}

// Pipeline runs a convergence candidate through the ordered gate
// sequence B1..B7.
//
// Gates are sequential-reject: a failing gate among B1-B6 aborts
// evaluation and the remaining gates are reported as skipped with no
// failures of their own. B7 failure is recorded but does not abort.
type Pipeline struct {
	cfg Config
	log *logger.Logger
}

// NewPipeline creates a new gate pipeline
func NewPipeline(cfg Config, log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: log.With("component", "gates"),
	}
}

// Evaluate validates a candidate and returns its finalized binary state
func (p *Pipeline) Evaluate(in Input) forecast.BinaryState {
	var state forecast.BinaryState

	slots := []*forecast.GateResult{
		&state.B1, &state.B2, &state.B3, &state.B4, &state.B5, &state.B6, &state.B7,
	}
	checks := []func(Input) forecast.GateResult{
		p.gateVolatilityContext,
		p.gateAnchorSwing,
		p.gateATRMultiple,
		p.gateFibonacciLevel,
		p.gateGannStructure,
		p.gateLunarAlignment,
		p.gateBehavioral,
	}
	names := []string{"B1", "B2", "B3", "B4", "B5", "B6", "B7"}

	aborted := false
	for i, check := range checks {
		if aborted {
			*slots[i] = skipped(names[i])
			continue
		}

		result := check(in)
		*slots[i] = result

		// B7 reports but never aborts; B1-B6 abort on failure
		if !result.Passed && i < 6 {
			aborted = true
		}
	}

	state.Finalize()

	p.log.Debugw("gate evaluation complete",
		"bits", state.BitString,
		"signal", state.TradeSignal.String(),
	)
	return state
}

func skipped(gate string) forecast.GateResult {
	return forecast.GateResult{
		Gate:       gate,
		Diagnostic: "skipped: earlier gate rejected candidate",
	}
}
