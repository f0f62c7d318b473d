package gates

import (
	"fmt"
	"math"

	"fourcastr/internal/domain/astro"
	"fourcastr/internal/domain/forecast"
)

// fibCheckRatios are the ratios gate B4 tests the target against
var fibCheckRatios = []float64{0.382, 0.5, 0.618, 1.0, 1.618}

// squareOffsets are the recognized Gann time squares in bars
var squareOffsets = []float64{5, 10, 20, 60}

// atrBands maps each horizon's bar count to its expected ATR-multiple
// range
var atrBands = []struct {
	name     string
	min, max float64
}{
	{"weekly", 1, 1.5},
	{"biweekly", 2, 3},
	{"monthly", 3, 5},
	{"quarterly", 6, 10},
}

type gateBuilder struct {
	result forecast.GateResult
	next   int
}

func newGate(name string) *gateBuilder {
	return &gateBuilder{result: forecast.GateResult{Gate: name}}
}

// check records one sub-bit and a failure line when it is unset
func (b *gateBuilder) check(ok bool, failure string) bool {
	if b.next < len(b.result.SubBits) {
		if ok {
			b.result.SubBits[b.next] = 1
		}
		b.next++
	}
	if !ok {
		b.result.Failures = append(b.result.Failures, failure)
	}
	return ok
}

func (b *gateBuilder) finish(passed bool, diagnostic string) forecast.GateResult {
	b.result.Passed = passed
	b.result.Diagnostic = diagnostic
	return b.result
}

// gateVolatilityContext (B1): the ATR/volatility context must be
// computable and classifiable. Authoritative failure is under 15 bars
// of history or an uncomputable ATR.
func (p *Pipeline) gateVolatilityContext(in Input) forecast.GateResult {
	g := newGate("B1")
	v := in.Volatility

	enoughBars := g.check(len(in.Bars) >= 15, "fewer than 15 bars of history")
	g.check(v.Sufficient, "fewer than 20 ATR samples")
	atrOK := g.check(in.ATR > 0, "ATR not computable")
	g.check(v.CurrentATRPercent > 0 && v.CurrentATRPercent < 25, "ATR percent outside sane range")
	g.check(v.State.Valid(), "volatility state unclassified")
	g.check(v.Strength >= 0 && v.Strength <= 100, "volatility strength out of range")
	g.check(len(in.Bars) > 0 && in.Bars[len(in.Bars)-1].Close > 0, "no positive close")
	g.check(!math.IsNaN(v.Strength) && !math.IsInf(v.Strength, 0), "non-finite strength")

	passed := enoughBars && atrOK
	return g.finish(passed, fmt.Sprintf("state=%s strength=%.0f", v.State, v.Strength))
}

// gateAnchorSwing (B2): a valid anchor swing with complete price and
// time identity must exist. Passes on 6 of 8 sub-checks.
func (p *Pipeline) gateAnchorSwing(in Input) forecast.GateResult {
	g := newGate("B2")
	a := in.Anchor

	if a == nil {
		g.check(false, "no anchor swing found")
		return g.finish(false, "no confirmed swing point")
	}

	g.check(true, "")
	g.check(a.Price > 0, "anchor price not positive")
	g.check(!a.Date.IsZero(), "anchor date missing")
	g.check(a.BarIndex >= 0 && a.BarIndex < len(in.Bars), "anchor bar index out of range")
	g.check(a.Type == forecast.SwingHigh || a.Type == forecast.SwingLow, "anchor type invalid")
	g.check(in.Candidate.Date.After(a.Date), "candidate not ahead of anchor")
	g.check(len(in.Bars)-a.BarIndex <= 90, "anchor swing stale")
	g.check(in.Previous != nil, "no preceding opposite swing")

	passing := 0
	for _, bit := range g.result.SubBits {
		passing += int(bit)
	}
	return g.finish(passing >= 6, fmt.Sprintf("%s swing at %.4f, %d/8 checks", a.Type, a.Price, passing))
}

// gateATRMultiple (B3): the candidate's ATR-multiple must land inside
// some horizon's expected band, and the multiple itself must be proper.
func (p *Pipeline) gateATRMultiple(in Input) forecast.GateResult {
	g := newGate("B3")

	mult := 0.0
	if in.ATR > 0 && in.Anchor != nil {
		mult = math.Abs(in.Candidate.Price-in.Anchor.Price) / in.ATR
	}

	anyBand := false
	for _, band := range atrBands {
		ok := g.check(mult >= band.min && mult <= band.max,
			fmt.Sprintf("multiple %.2f outside %s band [%.1f,%.1f]", mult, band.name, band.min, band.max))
		anyBand = anyBand || ok
	}

	proper := g.check(mult > 0 && mult <= 12, fmt.Sprintf("improper ATR multiple %.2f", mult))
	g.check(in.ATR > 0, "ATR not computable")

	days := 0.0
	if in.Anchor != nil {
		days = in.Candidate.Date.Sub(in.Anchor.Date).Hours() / 24
	}
	g.check(days > 0 && days <= 90, "forecast horizon unresolved")
	g.check(in.Anchor != nil, "no anchor swing")

	return g.finish(anyBand && proper, fmt.Sprintf("ATR multiple %.2f over %.0f days", mult, days))
}

// gateFibonacciLevel (B4): the target price must coincide, within 2%,
// with a Fibonacci level of the current swing range.
func (p *Pipeline) gateFibonacciLevel(in Input) forecast.GateResult {
	g := newGate("B4")

	span := 0.0
	if in.Anchor != nil && in.Previous != nil {
		span = math.Abs(in.Anchor.Price - in.Previous.Price)
	}

	anyHit := false
	if in.Anchor != nil && span > 0 && in.Candidate.Price > 0 {
		for _, ratio := range fibCheckRatios {
			level := in.Anchor.Price + directedMove(in.Anchor, span*ratio)
			hit := math.Abs(level-in.Candidate.Price)/in.Candidate.Price <= 0.02
			g.check(hit, fmt.Sprintf("no %.3f level within 2%%", ratio))
			anyHit = anyHit || hit
		}
	} else {
		for _, ratio := range fibCheckRatios {
			g.check(false, fmt.Sprintf("no %.3f level within 2%%", ratio))
		}
	}

	g.check(in.Previous != nil, "no preceding opposite swing")
	g.check(span > 0, "zero swing range")
	g.check(anyHit, "target off all fibonacci levels")

	return g.finish(anyHit, fmt.Sprintf("swing range %.4f", span))
}

// gateGannStructure (B5): the time/price structure must hold on at
// least 2 of the 3 principal sub-tests: time symmetry, price square,
// and the 1x1 angle.
func (p *Pipeline) gateGannStructure(in Input) forecast.GateResult {
	g := newGate("B5")

	days := 0.0
	if in.Anchor != nil {
		days = in.Candidate.Date.Sub(in.Anchor.Date).Hours() / 24
	}
	priorDays := 0.0
	if in.Anchor != nil && in.Previous != nil {
		priorDays = float64(in.Anchor.BarIndex - in.Previous.BarIndex)
	}

	timeSym := priorDays > 0 && math.Abs(days-priorDays) <= 0.3*priorDays
	g.check(timeSym, "forecast duration breaks time symmetry")

	square := false
	for _, offset := range squareOffsets {
		if math.Abs(days-offset) <= 2 {
			square = true
			break
		}
	}
	g.check(square, "duration squares with no standard offset")

	angle := false
	if days > 0 && in.ATR > 0 && in.Anchor != nil {
		perDay := math.Abs(in.Candidate.Price-in.Anchor.Price) / days
		ratio := perDay / in.ATR
		angle = ratio >= p.cfg.AngleBandLow && ratio <= p.cfg.AngleBandHigh
	}
	g.check(angle, "1x1 angle off band")

	g.check(days > 0, "forecast duration unresolved")
	g.check(priorDays > 0, "prior swing duration unresolved")
	g.check(in.ATR > 0, "ATR not computable")
	g.check(days <= 90, "duration beyond quarterly square")
	g.check(in.Anchor != nil && in.Candidate.Price != in.Anchor.Price, "no price displacement")

	principal := 0
	for _, ok := range []bool{timeSym, square, angle} {
		if ok {
			principal++
		}
	}
	return g.finish(principal >= 2, fmt.Sprintf("%d/3 structure tests over %.0f days", principal, days))
}

// gateLunarAlignment (B6): the lunar phase at the forecast date must
// align with the expected reversal direction. Bullish targets favor
// waxing phases, bearish targets waning.
func (p *Pipeline) gateLunarAlignment(in Input) forecast.GateResult {
	g := newGate("B6")

	bullish := in.Bullish()
	phase := astro.PhaseOn(in.Candidate.Date, in.Events)
	waxing := phase.Waxing()
	aligned := bullish == waxing

	fromFeed := false
	for _, e := range in.Events {
		if e.Type == astro.EventLunarPhase && !e.Date.After(in.Candidate.Date) {
			fromFeed = true
			break
		}
	}

	g.check(fromFeed, "no lunar events in feed, synodic approximation used")
	g.check(phase != "", "lunar phase unresolved")
	g.check(waxing, "phase waning")
	g.check(bullish, "target bearish")
	g.check(aligned, "phase misaligned with target direction")
	g.check(phase.TimingScore() >= 10, "weak phase timing score")
	g.check(phase != astro.PhaseFull, "full moon at forecast date")
	g.check(phase != astro.PhaseWaningCrescent, "cycle ending at forecast date")

	return g.finish(aligned, fmt.Sprintf("phase=%s bullish=%t", phase, bullish))
}

// gateBehavioral (B7): behavioral confirmation from the most recent
// bar. Every sub-check must hold; a failure fails the gate but does
// not abort the candidate.
func (p *Pipeline) gateBehavioral(in Input) forecast.GateResult {
	g := newGate("B7")

	if len(in.Bars) == 0 {
		g.check(false, "no bars")
		return g.finish(false, "no recent bar to confirm")
	}

	last := in.Bars[len(in.Bars)-1]
	bullish := in.Bullish()
	barRange := last.Range()

	// Close position within the bar's range
	closeOK := true
	if barRange > 0 {
		pos := (last.Close - last.Low) / barRange
		if bullish {
			closeOK = pos >= 0.5
		} else {
			closeOK = pos <= 0.5
		}
	}
	g.check(closeOK, "close position against target direction")

	// Multi-bar continuation: at least 2 of the last 3 bars in direction
	wins := 0
	start := len(in.Bars) - 3
	if start < 0 {
		start = 0
	}
	for _, b := range in.Bars[start:] {
		if (bullish && b.Close > b.Open) || (!bullish && b.Close < b.Open) {
			wins++
		}
	}
	g.check(wins >= 2, "no multi-bar continuation")

	// Rejection wicks
	upperWick := last.High - math.Max(last.Open, last.Close)
	lowerWick := math.Min(last.Open, last.Close) - last.Low
	against, with := upperWick, lowerWick
	if !bullish {
		against, with = lowerWick, upperWick
	}
	g.check(barRange <= 0 || against <= 0.6*barRange, "long rejection wick against target")
	g.check(barRange <= 0 || with <= 0.75*barRange, "long rejection wick with target")

	// ATR spike
	g.check(in.ATR <= 0 || barRange <= 1.5*in.ATR, "ATR spike above 1.5x")

	// Adequate volume against the 20-bar average
	volOK := true
	if n := len(in.Bars); n >= 2 {
		lookback := 20
		if n-1 < lookback {
			lookback = n - 1
		}
		sum := 0.0
		for _, b := range in.Bars[n-1-lookback : n-1] {
			sum += b.Volume
		}
		avg := sum / float64(lookback)
		if avg > 0 {
			volOK = last.Volume >= 0.75*avg
		}
	}
	g.check(volOK, "volume below 75% of 20-bar average")

	// Clean rotation: the bar must not be a churn doji
	g.check(in.ATR <= 0 || barRange >= 0.25*in.ATR, "bar range too narrow for clean rotation")

	g.check(last.Close > 0, "no positive close")

	allPass := true
	for _, bit := range g.result.SubBits {
		if bit == 0 {
			allPass = false
			break
		}
	}
	return g.finish(allPass, fmt.Sprintf("last bar range %.4f, %d continuation bars", barRange, wins))
}

// directedMove signs a move away from the anchor swing: up off a low,
// down off a high
func directedMove(anchor *forecast.SwingPoint, move float64) float64 {
	if anchor.Type == forecast.SwingLow {
		return move
	}
	return -move
}
