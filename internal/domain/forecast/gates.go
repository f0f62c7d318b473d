package forecast

import "strings"

// TradeSignal is the terminal signal of the gate pipeline
type TradeSignal string

const (
	SignalExecute     TradeSignal = "EXECUTE"
	SignalStrongSetup TradeSignal = "STRONG_SETUP"
	SignalDoNotTrade  TradeSignal = "DO_NOT_TRADE"
)

// String returns string representation
func (s TradeSignal) String() string {
	return string(s)
}

// GateResult is the outcome of one validation gate
//
// SubBits is a fixed-width diagnostic bitmask; the gate's Passed flag
// is the authoritative aggregate, not a plain AND of the eight bits.
type GateResult struct {
	Gate       string   `json:"gate"` // B1..B7
	Passed     bool     `json:"passed"`
	SubBits    [8]uint8 `json:"sub_bits"`
	Failures   []string `json:"failures,omitempty"`
	Diagnostic string   `json:"diagnostic"`
}

// Bit returns the gate's 0/1 digit
func (g GateResult) Bit() byte {
	if g.Passed {
		return '1'
	}
	return '0'
}

// BinaryState holds the seven forward-looking gate results
//
// The eighth gate slot is post-trade feedback and always reads 0 for a
// forward forecast; it exists only so the bit string keeps its fixed
// width.
type BinaryState struct {
	B1 GateResult `json:"b1"`
	B2 GateResult `json:"b2"`
	B3 GateResult `json:"b3"`
	B4 GateResult `json:"b4"`
	B5 GateResult `json:"b5"`
	B6 GateResult `json:"b6"`
	B7 GateResult `json:"b7"`

	BitString         string      `json:"bit_string"` // eight 0/1 digits
	TradeSignal       TradeSignal `json:"trade_signal"`
	DiagnosticSummary []string    `json:"diagnostic_summary"`
}

// Gates returns the seven results in evaluation order
func (s *BinaryState) Gates() [7]GateResult {
	return [7]GateResult{s.B1, s.B2, s.B3, s.B4, s.B5, s.B6, s.B7}
}

// Finalize computes the bit string, trade signal, and diagnostic
// summary from the gate results. The signal is a pure lookup:
// all seven pass -> EXECUTE; only B7 fails -> STRONG_SETUP; any of
// B1-B6 fails -> DO_NOT_TRADE.
func (s *BinaryState) Finalize() {
	gates := s.Gates()

	var sb strings.Builder
	for _, g := range gates {
		sb.WriteByte(g.Bit())
	}
	sb.WriteByte('0') // B8 placeholder, post-trade only
	s.BitString = sb.String()

	coreFailed := false
	for _, g := range gates[:6] {
		if !g.Passed {
			coreFailed = true
			break
		}
	}

	switch {
	case coreFailed:
		s.TradeSignal = SignalDoNotTrade
	case !s.B7.Passed:
		s.TradeSignal = SignalStrongSetup
	default:
		s.TradeSignal = SignalExecute
	}

	s.DiagnosticSummary = s.DiagnosticSummary[:0]
	for _, g := range gates {
		if g.Diagnostic != "" {
			s.DiagnosticSummary = append(s.DiagnosticSummary, g.Gate+": "+g.Diagnostic)
		}
	}
}
