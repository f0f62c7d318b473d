package forecast

import "time"

// SwingType defines the direction of a confirmed swing point
type SwingType string

const (
	SwingHigh SwingType = "high"
	SwingLow  SwingType = "low"
)

// String returns string representation
func (s SwingType) String() string {
	return string(s)
}

// Opposite returns the mirrored swing type
func (s SwingType) Opposite() SwingType {
	if s == SwingHigh {
		return SwingLow
	}
	return SwingHigh
}

// SwingPoint is the most recent confirmed local extremum, found by a
// symmetric look-back/look-ahead window with strict inequality on both
// sides.
type SwingPoint struct {
	Type     SwingType `json:"type"`
	Price    float64   `json:"price"`
	Date     time.Time `json:"date"`
	BarIndex int       `json:"bar_index"`
}

// Method identifies one projection method × horizon combination
type Method string

const (
	MethodATRWeekly    Method = "atr_weekly"
	MethodATRBiweekly  Method = "atr_biweekly"
	MethodATRMonthly   Method = "atr_monthly"
	MethodATRQuarterly Method = "atr_quarterly"
	MethodFibExt618    Method = "fib_ext_0.618"
	MethodFibExt1000   Method = "fib_ext_1.000"
	MethodFibExt1618   Method = "fib_ext_1.618"
	MethodGannSquare5  Method = "gann_square_5"
	MethodGannSquare10 Method = "gann_square_10"
	MethodGannSquare20 Method = "gann_square_20"
	MethodGannSquare60 Method = "gann_square_60"
)

// String returns string representation
func (m Method) String() string {
	return string(m)
}

// MethodForecast is one projected price/date pair from one method
type MethodForecast struct {
	Method     Method    `json:"method"`
	Price      float64   `json:"price"`
	Date       time.Time `json:"date"`
	Confidence float64   `json:"confidence"` // 0-1
	Horizon    int       `json:"horizon,omitempty"`
}

// ConvergenceCandidate is formed by clustering method forecasts within
// joint price and date tolerance windows
type ConvergenceCandidate struct {
	Price      float64   `json:"price"`
	Date       time.Time `json:"date"`
	Methods    []string  `json:"methods"`
	Confidence float64   `json:"confidence"` // 0-1
}

// Support is the selection key for the best candidate
func (c ConvergenceCandidate) Support() float64 {
	return float64(len(c.Methods)) * c.Confidence
}

// ForecastedSwing is the accepted turning-point forecast for a symbol
type ForecastedSwing struct {
	Anchor    SwingPoint           `json:"anchor"`
	Candidate ConvergenceCandidate `json:"candidate"`
	Bullish   bool                 `json:"bullish"` // target above anchor price
	State     BinaryState          `json:"state"`
}
