package volatility

// State defines the ATR regime of the current window
type State string

const (
	StateCompression State = "compression"
	StateExpansion   State = "expansion"
	StateNeutral     State = "neutral"
)

// Valid checks if state is valid
func (s State) Valid() bool {
	switch s {
	case StateCompression, StateExpansion, StateNeutral:
		return true
	}
	return false
}

// String returns string representation
func (s State) String() string {
	return string(s)
}

// Snapshot classifies current ATR behavior against recent history
//
// Sufficient is false when fewer than 20 ATR samples existed; callers
// must treat that as "insufficient data", not as a genuine neutral
// signal.
type Snapshot struct {
	CurrentATR        float64 `json:"current_atr"`
	CurrentATRPercent float64 `json:"current_atr_percent"`
	AverageATRPercent float64 `json:"average_atr_percent"`
	State             State   `json:"state"`
	Strength          float64 `json:"strength"` // 0-100
	Sufficient        bool    `json:"sufficient"`
}
