package market

// Series helpers for converting bar slices to the parallel float arrays
// ta-lib works with. Bars are expected in chronological order, oldest
// first.

// Highs extracts high prices
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts low prices
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Closes extracts close prices
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts volumes
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// WindowHighLow returns the highest high and lowest low of the last n
// bars. When fewer than n bars exist the whole slice is used. Returns
// zeros for an empty slice.
func WindowHighLow(bars []Bar, n int) (high, low float64) {
	if len(bars) == 0 {
		return 0, 0
	}
	start := len(bars) - n
	if start < 0 {
		start = 0
	}
	window := bars[start:]
	high, low = window[0].High, window[0].Low
	for _, b := range window[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}

// Ordered reports whether bar timestamps are strictly increasing
func Ordered(bars []Bar) bool {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			return false
		}
	}
	return true
}
