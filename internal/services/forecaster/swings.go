package forecaster

import (
	"fourcastr/internal/domain/forecast"
	"fourcastr/internal/domain/market"
)

// FindLastSwing locates the most recent confirmed local extremum using
// a symmetric look-back/look-ahead window with strict inequality on
// both sides. Bars inside the trailing look-ahead span cannot confirm,
// so the newest possible swing sits lookaround bars back from the end.
//
// Returns nil when no swing exists in the window.
func FindLastSwing(bars []market.Bar, lookaround int) *forecast.SwingPoint {
	if lookaround < 1 || len(bars) < 2*lookaround+1 {
		return nil
	}

	for i := len(bars) - 1 - lookaround; i >= lookaround; i-- {
		if isSwingHigh(bars, i, lookaround) {
			return &forecast.SwingPoint{
				Type:     forecast.SwingHigh,
				Price:    bars[i].High,
				Date:     bars[i].Timestamp,
				BarIndex: i,
			}
		}
		if isSwingLow(bars, i, lookaround) {
			return &forecast.SwingPoint{
				Type:     forecast.SwingLow,
				Price:    bars[i].Low,
				Date:     bars[i].Timestamp,
				BarIndex: i,
			}
		}
	}
	return nil
}

// FindPrecedingSwing scans backward from the given swing for the
// nearest confirmed swing of the opposite type, using the same pivot
// rule. Returns nil when none exists.
func FindPrecedingSwing(bars []market.Bar, last *forecast.SwingPoint, lookaround int) *forecast.SwingPoint {
	if last == nil || lookaround < 1 {
		return nil
	}

	want := last.Type.Opposite()
	for i := last.BarIndex - 1; i >= lookaround; i-- {
		switch want {
		case forecast.SwingHigh:
			if isSwingHigh(bars, i, lookaround) {
				return &forecast.SwingPoint{
					Type:     forecast.SwingHigh,
					Price:    bars[i].High,
					Date:     bars[i].Timestamp,
					BarIndex: i,
				}
			}
		case forecast.SwingLow:
			if isSwingLow(bars, i, lookaround) {
				return &forecast.SwingPoint{
					Type:     forecast.SwingLow,
					Price:    bars[i].Low,
					Date:     bars[i].Timestamp,
					BarIndex: i,
				}
			}
		}
	}
	return nil
}

func isSwingHigh(bars []market.Bar, i, lookaround int) bool {
	if i < lookaround || i+lookaround >= len(bars) {
		return false
	}
	h := bars[i].High
	for j := i - lookaround; j <= i+lookaround; j++ {
		if j == i {
			continue
		}
		if bars[j].High >= h {
			return false
		}
	}
	return true
}

func isSwingLow(bars []market.Bar, i, lookaround int) bool {
	if i < lookaround || i+lookaround >= len(bars) {
		return false
	}
	l := bars[i].Low
	for j := i - lookaround; j <= i+lookaround; j++ {
		if j == i {
			continue
		}
		if bars[j].Low <= l {
			return false
		}
	}
	return true
}
