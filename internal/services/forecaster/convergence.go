package forecaster

import (
	"math"
	"sort"
	"time"

	"fourcastr/internal/domain/forecast"
)

// ConvergenceConfig holds the cross-method clustering tunables
type ConvergenceConfig struct {
	PriceTolerancePercent float64
	DateToleranceDays     int
	MinMethods            int
}

// DefaultConvergenceConfig returns the standard clustering configuration
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		PriceTolerancePercent: 2.0,
		DateToleranceDays:     3,
		MinMethods:            2,
	}
}

// Converge clusters method forecasts that agree within both the price
// and the date tolerance. Each qualifying cluster becomes a candidate
// at the cluster's mean price and most frequent date; confidence is the
// member mean plus 0.05 per member beyond the minimum, capped at 1.
// Candidates sharing a date within 1% price of an earlier candidate are
// dropped as duplicates.
func Converge(forecasts []forecast.MethodForecast, cfg ConvergenceConfig) []forecast.ConvergenceCandidate {
	var candidates []forecast.ConvergenceCandidate

	for i := range forecasts {
		cluster := []forecast.MethodForecast{forecasts[i]}
		for j := range forecasts {
			if j == i {
				continue
			}
			if withinPrice(forecasts[i], forecasts[j], cfg.PriceTolerancePercent) &&
				withinDays(forecasts[i].Date, forecasts[j].Date, cfg.DateToleranceDays) {
				cluster = append(cluster, forecasts[j])
			}
		}

		if len(cluster) < cfg.MinMethods {
			continue
		}

		candidate := buildCandidate(cluster, cfg.MinMethods)
		if !isDuplicate(candidates, candidate) {
			candidates = append(candidates, candidate)
		}
	}

	return candidates
}

// Best selects the candidate maximizing methodCount x confidence.
// Returns nil when no candidates exist.
func Best(candidates []forecast.ConvergenceCandidate) *forecast.ConvergenceCandidate {
	if len(candidates) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Support() > candidates[best].Support() {
			best = i
		}
	}
	return &candidates[best]
}

func buildCandidate(cluster []forecast.MethodForecast, minMethods int) forecast.ConvergenceCandidate {
	var priceSum, confSum float64
	dateCount := make(map[time.Time]int)
	methods := make([]string, 0, len(cluster))

	for _, f := range cluster {
		priceSum += f.Price
		confSum += f.Confidence
		day := f.Date.Truncate(24 * time.Hour)
		dateCount[day]++
		methods = append(methods, f.Method.String())
	}
	sort.Strings(methods)

	// Most frequent date; earliest wins ties for determinism
	var bestDate time.Time
	bestCount := 0
	for d, n := range dateCount {
		if n > bestCount || (n == bestCount && d.Before(bestDate)) {
			bestDate, bestCount = d, n
		}
	}

	confidence := confSum/float64(len(cluster)) + 0.05*float64(len(cluster)-minMethods)
	if confidence > 1 {
		confidence = 1
	}

	return forecast.ConvergenceCandidate{
		Price:      priceSum / float64(len(cluster)),
		Date:       bestDate,
		Methods:    methods,
		Confidence: confidence,
	}
}

func isDuplicate(existing []forecast.ConvergenceCandidate, c forecast.ConvergenceCandidate) bool {
	for _, e := range existing {
		if !e.Date.Equal(c.Date) {
			continue
		}
		if e.Price > 0 && math.Abs(e.Price-c.Price)/e.Price <= 0.01 {
			return true
		}
	}
	return false
}

func withinPrice(a, b forecast.MethodForecast, tolerancePct float64) bool {
	if a.Price <= 0 {
		return false
	}
	return math.Abs(a.Price-b.Price)/a.Price*100 <= tolerancePct
}

func withinDays(a, b time.Time, days int) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(days)*24*time.Hour
}
