package rating

import (
	"time"

	"fourcastr/internal/domain/astro"
)

// Calendar-derived component scores, following the confidence scoring
// methodology: ingress period 0-30, planetary aspects 0-40, lunar
// phase 0-20, nodal cycle bonus 0-10. Either function returns the
// fixed neutral 50 when the feed is absent.

// aspectWindow bounds the aspect lookaround
const aspectWindow = 3 * 24 * time.Hour

// seasonalScore measures the strength of upcoming calendar turning
// points within the remaining analysis window
func seasonalScore(events []astro.Event, asOf, windowEnd time.Time) float64 {
	if len(events) == 0 {
		return 50
	}

	windowDays := windowEnd.Sub(asOf).Hours() / 24
	if windowDays <= 0 {
		return 50
	}

	score := 50.0
	for _, e := range events {
		if e.Date.Before(asOf) || e.Date.After(windowEnd) {
			continue
		}
		switch e.Type {
		case astro.EventSeasonalAnchor, astro.EventIngress, astro.EventLunarCycle:
		default:
			continue
		}

		influence := e.Influence
		if influence <= 0 {
			influence = 50
		}

		// Nearer turning points weigh more
		until := e.Date.Sub(asOf).Hours() / 24
		weight := 1 - until/windowDays*0.5

		score += influence / 10 * weight
	}
	return clampScore(score)
}

// aspectScore combines ingress, aspect, lunar, and cycle components
// for the symbol's sector
func aspectScore(events []astro.Event, sector *astro.SectorProfile, asOf time.Time) float64 {
	if len(events) == 0 {
		return 50
	}

	total := ingressComponent(events, sector, asOf) +
		aspectComponent(events, sector, asOf) +
		astro.PhaseOn(asOf, events).TimingScore() +
		cycleBonus(events, asOf)

	return clampScore(total)
}

// ingressComponent scores the prevailing Sun ingress period, 0-30
func ingressComponent(events []astro.Event, sector *astro.SectorProfile, asOf time.Time) float64 {
	if sector == nil {
		return 15
	}

	var current *astro.Event
	for i := range events {
		e := &events[i]
		if e.Type != astro.EventIngress || e.Body != "Sun" || e.Date.After(asOf) {
			continue
		}
		if current == nil || e.Date.After(current.Date) {
			current = e
		}
	}
	if current == nil {
		return 15
	}

	if sector.Favors(current.Sign) {
		return 30
	}
	switch astro.SignElement(current.Sign) {
	case "fire":
		return 22
	case "earth":
		return 20
	case "air":
		return 18
	case "water":
		return 12
	}
	return 15
}

// aspectComponent scores planetary aspects within a +/-3 day window,
// 0-40 with a neutral center of 20
func aspectComponent(events []astro.Event, sector *astro.SectorProfile, asOf time.Time) float64 {
	if sector == nil {
		return 20
	}

	score := 20.0
	found := false

	for _, e := range events {
		diff := e.Date.Sub(asOf)
		if diff < -aspectWindow || diff > aspectWindow {
			continue
		}

		switch e.Type {
		case astro.EventAspect:
			found = true
			base := aspectBase(e)
			if sector.Rules(e.Body) || sector.Rules(e.Body2) {
				base *= 1.5
			}
			score += base

			if e.BonusEligible && e.Exact {
				influence := e.Influence
				if influence <= 0 {
					influence = 85
				}
				score += influence / 100 * 5
			}

		case astro.EventRetrograde:
			if e.Status == "starts" && sector.Rules(e.Body) {
				score -= 10
			}
		}
	}

	if !found {
		return 20
	}
	if score < 0 {
		return 0
	}
	if score > 40 {
		return 40
	}
	return score
}

func aspectBase(e astro.Event) float64 {
	switch e.AspectNature {
	case astro.NatureHarmonious:
		switch e.AspectType {
		case "sextile":
			return 15
		case "trine":
			return 20
		}
		return 0
	case astro.NatureHarsh:
		switch e.AspectType {
		case "square":
			return -15
		case "opposition":
			return -10
		}
		return 0
	}
	return 0
}

// cycleBonus awards 10 points when a bonus-eligible 18.6-year nodal
// cycle point falls within +/-30 days
func cycleBonus(events []astro.Event, asOf time.Time) float64 {
	for _, e := range events {
		if e.Type != astro.EventLunarCycle || !e.BonusEligible {
			continue
		}
		diff := e.Date.Sub(asOf)
		if diff < 0 {
			diff = -diff
		}
		if diff <= 30*24*time.Hour {
			return 10
		}
	}
	return 0
}
