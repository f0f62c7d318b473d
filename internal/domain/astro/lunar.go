package astro

import (
	"math"
	"time"
)

// LunarPhase is one of the eight phases of the synodic cycle
type LunarPhase string

const (
	PhaseNew            LunarPhase = "new"
	PhaseWaxingCrescent LunarPhase = "waxing_crescent"
	PhaseFirstQuarter   LunarPhase = "first_quarter"
	PhaseWaxingGibbous  LunarPhase = "waxing_gibbous"
	PhaseFull           LunarPhase = "full"
	PhaseWaningGibbous  LunarPhase = "waning_gibbous"
	PhaseLastQuarter    LunarPhase = "last_quarter"
	PhaseWaningCrescent LunarPhase = "waning_crescent"
)

// String returns string representation
func (p LunarPhase) String() string {
	return string(p)
}

// Waxing reports whether the phase falls on the building half of the
// cycle (new through waxing gibbous)
func (p LunarPhase) Waxing() bool {
	switch p {
	case PhaseNew, PhaseWaxingCrescent, PhaseFirstQuarter, PhaseWaxingGibbous:
		return true
	}
	return false
}

// TimingScore returns the precision-timing score of the phase on the
// 0-20 scale. Unknown phases read as neutral 10.
func (p LunarPhase) TimingScore() float64 {
	switch p {
	case PhaseNew:
		return 18
	case PhaseWaxingCrescent:
		return 16
	case PhaseFirstQuarter:
		return 15
	case PhaseWaxingGibbous:
		return 14
	case PhaseFull:
		return 12
	case PhaseWaningGibbous:
		return 10
	case PhaseLastQuarter:
		return 8
	case PhaseWaningCrescent:
		return 6
	}
	return 10
}

// synodicMonth is the mean length of the lunation cycle in days
const synodicMonth = 29.530588853

// lunarEpoch is a reference new moon (2000-01-06 18:14 UTC)
var lunarEpoch = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

// PhaseAt approximates the lunar phase on a date from the mean synodic
// cycle. Used only when the calendar feed carries no lunar events; the
// feed's ephemeris-derived phases are preferred.
func PhaseAt(date time.Time) LunarPhase {
	days := date.Sub(lunarEpoch).Hours() / 24
	age := math.Mod(days, synodicMonth)
	if age < 0 {
		age += synodicMonth
	}
	angle := age / synodicMonth * 360

	// Same 22.5-degree bucketing the ephemeris pipeline uses
	switch {
	case angle < 22.5:
		return PhaseNew
	case angle < 67.5:
		return PhaseWaxingCrescent
	case angle < 112.5:
		return PhaseFirstQuarter
	case angle < 157.5:
		return PhaseWaxingGibbous
	case angle < 202.5:
		return PhaseFull
	case angle < 247.5:
		return PhaseWaningGibbous
	case angle < 292.5:
		return PhaseLastQuarter
	case angle < 337.5:
		return PhaseWaningCrescent
	}
	return PhaseNew
}

// PhaseOn returns the prevailing lunar phase on a date, preferring the
// most recent lunar_phase event at or before the date and falling back
// to the synodic approximation.
func PhaseOn(date time.Time, events []Event) LunarPhase {
	var latest *Event
	for i := range events {
		e := &events[i]
		if e.Type != EventLunarPhase || e.Date.After(date) {
			continue
		}
		if latest == nil || e.Date.After(latest.Date) {
			latest = e
		}
	}
	if latest != nil && latest.Phase != "" {
		return latest.Phase
	}
	return PhaseAt(date)
}
