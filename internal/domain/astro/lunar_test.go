package astro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLunarPhase_Waxing(t *testing.T) {
	waxing := []LunarPhase{PhaseNew, PhaseWaxingCrescent, PhaseFirstQuarter, PhaseWaxingGibbous}
	for _, p := range waxing {
		assert.Truef(t, p.Waxing(), "phase=%s", p)
	}

	waning := []LunarPhase{PhaseFull, PhaseWaningGibbous, PhaseLastQuarter, PhaseWaningCrescent}
	for _, p := range waning {
		assert.Falsef(t, p.Waxing(), "phase=%s", p)
	}
}

func TestLunarPhase_TimingScore(t *testing.T) {
	assert.Equal(t, 18.0, PhaseNew.TimingScore())
	assert.Equal(t, 12.0, PhaseFull.TimingScore())
	assert.Equal(t, 6.0, PhaseWaningCrescent.TimingScore())
	assert.Equal(t, 10.0, LunarPhase("bogus").TimingScore())
}

func TestPhaseAt(t *testing.T) {
	// Reference new moon epoch
	assert.Equal(t, PhaseNew, PhaseAt(time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)))

	// A quarter cycle later
	assert.Equal(t, PhaseFirstQuarter, PhaseAt(time.Date(2000, 1, 14, 0, 0, 0, 0, time.UTC)))

	// Half a cycle later
	assert.Equal(t, PhaseFull, PhaseAt(time.Date(2000, 1, 21, 12, 0, 0, 0, time.UTC)))

	// Dates before the epoch wrap correctly
	assert.Equal(t, PhaseFull, PhaseAt(time.Date(1999, 12, 22, 12, 0, 0, 0, time.UTC)))
}

func TestPhaseOn(t *testing.T) {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("prefers the latest feed event at or before the date", func(t *testing.T) {
		events := []Event{
			{Type: EventLunarPhase, Date: date.AddDate(0, 0, -8), Phase: PhaseNew},
			{Type: EventLunarPhase, Date: date.AddDate(0, 0, -1), Phase: PhaseWaxingGibbous},
			{Type: EventLunarPhase, Date: date.AddDate(0, 0, 6), Phase: PhaseFull},
		}
		assert.Equal(t, PhaseWaxingGibbous, PhaseOn(date, events))
	})

	t.Run("falls back to the synodic approximation", func(t *testing.T) {
		assert.Equal(t, PhaseAt(date), PhaseOn(date, nil))

		futureOnly := []Event{{Type: EventLunarPhase, Date: date.AddDate(0, 0, 3), Phase: PhaseFull}}
		assert.Equal(t, PhaseAt(date), PhaseOn(date, futureOnly))
	})

	t.Run("ignores non-lunar events", func(t *testing.T) {
		events := []Event{{Type: EventAspect, Date: date.AddDate(0, 0, -1), Phase: PhaseFull}}
		assert.Equal(t, PhaseAt(date), PhaseOn(date, events))
	})
}
