package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fourcastr/internal/domain/astro"
)

var asOf = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func techSector(t *testing.T) *astro.SectorProfile {
	t.Helper()
	profiles := astro.DefaultSectorProfiles()
	for i := range profiles {
		if profiles[i].Name == "tech" {
			return &profiles[i]
		}
	}
	t.Fatal("tech profile missing")
	return nil
}

func TestSeasonalScore(t *testing.T) {
	windowEnd := asOf.AddDate(0, 0, 90)

	t.Run("no events is neutral", func(t *testing.T) {
		assert.Equal(t, 50.0, seasonalScore(nil, asOf, windowEnd))
	})

	t.Run("upcoming anchor lifts the score by proximity weight", func(t *testing.T) {
		events := []astro.Event{{
			Date:      asOf.AddDate(0, 0, 9),
			Type:      astro.EventSeasonalAnchor,
			Influence: 80,
		}}

		// 80/10 x (1 - 9/90 x 0.5)
		assert.InDelta(t, 57.6, seasonalScore(events, asOf, windowEnd), 1e-9)
	})

	t.Run("events outside the window are ignored", func(t *testing.T) {
		events := []astro.Event{
			{Date: asOf.AddDate(0, 0, -5), Type: astro.EventSeasonalAnchor, Influence: 80},
			{Date: windowEnd.AddDate(0, 0, 5), Type: astro.EventIngress, Influence: 80},
		}
		assert.Equal(t, 50.0, seasonalScore(events, asOf, windowEnd))
	})

	t.Run("aspect events do not count as turning points", func(t *testing.T) {
		events := []astro.Event{{
			Date: asOf.AddDate(0, 0, 9), Type: astro.EventAspect, Influence: 80,
		}}
		assert.Equal(t, 50.0, seasonalScore(events, asOf, windowEnd))
	})

	t.Run("inverted window is neutral", func(t *testing.T) {
		events := []astro.Event{{
			Date: asOf, Type: astro.EventSeasonalAnchor, Influence: 80,
		}}
		assert.Equal(t, 50.0, seasonalScore(events, asOf, asOf.AddDate(0, 0, -1)))
	})
}

func TestAspectScore(t *testing.T) {
	sector := techSector(t)

	t.Run("no events is neutral", func(t *testing.T) {
		assert.Equal(t, 50.0, aspectScore(nil, sector, asOf))
	})

	t.Run("full favorable stack", func(t *testing.T) {
		events := []astro.Event{
			// Favorable Sun ingress for tech: 30
			{Date: asOf.AddDate(0, 0, -10), Type: astro.EventIngress, Body: "Sun", Sign: "Gemini"},
			// Ruler trine: 20 x 1.5 caps the aspect component at 40
			{Date: asOf, Type: astro.EventAspect, Body: "Uranus", Body2: "Sun",
				AspectType: "trine", AspectNature: astro.NatureHarmonious},
			// New moon: timing 18
			{Date: asOf.AddDate(0, 0, -1), Type: astro.EventLunarPhase, Phase: astro.PhaseNew},
			// Nodal cycle point in range: +10
			{Date: asOf.AddDate(0, 0, 20), Type: astro.EventLunarCycle, BonusEligible: true},
		}

		assert.InDelta(t, 98.0, aspectScore(events, sector, asOf), 1e-9)
	})

	t.Run("nil sector reads neutral components", func(t *testing.T) {
		events := []astro.Event{
			{Date: asOf.AddDate(0, 0, -10), Type: astro.EventIngress, Body: "Sun", Sign: "Gemini"},
			{Date: asOf.AddDate(0, 0, -1), Type: astro.EventLunarPhase, Phase: astro.PhaseFull},
		}

		// 15 ingress + 20 aspects + 12 full moon
		assert.InDelta(t, 47.0, aspectScore(events, nil, asOf), 1e-9)
	})
}

func TestIngressComponent(t *testing.T) {
	sector := techSector(t)

	cases := []struct {
		name string
		sign string
		want float64
	}{
		{"favorable sign", "Aquarius", 30},
		{"fire sign", "Leo", 22},
		{"earth sign", "Capricorn", 20},
		{"air sign", "Libra", 18},
		{"water sign", "Cancer", 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := []astro.Event{{
				Date: asOf.AddDate(0, 0, -5), Type: astro.EventIngress, Body: "Sun", Sign: tc.sign,
			}}
			assert.Equal(t, tc.want, ingressComponent(events, sector, asOf))
		})
	}

	t.Run("future ingress does not apply", func(t *testing.T) {
		events := []astro.Event{{
			Date: asOf.AddDate(0, 0, 5), Type: astro.EventIngress, Body: "Sun", Sign: "Gemini",
		}}
		assert.Equal(t, 15.0, ingressComponent(events, sector, asOf))
	})

	t.Run("latest ingress wins", func(t *testing.T) {
		events := []astro.Event{
			{Date: asOf.AddDate(0, 0, -40), Type: astro.EventIngress, Body: "Sun", Sign: "Cancer"},
			{Date: asOf.AddDate(0, 0, -5), Type: astro.EventIngress, Body: "Sun", Sign: "Gemini"},
		}
		assert.Equal(t, 30.0, ingressComponent(events, sector, asOf))
	})
}

func TestAspectComponent(t *testing.T) {
	sector := techSector(t)

	t.Run("no aspects in window is neutral", func(t *testing.T) {
		events := []astro.Event{{
			Date: asOf.AddDate(0, 0, -10), Type: astro.EventAspect,
			AspectType: "trine", AspectNature: astro.NatureHarmonious,
		}}
		assert.Equal(t, 20.0, aspectComponent(events, sector, asOf))
	})

	t.Run("harsh square drags below neutral", func(t *testing.T) {
		events := []astro.Event{{
			Date: asOf, Type: astro.EventAspect, Body: "Mars", Body2: "Saturn",
			AspectType: "square", AspectNature: astro.NatureHarsh,
		}}
		assert.Equal(t, 5.0, aspectComponent(events, sector, asOf))
	})

	t.Run("exact bonus scales with influence", func(t *testing.T) {
		events := []astro.Event{{
			Date: asOf, Type: astro.EventAspect, Body: "Mars", Body2: "Venus",
			AspectType: "sextile", AspectNature: astro.NatureHarmonious,
			Exact: true, BonusEligible: true, Influence: 80,
		}}
		// 20 + 15 + 80/100 x 5
		assert.InDelta(t, 39.0, aspectComponent(events, sector, asOf), 1e-9)
	})

	t.Run("ruler retrograde start penalizes", func(t *testing.T) {
		events := []astro.Event{
			{Date: asOf, Type: astro.EventAspect, Body: "Mars", Body2: "Venus",
				AspectType: "sextile", AspectNature: astro.NatureHarmonious},
			{Date: asOf, Type: astro.EventRetrograde, Body: "Mercury", Status: "starts"},
		}
		// 20 + 15 - 10
		assert.InDelta(t, 25.0, aspectComponent(events, sector, asOf), 1e-9)
	})
}

func TestCycleBonus(t *testing.T) {
	require.Equal(t, 0.0, cycleBonus(nil, asOf))

	inRange := []astro.Event{{
		Date: asOf.AddDate(0, 0, 25), Type: astro.EventLunarCycle, BonusEligible: true,
	}}
	assert.Equal(t, 10.0, cycleBonus(inRange, asOf))

	outOfRange := []astro.Event{{
		Date: asOf.AddDate(0, 0, 45), Type: astro.EventLunarCycle, BonusEligible: true,
	}}
	assert.Equal(t, 0.0, cycleBonus(outOfRange, asOf))

	notEligible := []astro.Event{{
		Date: asOf.AddDate(0, 0, 25), Type: astro.EventLunarCycle,
	}}
	assert.Equal(t, 0.0, cycleBonus(notEligible, asOf))
}
