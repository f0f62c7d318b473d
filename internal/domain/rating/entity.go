package rating

import (
	"time"

	"fourcastr/internal/domain/forecast"
	"fourcastr/internal/domain/levels"
)

// Grade is a letter rating derived from the composite score
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// GradeFor maps a composite score to its letter grade. Boundaries are
// exact: 90.0 is an A, 89.999 a B+.
func GradeFor(total float64) Grade {
	switch {
	case total >= 95:
		return GradeAPlus
	case total >= 90:
		return GradeA
	case total >= 85:
		return GradeBPlus
	case total >= 80:
		return GradeB
	case total >= 70:
		return GradeCPlus
	case total >= 60:
		return GradeC
	case total >= 50:
		return GradeD
	}
	return GradeF
}

// Confidence is the qualitative band of the composite score
type Confidence string

const (
	ConfidenceFeatured    Confidence = "featured"
	ConfidenceFavorable   Confidence = "favorable"
	ConfidenceNeutral     Confidence = "neutral"
	ConfidenceUnfavorable Confidence = "unfavorable"
)

// ConfidenceFor maps a composite score to its band
func ConfidenceFor(total float64) Confidence {
	switch {
	case total >= 85:
		return ConfidenceFeatured
	case total >= 70:
		return ConfidenceFavorable
	case total >= 50:
		return ConfidenceNeutral
	}
	return ConfidenceUnfavorable
}

// Recommendation is the directional call attached to a rating
type Recommendation string

const (
	RecommendBuy  Recommendation = "buy"
	RecommendSell Recommendation = "sell"
	RecommendHold Recommendation = "hold"
)

// RecommendationFor maps the composite score and target direction to a
// directional recommendation
func RecommendationFor(total float64, bullish bool) Recommendation {
	if total < 60 {
		return RecommendHold
	}
	if bullish {
		return RecommendBuy
	}
	return RecommendSell
}

// Scores holds every component score of a rating, all clamped 0-100
type Scores struct {
	Confluence  float64 `json:"confluence"`
	Proximity   float64 `json:"proximity"`
	Momentum    float64 `json:"momentum"`
	Volatility  float64 `json:"volatility"`
	Trend       float64 `json:"trend"`
	Volume      float64 `json:"volume"`
	Seasonal    float64 `json:"seasonal"`
	Aspect      float64 `json:"aspect"`
	Technical   float64 `json:"technical"`
	Fundamental float64 `json:"fundamental"`
	Total       float64 `json:"total"`
}

// TickerRating is the composite tradability assessment for one
// (symbol, as-of-date) pair. Produced once and never mutated; callers
// persist or cache it externally.
type TickerRating struct {
	Symbol       string    `json:"symbol"`
	Sector       string    `json:"sector,omitempty"`
	AsOf         time.Time `json:"as_of"`
	WindowEnd    time.Time `json:"window_end"`
	CurrentPrice float64   `json:"current_price"`

	Scores         Scores         `json:"scores"`
	Grade          Grade          `json:"grade"`
	Confidence     Confidence     `json:"confidence"`
	Recommendation Recommendation `json:"recommendation"`

	NextKeyLevel *levels.KeyLevel          `json:"next_key_level,omitempty"`
	Zones        []levels.ConfluenceZone   `json:"zones,omitempty"`
	Forecast     *forecast.ForecastedSwing `json:"forecast,omitempty"`

	Reasons  []string `json:"reasons,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
