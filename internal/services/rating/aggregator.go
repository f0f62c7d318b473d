package rating

import (
	"fmt"
	"math"
	"time"

	"fourcastr/internal/domain/astro"
	"fourcastr/internal/domain/forecast"
	"fourcastr/internal/domain/levels"
	"fourcastr/internal/domain/market"
	"fourcastr/internal/domain/rating"
	"fourcastr/internal/domain/volatility"
	"fourcastr/pkg/logger"
)

// Composite weights. Technical and fundamental blocks are blended
// 70/30 into the total.
const (
	weightConfluence = 0.30
	weightProximity  = 0.25
	weightMomentum   = 0.20
	weightTrend      = 0.15
	weightVolatility = 0.10

	weightSeasonal = 0.35
	weightAspect   = 0.45
	weightVolume   = 0.20

	weightTechnical   = 0.70
	weightFundamental = 0.30
)

// Input carries everything the aggregator scores
type Input struct {
	Symbol   string
	Category string
	AsOf     time.Time

	// WindowEnd bounds the seasonal scan; an externally supplied
	// boundary such as the end of the current ingress period
	WindowEnd time.Time

	Bars       []market.Bar
	KeyLevels  []levels.KeyLevel
	Zones      []levels.ConfluenceZone
	Volatility volatility.Snapshot
	Forecast   *forecast.ForecastedSwing
	Events     []astro.Event
}

// Aggregator combines component scores into a composite tradability
// rating. Sector profiles are injected so the core carries no
// compiled-in symbol universe.
type Aggregator struct {
	profiles []astro.SectorProfile
	log      *logger.Logger
}

// NewAggregator creates a new rating aggregator
func NewAggregator(profiles []astro.SectorProfile, log *logger.Logger) *Aggregator {
	if len(profiles) == 0 {
		profiles = astro.DefaultSectorProfiles()
	}
	return &Aggregator{
		profiles: profiles,
		log:      log.With("component", "rating"),
	}
}

// Rate produces the composite rating for one (symbol, as-of) pair
func (a *Aggregator) Rate(in Input) rating.TickerRating {
	currentPrice := 0.0
	if len(in.Bars) > 0 {
		currentPrice = in.Bars[len(in.Bars)-1].Close
	}

	sector := astro.IdentifySector(in.Symbol, in.Category, a.profiles)

	bullish := a.isBullish(in, currentPrice)

	nextLevel, distancePct := nearestLevel(in.KeyLevels, currentPrice)

	scores := rating.Scores{
		Confluence: confluenceScore(in.Zones),
		Proximity:  proximityScore(distancePct),
		Momentum:   momentumScore(in.Bars, bullish),
		Volatility: volatilityScore(in.Bars, in.Volatility.CurrentATRPercent),
		Trend:      trendScore(in.Bars),
		Volume:     volumeScore(in.Bars),
		Seasonal:   seasonalScore(in.Events, in.AsOf, in.WindowEnd),
		Aspect:     aspectScore(in.Events, sector, in.AsOf),
	}

	scores.Technical = clampScore(
		scores.Confluence*weightConfluence +
			scores.Proximity*weightProximity +
			scores.Momentum*weightMomentum +
			scores.Trend*weightTrend +
			scores.Volatility*weightVolatility)

	scores.Fundamental = clampScore(
		scores.Seasonal*weightSeasonal +
			scores.Aspect*weightAspect +
			scores.Volume*weightVolume)

	scores.Total = clampScore(
		scores.Technical*weightTechnical + scores.Fundamental*weightFundamental)

	out := rating.TickerRating{
		Symbol:         in.Symbol,
		AsOf:           in.AsOf,
		WindowEnd:      in.WindowEnd,
		CurrentPrice:   currentPrice,
		Scores:         scores,
		Grade:          rating.GradeFor(scores.Total),
		Confidence:     rating.ConfidenceFor(scores.Total),
		Recommendation: rating.RecommendationFor(scores.Total, bullish),
		NextKeyLevel:   nextLevel,
		Zones:          in.Zones,
		Forecast:       in.Forecast,
	}
	if sector != nil {
		out.Sector = sector.Name
	}

	a.annotate(&out, in, bullish)

	a.log.Debugw("rated symbol",
		"symbol", in.Symbol,
		"total", scores.Total,
		"grade", string(out.Grade),
	)
	return out
}

// isBullish prefers the accepted forecast's direction and falls back
// to the EMA trend
func (a *Aggregator) isBullish(in Input, currentPrice float64) bool {
	if in.Forecast != nil {
		return in.Forecast.Bullish
	}
	return trendScore(in.Bars) >= 50 && currentPrice > 0
}

// confluenceScore takes the best zone's score, capped by its level
// count times 15
func confluenceScore(zones []levels.ConfluenceZone) float64 {
	if len(zones) == 0 {
		return 0
	}
	best := zones[0]
	for _, z := range zones[1:] {
		if z.ConfluenceScore > best.ConfluenceScore {
			best = z
		}
	}
	ceiling := float64(len(best.Levels)) * 15
	return clampScore(math.Min(best.ConfluenceScore, ceiling))
}

// nearestLevel finds the key level closest to the current price and
// the distance to it in percent
func nearestLevel(lvls []levels.KeyLevel, price float64) (*levels.KeyLevel, float64) {
	if len(lvls) == 0 || price <= 0 {
		return nil, 100
	}

	best := 0
	bestDist := math.Abs(lvls[0].Price - price)
	for i := 1; i < len(lvls); i++ {
		if d := math.Abs(lvls[i].Price - price); d < bestDist {
			best, bestDist = i, d
		}
	}
	level := lvls[best]
	return &level, bestDist / price * 100
}

// annotate fills the human-readable reasons and warnings
func (a *Aggregator) annotate(r *rating.TickerRating, in Input, bullish bool) {
	direction := "bearish"
	if bullish {
		direction = "bullish"
	}

	if r.NextKeyLevel != nil {
		r.Reasons = append(r.Reasons, fmt.Sprintf(
			"next %s level at %.4f", r.NextKeyLevel.Type, r.NextKeyLevel.Price))
	}
	if len(r.Zones) > 0 {
		r.Reasons = append(r.Reasons, fmt.Sprintf(
			"%d confluence zones, best score %.0f", len(r.Zones), r.Scores.Confluence))
	}
	if in.Forecast != nil {
		r.Reasons = append(r.Reasons, fmt.Sprintf(
			"%s turning point forecast at %.4f on %s (%s)",
			direction, in.Forecast.Candidate.Price,
			in.Forecast.Candidate.Date.Format("2006-01-02"),
			in.Forecast.State.TradeSignal))
	}

	if !in.Volatility.Sufficient {
		r.Warnings = append(r.Warnings, "volatility context based on insufficient history")
	}
	if in.Volatility.State == volatility.StateExpansion && in.Volatility.Strength > 75 {
		r.Warnings = append(r.Warnings, "strong volatility expansion in progress")
	}
	if len(in.Events) == 0 {
		r.Warnings = append(r.Warnings, "no calendar events, seasonal and aspect scores neutral")
	}
}
