package levels

import (
	"fmt"
	"math"
	"sort"

	"fourcastr/internal/domain/levels"
	"fourcastr/pkg/logger"
)

// ConfluenceConfig holds the clustering tunables
type ConfluenceConfig struct {
	TolerancePercent float64 // price tolerance, percent of level price
	MinLevels        int     // minimum cluster size to emit a zone
}

// DefaultConfluenceConfig returns the standard detector configuration
func DefaultConfluenceConfig() ConfluenceConfig {
	return ConfluenceConfig{
		TolerancePercent: 0.5,
		MinLevels:        2,
	}
}

// Detector clusters key levels that fall within a price tolerance of
// one another.
//
// Clustering is greedy and single-pass: levels are consumed in input
// order, so the grouping depends on input order. That is a documented
// property kept for reproducibility, not a defect; downstream scoring
// assumes this exact grouping.
type Detector struct {
	cfg ConfluenceConfig
	log *logger.Logger
}

// NewDetector creates a new confluence detector
func NewDetector(cfg ConfluenceConfig, log *logger.Logger) *Detector {
	return &Detector{
		cfg: cfg,
		log: log.With("component", "confluence"),
	}
}

// Detect clusters the levels and returns zones sorted descending by
// confluence score. refPrice is used only for the proximity readout.
func (d *Detector) Detect(lvls []levels.KeyLevel, refPrice float64) []levels.ConfluenceZone {
	var zones []levels.ConfluenceZone
	consumed := make([]bool, len(lvls))

	for i := range lvls {
		if consumed[i] {
			continue
		}

		cluster := []levels.KeyLevel{lvls[i]}
		consumed[i] = true
		tolerance := lvls[i].Price * d.cfg.TolerancePercent / 100

		for j := range lvls {
			if consumed[j] {
				continue
			}
			if math.Abs(lvls[j].Price-lvls[i].Price) <= tolerance {
				cluster = append(cluster, lvls[j])
				consumed[j] = true
			}
		}

		if len(cluster) < d.cfg.MinLevels {
			continue
		}
		zones = append(zones, d.buildZone(cluster, refPrice))
	}

	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].ConfluenceScore > zones[j].ConfluenceScore
	})
	return zones
}

func (d *Detector) buildZone(cluster []levels.KeyLevel, refPrice float64) levels.ConfluenceZone {
	var priceSum, strength float64
	typeSet := make(map[string]struct{})
	for _, l := range cluster {
		priceSum += l.Price
		strength += l.Strength
		typeSet[l.Type.String()] = struct{}{}
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)

	price := priceSum / float64(len(cluster))

	score := 15*float64(len(cluster)) + 10*float64(len(types)) + math.Min(40, strength/2)
	if score > 100 {
		score = 100
	}

	proximity := 0.0
	if refPrice > 0 {
		proximity = math.Abs(price-refPrice) / refPrice * 100
	}

	d.log.Debugf("zone %s: %d levels, score %.1f",
		fmt.Sprintf("%.4f", price), len(cluster), score)

	return levels.ConfluenceZone{
		Price:            price,
		Levels:           cluster,
		ConfluenceScore:  score,
		Types:            types,
		Strength:         strength,
		ProximityPercent: proximity,
	}
}
