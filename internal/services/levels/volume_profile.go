package levels

import (
	"fourcastr/internal/domain/levels"
	"fourcastr/internal/domain/market"
)

// BuildProfile discretizes the window's price range into numLevels bins
// and allocates each bar's volume uniformly across the bins its
// high-low range touches. POC is the bin with maximum volume; the value
// area expands outward from the POC, alternating to the side with more
// volume, until at least 70% of total volume is enclosed.
//
// Returns ok=false for degenerate input (flat range, zero volume, too
// few bars) instead of dividing by a zero price step.
func BuildProfile(bars []market.Bar, numLevels int) (levels.VolumeProfile, bool) {
	if len(bars) < 10 || numLevels < 2 {
		return levels.VolumeProfile{}, false
	}

	minPrice := bars[0].Low
	maxPrice := bars[0].High
	for _, b := range bars {
		if b.Low < minPrice {
			minPrice = b.Low
		}
		if b.High > maxPrice {
			maxPrice = b.High
		}
	}

	priceRange := maxPrice - minPrice
	if priceRange <= 0 {
		return levels.VolumeProfile{}, false
	}
	binSize := priceRange / float64(numLevels)

	volumeByBin := make([]float64, numLevels)
	for _, b := range bars {
		if b.Volume <= 0 {
			continue
		}

		lowBin := int((b.Low - minPrice) / binSize)
		highBin := int((b.High - minPrice) / binSize)
		if lowBin < 0 {
			lowBin = 0
		}
		if highBin >= numLevels {
			highBin = numLevels - 1
		}

		// Uniform allocation across every bin the bar's range touches
		share := b.Volume / float64(highBin-lowBin+1)
		for i := lowBin; i <= highBin; i++ {
			volumeByBin[i] += share
		}
	}

	totalVolume := 0.0
	for _, v := range volumeByBin {
		totalVolume += v
	}
	if totalVolume <= 0 {
		return levels.VolumeProfile{}, false
	}

	pocBin := 0
	for i, v := range volumeByBin {
		if v > volumeByBin[pocBin] {
			pocBin = i
		}
	}

	// Expand the value area from the POC, always taking the side with
	// more volume, until 70% of total volume is enclosed
	target := totalVolume * 0.70
	enclosed := volumeByBin[pocBin]
	vaHigh, vaLow := pocBin, pocBin

	for enclosed < target && (vaHigh < numLevels-1 || vaLow > 0) {
		nextHigh := 0.0
		if vaHigh < numLevels-1 {
			nextHigh = volumeByBin[vaHigh+1]
		}
		nextLow := 0.0
		if vaLow > 0 {
			nextLow = volumeByBin[vaLow-1]
		}

		switch {
		case nextHigh > nextLow:
			vaHigh++
			enclosed += nextHigh
		case vaLow > 0:
			vaLow--
			enclosed += nextLow
		case vaHigh < numLevels-1:
			vaHigh++
			enclosed += nextHigh
		default:
			return levels.VolumeProfile{}, false
		}
	}

	binCenter := func(i int) float64 {
		return minPrice + (float64(i)+0.5)*binSize
	}

	return levels.VolumeProfile{
		POC:           binCenter(pocBin),
		ValueAreaHigh: minPrice + (float64(vaHigh)+1)*binSize,
		ValueAreaLow:  minPrice + float64(vaLow)*binSize,
		TotalVolume:   totalVolume,
	}, true
}
