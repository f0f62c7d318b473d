package astro

import "strings"

// SectorProfile maps a market sector to its ruling bodies, favorable
// ingress signs, and the symbol keywords that identify membership.
//
// Profiles are injected configuration: the rating aggregator takes a
// profile set from the caller so the core carries no hidden symbol
// universe. DefaultSectorProfiles is a convenience starting point.
type SectorProfile struct {
	Name           string   `json:"name"`
	Rulers         []string `json:"rulers"`
	FavorableSigns []string `json:"favorable_signs"`
	Keywords       []string `json:"keywords"`
}

// Rules reports whether the body rules this sector
func (p SectorProfile) Rules(body string) bool {
	for _, r := range p.Rulers {
		if r == body {
			return true
		}
	}
	return false
}

// Favors reports whether the sign is favorable for this sector
func (p SectorProfile) Favors(sign string) bool {
	for _, s := range p.FavorableSigns {
		if s == sign {
			return true
		}
	}
	return false
}

// DefaultSectorProfiles returns the built-in sector rulership table
func DefaultSectorProfiles() []SectorProfile {
	return []SectorProfile{
		{
			Name:           "tech",
			Rulers:         []string{"Uranus", "Mercury"},
			FavorableSigns: []string{"Aquarius", "Gemini", "Virgo"},
			Keywords:       []string{"tech", "software", "innovation", "digital", "ai", "computer"},
		},
		{
			Name:           "athletics",
			Rulers:         []string{"Mars"},
			FavorableSigns: []string{"Aries", "Scorpio"},
			Keywords:       []string{"sport", "athletic", "nike", "fitness", "gym", "energy"},
		},
		{
			Name:           "finance",
			Rulers:         []string{"Jupiter", "Venus"},
			FavorableSigns: []string{"Taurus", "Sagittarius", "Libra"},
			Keywords:       []string{"bank", "financial", "wealth", "insurance", "capital"},
		},
		{
			Name:           "luxury",
			Rulers:         []string{"Venus"},
			FavorableSigns: []string{"Taurus", "Libra"},
			Keywords:       []string{"luxury", "beauty", "fashion", "jewelry", "cosmetic"},
		},
		{
			Name:           "healthcare",
			Rulers:         []string{"Neptune", "Pluto"},
			FavorableSigns: []string{"Virgo", "Pisces", "Scorpio"},
			Keywords:       []string{"health", "pharma", "medical", "hospital", "drug", "biotech"},
		},
		{
			Name:           "real_estate",
			Rulers:         []string{"Saturn"},
			FavorableSigns: []string{"Capricorn", "Taurus"},
			Keywords:       []string{"real estate", "construction", "property", "building", "home"},
		},
		{
			Name:           "communication",
			Rulers:         []string{"Mercury"},
			FavorableSigns: []string{"Gemini", "Virgo"},
			Keywords:       []string{"media", "communication", "telecom", "broadcast", "news"},
		},
		{
			Name:           "entertainment",
			Rulers:         []string{"Sun", "Venus"},
			FavorableSigns: []string{"Leo", "Libra"},
			Keywords:       []string{"entertainment", "movie", "gaming", "music", "streaming"},
		},
	}
}

// categoryDefaults maps an instrument category to its fallback sector
var categoryDefaults = map[string]string{
	"crypto":      "tech",
	"forex":       "finance",
	"rates-macro": "finance",
	"stress":      "finance",
	"commodities": "real_estate",
}

// IdentifySector matches a symbol (and its category fallback) against
// the profile keyword lists. Returns nil when no profile fits.
func IdentifySector(symbol, category string, profiles []SectorProfile) *SectorProfile {
	lower := strings.ToLower(symbol)
	for i := range profiles {
		for _, kw := range profiles[i].Keywords {
			if strings.Contains(lower, kw) {
				return &profiles[i]
			}
		}
	}
	if name, ok := categoryDefaults[category]; ok {
		for i := range profiles {
			if profiles[i].Name == name {
				return &profiles[i]
			}
		}
	}
	return nil
}

// SignElement returns the classical element of a zodiac sign
func SignElement(sign string) string {
	switch sign {
	case "Aries", "Leo", "Sagittarius":
		return "fire"
	case "Taurus", "Virgo", "Capricorn":
		return "earth"
	case "Gemini", "Libra", "Aquarius":
		return "air"
	case "Cancer", "Scorpio", "Pisces":
		return "water"
	}
	return ""
}
