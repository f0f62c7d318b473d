package levels

// LevelType classifies how a key level was derived
type LevelType string

const (
	TypeSwing         LevelType = "swing"
	TypeGannOctave    LevelType = "gann-octave"
	TypePivotHigh     LevelType = "pivot-high"
	TypePivotLow      LevelType = "pivot-low"
	TypeValueAreaHigh LevelType = "value-area-high"
	TypeValueAreaLow  LevelType = "value-area-low"
	TypePOC           LevelType = "point-of-control"
	TypeFibonacci     LevelType = "fibonacci"
	TypeFibExtension  LevelType = "fibonacci-extension"
)

// Valid checks if level type is valid
func (t LevelType) Valid() bool {
	switch t {
	case TypeSwing, TypeGannOctave, TypePivotHigh, TypePivotLow,
		TypeValueAreaHigh, TypeValueAreaLow, TypePOC,
		TypeFibonacci, TypeFibExtension:
		return true
	}
	return false
}

// String returns string representation
func (t LevelType) String() string {
	return string(t)
}

// KeyLevel is one candidate support/resistance price
//
// Levels are derived per request and carry no persistent identity.
// Strength is on a 0-10 scale fixed per derivation method.
type KeyLevel struct {
	Price    float64   `json:"price"`
	Type     LevelType `json:"type"`
	Label    string    `json:"label"`
	Strength float64   `json:"strength"`
}

// ConfluenceZone is a cluster of key levels within price tolerance of
// one another. Ephemeral, one set per detection call.
type ConfluenceZone struct {
	Price            float64    `json:"price"` // mean of cluster
	Levels           []KeyLevel `json:"levels"`
	ConfluenceScore  float64    `json:"confluence_score"` // 0-100
	Types            []string   `json:"types"`
	Strength         float64    `json:"strength"` // sum of member strengths
	ProximityPercent float64    `json:"proximity_percent"`
}

// VolumeProfile holds the value-area statistics of a bar window
type VolumeProfile struct {
	POC           float64 `json:"poc"`
	ValueAreaHigh float64 `json:"value_area_high"`
	ValueAreaLow  float64 `json:"value_area_low"`
	TotalVolume   float64 `json:"total_volume"`
}

// CentralPivotRange holds the pivot/bc/tc triple of a period
type CentralPivotRange struct {
	Pivot         float64 `json:"pivot"`
	BottomCentral float64 `json:"bc"`
	TopCentral    float64 `json:"tc"`
	Width         float64 `json:"width"`
	Narrowing     bool    `json:"narrowing"` // relative to prior-period width
}
