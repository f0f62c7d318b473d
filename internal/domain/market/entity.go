package market

import (
	"context"
	"time"
)

// Bar represents one daily OHLCV candle
//
// Bars are immutable once ingested. The analysis services borrow bar
// slices read-only and never mutate them.
type Bar struct {
	Timestamp time.Time `ch:"timestamp" json:"timestamp"`
	Open      float64   `ch:"open" json:"open"`
	High      float64   `ch:"high" json:"high"`
	Low       float64   `ch:"low" json:"low"`
	Close     float64   `ch:"close" json:"close"`
	Volume    float64   `ch:"volume" json:"volume"`
}

// Range returns the high-low spread of the bar
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// TypicalPrice returns (H+L+C)/3
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// Query represents bar history query parameters
type Query struct {
	Symbol    string
	StartTime time.Time
	EndTime   time.Time
	Limit     int
}

// Repository provides bar history for a symbol
//
// The feed may be absent or partial; consumers degrade gracefully
// instead of failing.
type Repository interface {
	// GetBars returns bars in ascending timestamp order
	GetBars(ctx context.Context, query Query) ([]Bar, error)
}
