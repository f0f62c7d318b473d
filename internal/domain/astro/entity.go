package astro

import (
	"context"
	"time"
)

// EventType classifies a calendar/timing event
type EventType string

const (
	EventIngress        EventType = "ingress"
	EventAspect         EventType = "aspect"
	EventLunarPhase     EventType = "lunar_phase"
	EventRetrograde     EventType = "retrograde"
	EventLunarCycle     EventType = "lunar_cycle"
	EventSeasonalAnchor EventType = "seasonal_anchor"
)

// Valid checks if event type is valid
func (t EventType) Valid() bool {
	switch t {
	case EventIngress, EventAspect, EventLunarPhase, EventRetrograde,
		EventLunarCycle, EventSeasonalAnchor:
		return true
	}
	return false
}

// AspectNature splits aspects into harmonious and harsh families
type AspectNature string

const (
	NatureHarmonious AspectNature = "harmonious"
	NatureHarsh      AspectNature = "harsh"
	NatureNeutral    AspectNature = "neutral"
)

// Event is one named astronomical/calendar event from the timing feed
//
// Only the fields relevant to the event's type are populated; e.g. an
// ingress carries Body+Sign, an aspect carries Body/Body2/AspectType.
type Event struct {
	Date          time.Time    `db:"date" json:"date"`
	Type          EventType    `db:"event_type" json:"type"`
	Body          string       `db:"body" json:"body"`
	Body2         string       `db:"body2" json:"body2,omitempty"`
	Sign          string       `db:"sign" json:"sign,omitempty"`
	Phase         LunarPhase   `db:"phase" json:"phase,omitempty"`
	AspectType    string       `db:"aspect_type" json:"aspect_type,omitempty"`
	AspectNature  AspectNature `db:"aspect_nature" json:"aspect_nature,omitempty"`
	Influence     float64      `db:"influence" json:"influence,omitempty"` // 0-100
	Exact         bool         `db:"exact" json:"exact,omitempty"`
	BonusEligible bool         `db:"bonus_eligible" json:"bonus_eligible,omitempty"`
	Status        string       `db:"status" json:"status,omitempty"` // retrogrades: starts|ends
}

// Query represents calendar event query parameters
type Query struct {
	StartTime time.Time
	EndTime   time.Time
	Types     []EventType
}

// Repository provides calendar/timing events
//
// Absence of the feed falls back to neutral scores downstream; the
// repository never gates the analysis core.
type Repository interface {
	// GetEvents returns events in ascending date order
	GetEvents(ctx context.Context, query Query) ([]Event, error)
}
