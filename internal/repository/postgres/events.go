package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"fourcastr/internal/domain/astro"
	"fourcastr/internal/metrics"
	"fourcastr/pkg/errors"
)

// EventRepository implements astro.Repository for PostgreSQL
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new calendar event repository
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// GetEvents returns calendar events in ascending date order
func (r *EventRepository) GetEvents(ctx context.Context, q astro.Query) ([]astro.Event, error) {
	start := time.Now()

	query := `
		SELECT date, event_type, body, body2, sign, phase,
		       aspect_type, aspect_nature, influence, exact,
		       bonus_eligible, status
		FROM calendar_events
		WHERE date >= $1 AND date <= $2
	`
	args := []interface{}{q.StartTime, q.EndTime}

	if len(q.Types) > 0 {
		types := make([]string, len(q.Types))
		for i, t := range q.Types {
			types[i] = string(t)
		}
		query += " AND event_type = ANY($3)"
		args = append(args, pq.Array(types))
	}

	query += " ORDER BY date ASC"

	var events []astro.Event
	err := r.db.SelectContext(ctx, &events, query, args...)
	metrics.RecordDBQuery("postgres", "get_events", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(err, "query calendar events")
	}

	return events, nil
}

// InsertEvent stores one calendar event
func (r *EventRepository) InsertEvent(ctx context.Context, e *astro.Event) error {
	start := time.Now()

	query := `
		INSERT INTO calendar_events (
			date, event_type, body, body2, sign, phase,
			aspect_type, aspect_nature, influence, exact,
			bonus_eligible, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.Date,
		e.Type,
		e.Body,
		e.Body2,
		e.Sign,
		e.Phase,
		e.AspectType,
		e.AspectNature,
		e.Influence,
		e.Exact,
		e.BonusEligible,
		e.Status,
	)
	metrics.RecordDBQuery("postgres", "insert_event", time.Since(start), err)
	if err != nil {
		return errors.Wrap(err, "insert calendar event")
	}

	return nil
}
