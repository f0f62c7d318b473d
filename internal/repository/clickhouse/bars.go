package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"fourcastr/internal/domain/market"
	"fourcastr/internal/metrics"
	"fourcastr/pkg/errors"
)

// BarRepository implements market.Repository for ClickHouse
type BarRepository struct {
	conn driver.Conn
}

// NewBarRepository creates a new daily bar repository
func NewBarRepository(conn driver.Conn) *BarRepository {
	return &BarRepository{conn: conn}
}

// GetBars returns daily bars in ascending timestamp order.
// The query selects the newest bars first so Limit trims old history,
// then the slice is reversed to the ascending order consumers expect.
func (r *BarRepository) GetBars(ctx context.Context, q market.Query) ([]market.Bar, error) {
	start := time.Now()

	query := `
		SELECT timestamp, open, high, low, close, volume
		FROM daily_bars
		WHERE symbol = ?
	`
	args := []interface{}{q.Symbol}

	if !q.StartTime.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, q.StartTime)
	}
	if !q.EndTime.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, q.EndTime)
	}

	query += " ORDER BY timestamp DESC"

	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	metrics.RecordDBQuery("clickhouse", "get_bars", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrapf(err, "query bars for %s", q.Symbol)
	}
	defer rows.Close()

	var bars []market.Bar
	for rows.Next() {
		var b market.Bar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, errors.Wrapf(err, "scan bar for %s", q.Symbol)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate bars for %s", q.Symbol)
	}

	// Newest-first from the query, ascending for consumers
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	return bars, nil
}

// InsertBars bulk-loads daily bars via a prepared batch
func (r *BarRepository) InsertBars(ctx context.Context, symbol string, bars []market.Bar) error {
	start := time.Now()

	batch, err := r.conn.PrepareBatch(ctx, `
		INSERT INTO daily_bars (symbol, timestamp, open, high, low, close, volume)
	`)
	if err != nil {
		return errors.Wrap(err, "prepare bar batch")
	}

	for _, b := range bars {
		if err := batch.Append(symbol, b.Timestamp, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return errors.Wrapf(err, "append bar for %s", symbol)
		}
	}

	err = batch.Send()
	metrics.RecordDBQuery("clickhouse", "insert_bars", time.Since(start), err)
	if err != nil {
		return errors.Wrapf(err, "send bar batch for %s", symbol)
	}

	return nil
}
