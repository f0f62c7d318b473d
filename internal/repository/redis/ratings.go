package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fourcastr/internal/domain/rating"
	"fourcastr/pkg/errors"
)

// RatingCache stores computed ratings keyed by symbol and as-of date.
// Evaluations are deterministic for a fixed bar history, so a cached
// rating stays valid until the next daily bar lands.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRatingCache creates a new rating cache
func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cached rating for a symbol on a given day
func (c *RatingCache) Get(ctx context.Context, symbol string, asOf time.Time) (*rating.TickerRating, error) {
	key := c.getKey(symbol, asOf)

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no cached rating for %s", symbol)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get rating from redis: %s", symbol)
	}

	var r rating.TickerRating
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal rating: %s", symbol)
	}

	return &r, nil
}

// Save stores a rating with the cache TTL
func (c *RatingCache) Save(ctx context.Context, r *rating.TickerRating) error {
	key := c.getKey(r.Symbol, r.AsOf)

	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal rating: %s", r.Symbol)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to save rating to redis: %s", r.Symbol)
	}

	return nil
}

// Delete removes a cached rating
func (c *RatingCache) Delete(ctx context.Context, symbol string, asOf time.Time) error {
	key := c.getKey(symbol, asOf)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete rating from redis: %s", symbol)
	}

	return nil
}

func (c *RatingCache) getKey(symbol string, asOf time.Time) string {
	return fmt.Sprintf("rating:%s:%s", symbol, asOf.Format("2006-01-02"))
}
