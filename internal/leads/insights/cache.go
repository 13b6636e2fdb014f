package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"crm_insights_backend/internal/leads/domain"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "insights:"

// Cache memoizes insight feeds in Redis, keyed by a digest of the input
// collection. The engine itself stays pure; callers consult the cache
// before invoking it. A nil *Cache is a no-op, so wiring stays optional.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache creates a Redis-backed insight cache.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Key derives the cache key for a lead collection. Identical collections
// (same leads, same order, same field values) hash to the same key.
func Key(leads []domain.Lead) (string, error) {
	payload, err := json.Marshal(leads)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(digest[:]), nil
}

// Get returns the cached feed for the collection, or (nil, false) on a miss.
// Redis errors are treated as misses; the caller recomputes.
func (c *Cache) Get(ctx context.Context, key string) ([]Insight, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var feed []Insight
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil, false
	}
	return feed, true
}

// Set stores the feed for the collection. Failures are returned so callers
// can log them, but a failed Set never invalidates the computed feed.
func (c *Cache) Set(ctx context.Context, key string, feed []Insight) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	if key == "" {
		return errors.New("empty cache key")
	}

	payload, err := json.Marshal(feed)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, payload, c.ttl).Err()
}
