package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ldhiman/holiday-api/internal/holiday"
)

const defaultTTL = time.Hour

const keyPrefix = "holidays:"

// Cache wraps a Redis client and provides typed get/set for holiday query
// results, keyed by the normalized filter.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache with a 1-hour TTL.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

// key returns the Redis key for the given filter. The filter must already
// have its date resolved so equivalent queries share an entry.
func key(f holiday.Filter) string {
	return keyPrefix + f.Date + ":" + strings.ToUpper(f.Country) + ":" + f.Type
}

// Get retrieves a cached query result.
// Returns nil, nil on a cache miss (not an error).
func (c *Cache) Get(ctx context.Context, f holiday.Filter) (*holiday.QueryResult, error) {
	val, err := c.client.Get(ctx, key(f)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for %s: %w", key(f), err)
	}

	var result holiday.QueryResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("unmarshaling cached result for %s: %w", key(f), err)
	}

	return &result, nil
}

// Set stores a query result in cache with the configured TTL.
func (c *Cache) Set(ctx context.Context, f holiday.Filter, result *holiday.QueryResult) error {
	if result == nil {
		return nil
	}

	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling query result for %s: %w", key(f), err)
	}

	if err := c.client.Set(ctx, key(f), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for %s: %w", key(f), err)
	}

	return nil
}

// InvalidateCountry removes every cached entry whose country segment matches
// the given code, plus entries cached with no country filter (those may
// contain rows for the country too). Used after an on-demand sync lands
// fresh data.
func (c *Cache) InvalidateCountry(ctx context.Context, country string) error {
	country = strings.ToUpper(country)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scanning cache keys for country %s: %w", country, err)
		}

		var stale []string
		for _, k := range keys {
			parts := strings.SplitN(strings.TrimPrefix(k, keyPrefix), ":", 3)
			if len(parts) != 3 {
				continue
			}
			if parts[1] == country || parts[1] == "" {
				stale = append(stale, k)
			}
		}

		if len(stale) > 0 {
			if err := c.client.Del(ctx, stale...).Err(); err != nil {
				return fmt.Errorf("deleting cache keys for country %s: %w", country, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
