package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldhiman/holiday-api/internal/cache"
	"github.com/ldhiman/holiday-api/internal/holiday"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewCache(client), mr
}

func usFilter() holiday.Filter {
	return holiday.Filter{Date: "2025-01-01", Country: "US"}
}

func sampleResult() *holiday.QueryResult {
	return &holiday.QueryResult{
		Count: 1,
		Holidays: []holiday.Record{
			{Name: "New Year", Date: "2025-01-01", Country: "US", Type: "National"},
		},
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, usFilter(), sampleResult()))

	got, err := c.Get(ctx, usFilter())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "New Year", got.Holidays[0].Name)
}

func TestCache_Get_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background(), usFilter())
	require.NoError(t, err)
	assert.Nil(t, got, "cache miss should return nil, nil")
}

func TestCache_CountryKeyIsUppercased(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, holiday.Filter{Date: "2025-01-01", Country: "us"}, sampleResult()))

	got, err := c.Get(ctx, holiday.Filter{Date: "2025-01-01", Country: "US"})
	require.NoError(t, err)
	require.NotNil(t, got, "country casing should not split cache entries")
}

func TestCache_DifferentFiltersDifferentEntries(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, usFilter(), sampleResult()))

	got, err := c.Get(ctx, holiday.Filter{Date: "2025-01-01", Country: "US", Type: "National"})
	require.NoError(t, err)
	assert.Nil(t, got, "a narrower filter must not reuse the broader entry")
}

func TestCache_Set_NilResult(t *testing.T) {
	c, _ := newTestCache(t)
	err := c.Set(context.Background(), usFilter(), nil)
	require.NoError(t, err)
}

func TestCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, usFilter(), sampleResult()))

	mr.FastForward(2 * time.Hour)

	got, err := c.Get(ctx, usFilter())
	require.NoError(t, err)
	assert.Nil(t, got, "entry should be expired after TTL")
}

func TestCache_InvalidateCountry(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, usFilter(), sampleResult()))
	require.NoError(t, c.Set(ctx, holiday.Filter{Date: "2025-01-01", Country: "FR"}, sampleResult()))
	// No-country entry may contain US rows, so it must go too.
	require.NoError(t, c.Set(ctx, holiday.Filter{Date: "2025-01-01"}, sampleResult()))

	require.NoError(t, c.InvalidateCountry(ctx, "us"))

	got, err := c.Get(ctx, usFilter())
	require.NoError(t, err)
	assert.Nil(t, got, "US entry invalidated")

	got, err = c.Get(ctx, holiday.Filter{Date: "2025-01-01"})
	require.NoError(t, err)
	assert.Nil(t, got, "wildcard-country entry invalidated")

	got, err = c.Get(ctx, holiday.Filter{Date: "2025-01-01", Country: "FR"})
	require.NoError(t, err)
	require.NotNil(t, got, "other countries keep their entries")
}

func TestCache_InvalidateCountry_NoEntries(t *testing.T) {
	c, _ := newTestCache(t)
	err := c.InvalidateCountry(context.Background(), "US")
	require.NoError(t, err)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := cache.Connect(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestConnect_UnreachableServer(t *testing.T) {
	_, err := cache.Connect(context.Background(), "redis://localhost:19999")
	require.Error(t, err)
}
