package dating

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger/loggertest"
	"github.com/imadgeboyega/kiekky-discovery/internal/recommend"
)

func newTestCache(t *testing.T) (*ProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewProfileCache(client, time.Minute, loggertest.New(t)), mr
}

func TestProfileCache_SetGet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_, ok := cache.Get(ctx, 1)
	assert.False(t, ok)

	p := &recommend.Profile{
		ID:        "1",
		Age:       30,
		Interests: []string{"chess"},
		Location:  recommend.GeoJSONPoint(-0.1276, 51.5072),
	}
	cache.Set(ctx, 1, p)

	assert.True(t, mr.Exists("dating:profile:1"))
	assert.Equal(t, time.Minute, mr.TTL("dating:profile:1"))

	got, ok := cache.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, 30, got.Age)
	assert.Equal(t, []string{"chess"}, got.Interests)
	require.NotNil(t, got.Location)
	assert.Equal(t, recommend.LocationGeoJSON, got.Location.Kind)
}

func TestProfileCache_Expiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, 2, &recommend.Profile{ID: "2"})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, 2)
	assert.False(t, ok)
}

func TestProfileCache_CorruptEntryIsDropped(t *testing.T) {
	cache, mr := newTestCache(t)
	require.NoError(t, mr.Set("dating:profile:3", "{not json"))

	_, ok := cache.Get(context.Background(), 3)
	assert.False(t, ok)
	assert.False(t, mr.Exists("dating:profile:3"))
}

func TestProfileCache_Invalidate(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, 4, &recommend.Profile{ID: "4"})
	cache.Invalidate(ctx, 4)
	assert.False(t, mr.Exists("dating:profile:4"))
}

func TestProfileCache_RedisDownIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	ctx := context.Background()
	cache.Set(ctx, 5, &recommend.Profile{ID: "5"})
	_, ok := cache.Get(ctx, 5)
	assert.False(t, ok)
}

func TestProfileCache_Nil(t *testing.T) {
	var cache *ProfileCache
	ctx := context.Background()

	cache.Set(ctx, 1, &recommend.Profile{ID: "1"})
	cache.Invalidate(ctx, 1)
	_, ok := cache.Get(ctx, 1)
	assert.False(t, ok)
}
