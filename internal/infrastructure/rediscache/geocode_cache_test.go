package rediscache_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/infrastructure/rediscache"
	"github.com/redis/go-redis/v9"
)

// memRedis implements the two commands the cache uses; any other call panics
// on the nil embedded interface.
type memRedis struct {
	redis.Cmdable
	items  map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemRedis() *memRedis {
	return &memRedis{items: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.items[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.items[key] = string(v)
	default:
		m.items[key] = fmt.Sprint(v)
	}
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func mapURL(key string) func(lat, lon float64) string {
	return func(lat, lon float64) string {
		return fmt.Sprintf("https://maps.test/?c=%v,%v&apiKey=%s", lat, lon, key)
	}
}

func TestGeocodeCache_Miss(t *testing.T) {
	c := rediscache.NewGeocodeCache(newMemRedis(), mapURL("k1"))

	p, ok, err := c.Get(context.Background(), "geocode:paris")
	if err != nil || ok || p != nil {
		t.Errorf("Get = %v, %v, %v; want miss", p, ok, err)
	}
}

func TestGeocodeCache_RoundTrip_RebuildsMapURL(t *testing.T) {
	rdb := newMemRedis()
	ctx := context.Background()

	old := rediscache.NewGeocodeCache(rdb, mapURL("old-key"))
	point := &domain.GeoPoint{Lat: 48.85, Lon: 2.35, MapURL: "https://maps.test/?apiKey=old-key"}
	if err := old.Set(ctx, "geocode:paris", point, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if strings.Contains(rdb.items["geocode:paris"], "old-key") {
		t.Errorf("stored value leaks the map URL: %s", rdb.items["geocode:paris"])
	}
	if rdb.ttls["geocode:paris"] != time.Hour {
		t.Errorf("ttl = %v, want 1h", rdb.ttls["geocode:paris"])
	}

	rotated := rediscache.NewGeocodeCache(rdb, mapURL("new-key"))
	got, ok, err := rotated.Get(ctx, "geocode:paris")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v; want hit", ok, err)
	}
	if got.Lat != 48.85 || got.Lon != 2.35 {
		t.Errorf("point = %+v", got)
	}
	if !strings.Contains(got.MapURL, "apiKey=new-key") {
		t.Errorf("map url = %q, want current key", got.MapURL)
	}
}

func TestGeocodeCache_CorruptEntry_ReturnsError(t *testing.T) {
	rdb := newMemRedis()
	rdb.items["geocode:paris"] = "not json"
	c := rediscache.NewGeocodeCache(rdb, mapURL("k"))

	if _, _, err := c.Get(context.Background(), "geocode:paris"); err == nil {
		t.Error("expected decode error")
	}
}

func TestGeocodeCache_RedisFailure_ReturnsError(t *testing.T) {
	rdb := newMemRedis()
	rdb.getErr = errors.New("connection refused")
	c := rediscache.NewGeocodeCache(rdb, mapURL("k"))

	_, ok, err := c.Get(context.Background(), "geocode:paris")
	if err == nil || ok {
		t.Errorf("Get = %v, %v; want error", ok, err)
	}
}
