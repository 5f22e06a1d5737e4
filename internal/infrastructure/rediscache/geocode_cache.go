package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/redis/go-redis/v9"
)

// cachedPoint holds coordinates only. The map URL embeds the API key and is
// rebuilt on every hit so a rotated key takes effect immediately.
type cachedPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeocodeCache keeps geocoder answers as JSON strings with a TTL.
type GeocodeCache struct {
	client redis.Cmdable
	mapURL func(lat, lon float64) string
}

func NewGeocodeCache(client redis.Cmdable, mapURL func(lat, lon float64) string) *GeocodeCache {
	return &GeocodeCache{client: client, mapURL: mapURL}
}

func (c *GeocodeCache) Get(ctx context.Context, key string) (*domain.GeoPoint, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var p cachedPoint
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("decode cached point: %w", err)
	}
	return &domain.GeoPoint{Lat: p.Lat, Lon: p.Lon, MapURL: c.mapURL(p.Lat, p.Lon)}, true, nil
}

func (c *GeocodeCache) Set(ctx context.Context, key string, point *domain.GeoPoint, ttl time.Duration) error {
	raw, err := json.Marshal(cachedPoint{Lat: point.Lat, Lon: point.Lon})
	if err != nil {
		return fmt.Errorf("encode point: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
