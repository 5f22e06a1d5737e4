package geocode

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/metrics"
)

type Geocoder interface {
	Geocode(ctx context.Context, query string) (*domain.GeoPoint, error)
}

// Cache stores resolved points. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*domain.GeoPoint, bool, error)
	Set(ctx context.Context, key string, point *domain.GeoPoint, ttl time.Duration) error
}

// CachedGeocoder serves repeated queries from a cache. Cache failures are
// logged and fall through to the wrapped geocoder.
type CachedGeocoder struct {
	next   Geocoder
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedGeocoder(next Geocoder, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, ttl: ttl, logger: logger.With("component", "geocode_cache")}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, query string) (*domain.GeoPoint, error) {
	key := CacheKey(query)

	point, ok, err := g.cache.Get(ctx, key)
	switch {
	case err != nil:
		g.logger.WarnContext(ctx, "geocode cache get", "key", key, "error", err)
		metrics.GeocodeCacheTotal.WithLabelValues("error").Inc()
	case ok:
		metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
		return point, nil
	default:
		metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()
	}

	point, err = g.next.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := g.cache.Set(ctx, key, point, g.ttl); err != nil {
		g.logger.WarnContext(ctx, "geocode cache set", "key", key, "error", err)
	}
	return point, nil
}

// CacheKey normalizes case and whitespace so "Paris,  France" and "paris, france" share an entry.
func CacheKey(query string) string {
	return "geocode:" + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
