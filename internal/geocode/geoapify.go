package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.geoapify.com"
	DefaultMapsURL = "https://maps.geoapify.com/v1/staticmap"

	mapRadiusMeters = 1000
	mapZoom         = 14
)

// Client is a Geoapify geocoding client.
type Client struct {
	http    *http.Client
	apiKey  string
	baseURL string
	mapsURL string
}

func NewClient(httpClient *http.Client, apiKey, baseURL, mapsURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if mapsURL == "" {
		mapsURL = DefaultMapsURL
	}
	return &Client{http: httpClient, apiKey: apiKey, baseURL: baseURL, mapsURL: mapsURL}
}

type searchResponse struct {
	Features []struct {
		Properties struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves query to the first matching feature. Any failure of the
// remote side, including an empty result, wraps domain.ErrUpstream.
func (c *Client) Geocode(ctx context.Context, query string) (point *domain.GeoPoint, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.UpstreamRequestDuration.WithLabelValues("geoapify", outcome).Observe(time.Since(start).Seconds())
	}()

	q := url.Values{}
	q.Set("text", query)
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/geocode/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: geocode request: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: geocoder returned status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode geocode response: %v", domain.ErrUpstream, err)
	}
	if len(body.Features) == 0 {
		return nil, fmt.Errorf("%w: unable to fetch geocode data", domain.ErrUpstream)
	}

	p := body.Features[0].Properties
	return &domain.GeoPoint{Lat: p.Lat, Lon: p.Lon, MapURL: c.StaticMapURL(p.Lat, p.Lon)}, nil
}

// StaticMapURL renders a 600x300 map centred on the point with a 1 km circle and a marker.
func (c *Client) StaticMapURL(lat, lon float64) string {
	lonlat := "lonlat:" + formatCoord(lon) + "," + formatCoord(lat)

	q := url.Values{}
	q.Set("style", "osm-carto")
	q.Set("width", "600")
	q.Set("height", "300")
	q.Set("center", lonlat)
	q.Set("zoom", strconv.Itoa(mapZoom))
	q.Set("circle", lonlat+";radius:"+strconv.Itoa(mapRadiusMeters)+";fillcolor:#0066ff33;strokecolor:#0066ff")
	q.Set("marker", lonlat+";color:#ff0000")
	q.Set("apiKey", c.apiKey)
	return c.mapsURL + "?" + q.Encode()
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
