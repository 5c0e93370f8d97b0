// Package geo resolves a best-effort device location. Resolution failure is
// never fatal: callers always get a usable Location, falling back to the
// sentinel value.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"safyra/internal/domain/checkin"
	"safyra/internal/infrastructure/config"
	"safyra/internal/shared/biztime"
	"safyra/internal/shared/logger"
)

const (
	// Maximum response body size for the geolocation API (64KB)
	maxGeoResponseSize = 64 << 10
	// Cache duration mirrors the original's 5-minute maximumAge
	cacheDuration = 5 * time.Minute
)

// Provider resolves the current device location.
type Provider interface {
	// Resolve returns the best-effort location. Implementations must not
	// return an error together with a zero Location; on failure they return
	// the sentinel location and a nil error, logging the cause.
	Resolve(ctx context.Context) checkin.Location
}

// geoResponse is the wire form of the geolocation endpoint reply.
type geoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

// HTTPProvider queries a configured geolocation endpoint with a short
// timeout and caches the result.
type HTTPProvider struct {
	endpoint   string
	httpClient *http.Client
	logger     logger.Interface

	mu        sync.RWMutex
	cached    checkin.Location
	cachedAt  time.Time
	hasCached bool
}

func NewHTTPProvider(cfg *config.GeoConfig, log logger.Interface) *HTTPProvider {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPProvider{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

var _ Provider = (*HTTPProvider)(nil)

// Resolve queries the geolocation endpoint. Any failure falls back to the
// sentinel location so the calling operation proceeds degraded.
func (p *HTTPProvider) Resolve(ctx context.Context) checkin.Location {
	if p.endpoint == "" {
		return checkin.SentinelLocation()
	}

	now := biztime.NowUTC()

	p.mu.RLock()
	if p.hasCached && now.Sub(p.cachedAt) < cacheDuration {
		loc := p.cached
		p.mu.RUnlock()
		return loc
	}
	p.mu.RUnlock()

	loc, err := p.fetch(ctx)
	if err != nil {
		p.logger.Warnw("geolocation lookup failed, using sentinel location", "error", err)
		return checkin.SentinelLocation()
	}

	p.mu.Lock()
	p.cached = loc
	p.cachedAt = now
	p.hasCached = true
	p.mu.Unlock()

	return loc
}

func (p *HTTPProvider) fetch(ctx context.Context) (checkin.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return checkin.Location{}, fmt.Errorf("failed to build geolocation request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return checkin.Location{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return checkin.Location{}, fmt.Errorf("geolocation endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGeoResponseSize))
	if err != nil {
		return checkin.Location{}, fmt.Errorf("failed to read geolocation response: %w", err)
	}

	var geo geoResponse
	if err := json.Unmarshal(body, &geo); err != nil {
		return checkin.Location{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	address := fmt.Sprintf("%.4f, %.4f", geo.Latitude, geo.Longitude)
	if geo.City != "" && geo.Country != "" {
		address = fmt.Sprintf("%s, %s", geo.City, geo.Country)
	}

	return checkin.Location{
		Latitude:  geo.Latitude,
		Longitude: geo.Longitude,
		Address:   address,
	}, nil
}

// StaticProvider always returns a fixed location. Used in tests and as the
// disabled-lookup fallback.
type StaticProvider struct {
	Location checkin.Location
}

var _ Provider = (*StaticProvider)(nil)

func (p *StaticProvider) Resolve(ctx context.Context) checkin.Location {
	return p.Location
}
