// Package geo adapts the core's Geocoder port. The coordinate geocoder parses
// "lat,lon" address strings; the caching decorator keeps resolved addresses in
// a TTL cache so repeated placements for the same address skip the resolver.
package geo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/patrickmn/go-cache"
)

// ErrUnresolvableAddress wraps every address the geocoder cannot turn into
// coordinates.
var ErrUnresolvableAddress = fmt.Errorf("address cannot be resolved to coordinates")

// CoordinateGeocoder resolves addresses of the form "lat,lon" (signed decimal
// degrees). Anything else fails with ErrUnresolvableAddress.
type CoordinateGeocoder struct{}

// NewCoordinateGeocoder creates the parser-backed geocoder.
func NewCoordinateGeocoder() CoordinateGeocoder {
	return CoordinateGeocoder{}
}

// Geocode parses the address into a GeoPoint.
func (CoordinateGeocoder) Geocode(_ context.Context, address string) (kernel.GeoPoint, error) {
	parts := strings.Split(address, ",")
	if len(parts) != 2 {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %q", ErrUnresolvableAddress, address)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %q", ErrUnresolvableAddress, address)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %q", ErrUnresolvableAddress, address)
	}

	p, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %q: %w", ErrUnresolvableAddress, address, err)
	}

	return p, nil
}

// CachingGeocoder decorates a Geocoder with a TTL cache keyed by the raw
// address text. Failed resolutions are not cached.
type CachingGeocoder struct {
	inner ports.Geocoder
	cache *cache.Cache
}

// NewCachingGeocoder wraps inner with a cache holding entries for ttl.
func NewCachingGeocoder(inner ports.Geocoder, ttl time.Duration) *CachingGeocoder {
	return &CachingGeocoder{
		inner: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Geocode resolves the address, consulting the cache first.
func (g *CachingGeocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	if cached, ok := g.cache.Get(address); ok {
		return cached.(kernel.GeoPoint), nil
	}

	p, err := g.inner.Geocode(ctx, address)
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	g.cache.SetDefault(address, p)
	return p, nil
}
