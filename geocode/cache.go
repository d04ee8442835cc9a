package geocode

import (
	"context"
	"sync"
)

// CachedGeocoder wraps a Geocoder with an in-memory cache. Campus location
// names are a small, highly repetitive set, so a plain map suffices.
type CachedGeocoder struct {
	inner Geocoder

	mu      sync.Mutex
	entries map[string]Result
}

// NewCachedGeocoder creates a cache decorator around a geocoder
func NewCachedGeocoder(inner Geocoder) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		entries: make(map[string]Result),
	}
}

// ForwardGeocode resolves through the cache
func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, query string) (Result, error) {
	c.mu.Lock()
	cached, ok := c.entries[query]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	result, err := c.inner.ForwardGeocode(ctx, query)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result.FormattedAddress != "" {
		c.mu.Lock()
		c.entries[query] = result
		c.mu.Unlock()
	}
	return result, nil
}
