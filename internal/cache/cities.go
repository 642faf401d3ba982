package cache

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/lexsites/locmenu/internal/model"
)

// cityListKey is the backend cache key for the serialized city list.
const cityListKey = "city_pages"

// CityLoader produces the current city page list, typically by walking
// the Areas We Serve branch of the primary menu.
type CityLoader func(ctx context.Context) ([]model.CityPage, error)

// CityListCache provides cached access to the city page list.
// The list changes only when the primary menu is edited, so it is held
// in memory until invalidated or refreshed by the scheduler.
type CityListCache struct {
	loader  CityLoader
	backend Cacher
	mu      sync.RWMutex
	cities  []model.CityPage
	loaded  bool

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCityListCache creates a city list cache backed by loader.
func NewCityListCache(loader CityLoader) *CityListCache {
	return &CityListCache{loader: loader}
}

// NewCityListCacheWithBackend additionally writes the list through to
// a backend cache, so a Redis-backed deployment shares the list across
// instances and a restarted instance warms up without a menu walk.
func NewCityListCacheWithBackend(loader CityLoader, backend Cacher) *CityListCache {
	return &CityListCache{loader: loader, backend: backend}
}

// All returns the cached city list, loading it on first access.
func (c *CityListCache) All(ctx context.Context) ([]model.CityPage, error) {
	c.mu.RLock()
	if c.loaded {
		cities := c.cities
		c.mu.RUnlock()
		c.hits.Add(1)
		return cities, nil
	}
	c.mu.RUnlock()

	c.misses.Add(1)
	if err := c.load(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cities, nil
}

// BySlug returns the cached city with the given slug, or nil.
func (c *CityListCache) BySlug(ctx context.Context, slug string) (*model.CityPage, error) {
	cities, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cities {
		if cities[i].Slug == slug {
			return &cities[i], nil
		}
	}
	return nil, nil
}

// load fetches the list from the backend or the loader under the
// write lock.
func (c *CityListCache) load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.loaded {
		return nil
	}

	if cities, ok := c.loadFromBackend(ctx); ok {
		c.cities = cities
		c.loaded = true
		return nil
	}

	cities, err := c.loader(ctx)
	if err != nil {
		return err
	}

	c.cities = cities
	c.loaded = true
	c.storeToBackend(ctx, cities)
	return nil
}

// Invalidate clears the cache, forcing a reload on next access.
func (c *CityListCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.cities = nil
	if c.backend != nil {
		_ = c.backend.Delete(context.Background(), cityListKey)
	}
}

// Refresh reloads the list immediately, keeping the previous list on error.
func (c *CityListCache) Refresh(ctx context.Context) error {
	cities, err := c.loader(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.cities = cities
	c.loaded = true
	c.mu.Unlock()

	c.storeToBackend(ctx, cities)
	return nil
}

// loadFromBackend attempts to read the serialized list from the
// backend cache. A miss or a decode failure just falls through to the
// loader.
func (c *CityListCache) loadFromBackend(ctx context.Context) ([]model.CityPage, bool) {
	if c.backend == nil {
		return nil, false
	}
	data, err := c.backend.Get(ctx, cityListKey)
	if err != nil {
		return nil, false
	}
	var cities []model.CityPage
	if err := json.Unmarshal(data, &cities); err != nil {
		_ = c.backend.Delete(ctx, cityListKey)
		return nil, false
	}
	return cities, true
}

// storeToBackend writes the list through to the backend cache.
// Backend failures are silent; the in-memory copy stays authoritative.
func (c *CityListCache) storeToBackend(ctx context.Context, cities []model.CityPage) {
	if c.backend == nil {
		return
	}
	if data, err := json.Marshal(cities); err == nil {
		_ = c.backend.Set(ctx, cityListKey, data, 0)
	}
}

// Preload loads the list into cache. Useful for warming up on startup.
func (c *CityListCache) Preload(ctx context.Context) error {
	return c.load(ctx)
}

// Stats returns cache statistics.
func (c *CityListCache) Stats() CacheStats {
	c.mu.RLock()
	items := len(c.cities)
	c.mu.RUnlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return CacheStats{
		Hits:    hits,
		Misses:  misses,
		Items:   items,
		HitRate: hitRate,
	}
}
