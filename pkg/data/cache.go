package data

import (
	"sync"

	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

// Provider is the read contract a price store fulfils.
type Provider interface {
	// PriceSeries loads the daily series for a symbol.
	PriceSeries(symbol string) (types.PriceSeries, error)

	// Symbols lists every symbol the provider can serve.
	Symbols() ([]string, error)
}

// CachedProvider wraps another Provider with in-memory caching so repeated
// runs over the same instruments parse each CSV once. Cached series are
// copied on both store and load to keep callers from aliasing each other.
type CachedProvider struct {
	provider Provider

	mu     sync.RWMutex
	series map[string]types.PriceSeries
}

// NewCachedProvider creates a caching wrapper around the given provider.
func NewCachedProvider(provider Provider) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		series:   make(map[string]types.PriceSeries),
	}
}

// PriceSeries returns the cached series for a symbol, loading it through
// the underlying provider on first use. Errors are not cached.
func (c *CachedProvider) PriceSeries(symbol string) (types.PriceSeries, error) {
	c.mu.RLock()
	cached, ok := c.series[symbol]
	c.mu.RUnlock()
	if ok {
		return copySeries(cached), nil
	}

	loaded, err := c.provider.PriceSeries(symbol)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.series[symbol] = copySeries(loaded)
	c.mu.Unlock()
	return loaded, nil
}

// Symbols delegates to the underlying provider.
func (c *CachedProvider) Symbols() ([]string, error) {
	return c.provider.Symbols()
}

// Size returns the number of cached series.
func (c *CachedProvider) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.series)
}

// Clear removes all cached series.
func (c *CachedProvider) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = make(map[string]types.PriceSeries)
}

func copySeries(s types.PriceSeries) types.PriceSeries {
	out := make(types.PriceSeries, len(s))
	copy(out, s)
	return out
}
