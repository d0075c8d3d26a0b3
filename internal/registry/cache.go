// Package registry caches the backend-served mapping from logical chain to
// deployed contract addresses. The backend owns the data; this cache is the
// client's single source of truth for "where are the contracts", populated
// lazily per chain and invalidated explicitly on chain or account switch.
// There is no TTL: correctness depends on invalidating at those trigger
// points (stale cross-chain addresses would direct writes at the wrong
// chain's factory).
package registry

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/openvaults/vaultctl/internal/chain"
)

// AdapterRecord is one farm adapter listed in the registry.
type AdapterRecord struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	DexRouter string `json:"dexRouter"`
}

// Registry holds the deployed contract addresses for one chain.
type Registry struct {
	ChainKey             chain.Key       `json:"chain"`
	StrategyFactory      string          `json:"strategyFactory"`
	VaultFactory         string          `json:"vaultFactory"`
	ProtocolFeeCollector string          `json:"protocolFeeCollector"`
	VaultFeeBuffer       string          `json:"vaultFeeBuffer"`
	Adapters             []AdapterRecord `json:"adapters"`
}

// InvalidRegistryError reports which required address fields were missing
// or malformed. A registry failing validation is never cached.
type InvalidRegistryError struct {
	ChainKey chain.Key
	Fields   []string
}

func (e *InvalidRegistryError) Error() string {
	return fmt.Sprintf("registry for chain %s has invalid fields: %s", e.ChainKey, strings.Join(e.Fields, ", "))
}

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Validate checks that all four required address fields are present and
// well-formed.
func (r *Registry) Validate() error {
	var bad []string
	for _, f := range []struct{ name, value string }{
		{"strategyFactory", r.StrategyFactory},
		{"vaultFactory", r.VaultFactory},
		{"protocolFeeCollector", r.ProtocolFeeCollector},
		{"vaultFeeBuffer", r.VaultFeeBuffer},
	} {
		if !addressRe.MatchString(f.value) {
			bad = append(bad, f.name)
		}
	}
	if len(bad) > 0 {
		return &InvalidRegistryError{ChainKey: r.ChainKey, Fields: bad}
	}
	return nil
}

// Fetcher retrieves a chain's registry from the backend.
type Fetcher interface {
	FetchRegistry(ctx context.Context, key chain.Key) (*Registry, error)
}

// Cache is a read-through registry cache with request coalescing: at most
// one fetch per chain key is in flight at a time, and concurrent loaders
// share its result. Failed fetches are not cached, so the next call
// retries.
type Cache struct {
	fetcher Fetcher

	mu      sync.Mutex
	entries map[chain.Key]*Registry
	group   singleflight.Group
}

// NewCache creates an empty cache backed by fetcher.
func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		entries: make(map[chain.Key]*Registry),
	}
}

// Load returns the registry for key, fetching and validating it on first
// use. Concurrent calls for the same key coalesce into a single fetch.
func (c *Cache) Load(ctx context.Context, key chain.Key) (*Registry, error) {
	c.mu.Lock()
	if r, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return r, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(string(key), func() (interface{}, error) {
		r, err := c.fetcher.FetchRegistry(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("fetching contract registry for %s: %w", key, err)
		}
		r.ChainKey = key
		if err := r.Validate(); err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = r
		c.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Registry), nil
}

// Cached is a non-blocking lookup. Returns nil when absent.
func (c *Cache) Cached(key chain.Key) *Registry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key]
}

// Clear evicts the given keys, or every entry when called with none.
// Callers MUST clear on chain switch before reloading, and on account
// switch before re-deriving the runtime.
func (c *Cache) Clear(keys ...chain.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		for k := range c.entries {
			c.group.Forget(string(k))
		}
		c.entries = make(map[chain.Key]*Registry)
		return
	}
	for _, k := range keys {
		delete(c.entries, k)
		c.group.Forget(string(k))
	}
}
