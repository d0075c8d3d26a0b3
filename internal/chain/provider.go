package chain

import (
	"fmt"
	"sync"
)

// ReadProviders caches read-only EVM clients keyed by "chainKey:rpcURL".
// Reads and receipt polling go through these, never through the wallet's
// submission endpoint: embedded wallet providers have proven unreliable for
// receipt retrieval right after submission. A receipt observed here is
// authoritative even if the wallet UI lags.
type ReadProviders struct {
	mu      sync.Mutex
	clients map[string]*EVMClient
}

// NewReadProviders creates an empty read-provider cache.
func NewReadProviders() *ReadProviders {
	return &ReadProviders{clients: make(map[string]*EVMClient)}
}

// Get returns the cached read client for (key, rpcURL), creating it on
// first use.
func (p *ReadProviders) Get(key Key, rpcURL string) *EVMClient {
	cacheKey := fmt.Sprintf("%s:%s", key, rpcURL)

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[cacheKey]; ok {
		return c
	}
	c := NewEVMClient(rpcURL)
	p.clients[cacheKey] = c
	return c
}

// Clear drops all cached clients (chain or account switch).
func (p *ReadProviders) Clear() {
	p.mu.Lock()
	p.clients = make(map[string]*EVMClient)
	p.mu.Unlock()
}
