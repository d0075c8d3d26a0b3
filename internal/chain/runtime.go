package chain

import (
	"sync"
)

// Key identifies a supported logical chain.
type Key string

// Supported chain keys.
const (
	KeyBNB  Key = "bnb"
	KeyBase Key = "base"
)

// chainKeys maps a wallet-reported chain id to its chain key. Each id maps
// to exactly one key; an unmapped id is fatal for chain-dependent operations.
var chainKeys = map[int64]Key{
	56:   KeyBNB,
	8453: KeyBase,
}

// Runtime is the currently connected network, derived from the provider's
// reported chain id. Never persisted; re-derived on every query.
type Runtime struct {
	Key     Key
	ChainID int64
}

// KeyForChainID maps a chain id to its chain key.
func KeyForChainID(id int64) (Key, bool) {
	k, ok := chainKeys[id]
	return k, ok
}

// ChainIDForKey is the inverse mapping.
func ChainIDForKey(key Key) (int64, bool) {
	for id, k := range chainKeys {
		if k == key {
			return id, true
		}
	}
	return 0, false
}

// NetworkProvider reports the connected network's chain id.
type NetworkProvider interface {
	ChainID() (int64, error)
}

// Resolver derives the active Runtime from a wallet provider and fans out
// network/account change notifications. Safe for concurrent use.
type Resolver struct {
	mu       sync.Mutex
	provider NetworkProvider
	nextID   int
	chainCbs map[int]func(Runtime, error)
	acctCbs  map[int]func([]string)
}

// NewResolver creates a Resolver. provider may be nil (not yet connected).
func NewResolver(provider NetworkProvider) *Resolver {
	return &Resolver{
		provider: provider,
		chainCbs: make(map[int]func(Runtime, error)),
		acctCbs:  make(map[int]func([]string)),
	}
}

// SetProvider swaps the wallet provider (connect/disconnect).
func (r *Resolver) SetProvider(p NetworkProvider) {
	r.mu.Lock()
	r.provider = p
	r.mu.Unlock()
}

// ActiveRuntime reads the provider's reported chain id and maps it to a
// supported chain key. Returns ErrNoProvider when disconnected and
// *UnsupportedChainError for an unmapped chain id.
func (r *Resolver) ActiveRuntime() (Runtime, error) {
	r.mu.Lock()
	p := r.provider
	r.mu.Unlock()

	if p == nil {
		return Runtime{}, ErrNoProvider
	}
	id, err := p.ChainID()
	if err != nil {
		return Runtime{}, err
	}
	key, ok := KeyForChainID(id)
	if !ok {
		return Runtime{}, &UnsupportedChainError{ChainID: id}
	}
	return Runtime{Key: key, ChainID: id}, nil
}

// OnChainChanged registers cb to be invoked with the re-derived runtime
// whenever the network changes. Returns an unsubscribe func. Callbacks may
// fire after the caller has moved on; callers guard with their own liveness
// flag.
func (r *Resolver) OnChainChanged(cb func(Runtime, error)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.chainCbs[id] = cb
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.chainCbs, id)
		r.mu.Unlock()
	}
}

// OnAccountsChanged registers cb for account-switch notifications.
// Returns an unsubscribe func.
func (r *Resolver) OnAccountsChanged(cb func([]string)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.acctCbs[id] = cb
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.acctCbs, id)
		r.mu.Unlock()
	}
}

// NotifyChainChanged re-derives the runtime for the new chain id and fans
// it out to chain-change subscribers.
func (r *Resolver) NotifyChainChanged(chainID int64) {
	rt := Runtime{ChainID: chainID}
	var err error
	key, ok := KeyForChainID(chainID)
	if ok {
		rt.Key = key
	} else {
		err = &UnsupportedChainError{ChainID: chainID}
	}

	r.mu.Lock()
	cbs := make([]func(Runtime, error), 0, len(r.chainCbs))
	for _, cb := range r.chainCbs {
		cbs = append(cbs, cb)
	}
	r.mu.Unlock()

	for _, cb := range cbs {
		cb(rt, err)
	}
}

// NotifyAccountsChanged fans out an account switch to subscribers.
func (r *Resolver) NotifyAccountsChanged(accounts []string) {
	r.mu.Lock()
	cbs := make([]func([]string), 0, len(r.acctCbs))
	for _, cb := range r.acctCbs {
		cbs = append(cbs, cb)
	}
	r.mu.Unlock()

	for _, cb := range cbs {
		cb(accounts)
	}
}
