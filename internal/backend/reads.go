package backend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/openvaults/vaultctl/internal/chain"
	"github.com/openvaults/vaultctl/internal/registry"
)

// FetchRegistry retrieves the contract registry for a chain. Satisfies
// registry.Fetcher.
func (c *Client) FetchRegistry(ctx context.Context, key chain.Key) (*registry.Registry, error) {
	var r registry.Registry
	if err := c.get(ctx, "/contracts/registry", queryValues("chain", string(key)), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetVaultStatus reads the aggregated live view of a vault.
func (c *Client) GetVaultStatus(ctx context.Context, key chain.Key, vault string) (*VaultStatus, error) {
	var s VaultStatus
	path := fmt.Sprintf("/vaults/%s/status", vault)
	if err := c.get(ctx, path, queryValues("chain", string(key)), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetVaultPerformance reads the accounting view of a vault.
func (c *Client) GetVaultPerformance(ctx context.Context, key chain.Key, vault string) (*VaultPerformance, error) {
	var p VaultPerformance
	path := fmt.Sprintf("/vaults/%s/performance", vault)
	if err := c.get(ctx, path, queryValues("chain", string(key)), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListUserEvents pages through a vault's deposit/withdraw history.
func (c *Client) ListUserEvents(ctx context.Context, key chain.Key, vault string, page, perPage int) (*EventPage, error) {
	var ep EventPage
	path := fmt.Sprintf("/vaults/%s/events", vault)
	q := queryValues(
		"chain", string(key),
		"page", strconv.Itoa(page),
		"perPage", strconv.Itoa(perPage),
	)
	if err := c.get(ctx, path, q, &ep); err != nil {
		return nil, err
	}
	return &ep, nil
}

// ListDexPools lists the backend's known pools for a chain.
func (c *Client) ListDexPools(ctx context.Context, key chain.Key) ([]DexPool, error) {
	var out struct {
		Pools []DexPool `json:"pools"`
	}
	if err := c.get(ctx, "/dex/pools", queryValues("chain", string(key)), &out); err != nil {
		return nil, err
	}
	return out.Pools, nil
}

// ListStrategyParams lists the off-chain strategy params for an owner.
func (c *Client) ListStrategyParams(ctx context.Context, key chain.Key, owner string) ([]StrategyParams, error) {
	var out struct {
		Strategies []StrategyParams `json:"strategies"`
	}
	q := queryValues("chain", string(key), "owner", owner)
	if err := c.get(ctx, "/strategies/params", q, &out); err != nil {
		return nil, err
	}
	return out.Strategies, nil
}

// UpsertStrategyParams writes the off-chain strategy params record.
// Eventually consistent with the on-chain registry; no transactional link.
func (c *Client) UpsertStrategyParams(ctx context.Context, params *StrategyParams) error {
	return c.postAuthed(ctx, "/strategies/params", params, nil)
}
