package backend

import (
	"context"
	"fmt"

	"github.com/openvaults/vaultctl/internal/chain"
)

// Mirror writes record an already-mined transaction in the backend so it
// becomes queryable. The backend trusts the client-supplied txHash as-is —
// it does not verify the hash against the chain from the payload alone,
// which is a known spoofing surface on the backend's side. The client
// includes the block number it observed in the receipt to give the backend
// something to cross-check.

// DepositMirror is the payload for recording a deposit.
type DepositMirror struct {
	Chain       chain.Key `json:"chain"`
	Vault       string    `json:"vault"`
	Owner       string    `json:"owner"`
	Token       string    `json:"token"`
	AmountHuman string    `json:"amountHuman"`
	AmountRaw   string    `json:"amountRaw"`
	Decimals    int       `json:"decimals"`
	TxHash      string    `json:"txHash"`
	BlockNumber uint64    `json:"blockNumber"`
}

// WithdrawMirror is the payload for recording an exit+withdraw.
type WithdrawMirror struct {
	Chain       chain.Key `json:"chain"`
	Vault       string    `json:"vault"`
	Owner       string    `json:"owner"`
	To          string    `json:"to"`
	Tokens      []string  `json:"tokens"`
	TxHash      string    `json:"txHash"`
	BlockNumber uint64    `json:"blockNumber"`
}

// ConfigMirror is the payload for recording a config change. Kind selects
// the endpoint: "daily-harvest", "compound" or "reward-swap".
type ConfigMirror struct {
	Chain       chain.Key `json:"chain"`
	Vault       string    `json:"vault"`
	Owner       string    `json:"owner"`
	Enabled     bool      `json:"enabled"`
	CooldownSec string    `json:"cooldownSec,omitempty"`
	RewardToken string    `json:"rewardToken,omitempty"`
	OutToken    string    `json:"outToken,omitempty"`
	PoolFee     string    `json:"poolFee,omitempty"`
	TxHash      string    `json:"txHash"`
	BlockNumber uint64    `json:"blockNumber"`
}

// VaultCreatedMirror is the payload for recording a vault deployment.
type VaultCreatedMirror struct {
	Chain       chain.Key `json:"chain"`
	Vault       string    `json:"vault"`
	Owner       string    `json:"owner"`
	StrategyID  string    `json:"strategyId"`
	TxHash      string    `json:"txHash"`
	BlockNumber uint64    `json:"blockNumber"`
	// Resolution is "resolved" when the vault address came from the
	// deployment log and "fell-back" when it was recovered from the
	// owner's vault list.
	Resolution string `json:"resolution"`
}

// RecordDeposit mirrors a mined deposit.
func (c *Client) RecordDeposit(ctx context.Context, m *DepositMirror) error {
	path := fmt.Sprintf("/vaults/%s/events/deposit", m.Vault)
	return c.postAuthed(ctx, path, m, nil)
}

// RecordWithdraw mirrors a mined exit+withdraw.
func (c *Client) RecordWithdraw(ctx context.Context, m *WithdrawMirror) error {
	path := fmt.Sprintf("/vaults/%s/events/withdraw", m.Vault)
	return c.postAuthed(ctx, path, m, nil)
}

// RecordConfigChange mirrors a mined config update.
func (c *Client) RecordConfigChange(ctx context.Context, kind string, m *ConfigMirror) error {
	path := fmt.Sprintf("/vaults/%s/config/%s", m.Vault, kind)
	return c.postAuthed(ctx, path, m, nil)
}

// RecordVaultCreated mirrors a vault deployment.
func (c *Client) RecordVaultCreated(ctx context.Context, m *VaultCreatedMirror) error {
	return c.postAuthed(ctx, "/vaults/create-client-vault", m, nil)
}

// --- admin ---

// AllowlistRequest asks the backend to allowlist an address on the
// protocol fee collector (admin bearer required).
type AllowlistRequest struct {
	Chain   chain.Key `json:"chain"`
	Address string    `json:"address"`
	Allowed bool      `json:"allowed"`
}

// AdminSetAllowlisted records an allowlist toggle.
func (c *Client) AdminSetAllowlisted(ctx context.Context, req *AllowlistRequest) error {
	return c.postAuthed(ctx, "/admin/allowlist", req, nil)
}

// AdminCreateFactory asks the backend to deploy and register a new factory.
func (c *Client) AdminCreateFactory(ctx context.Context, key chain.Key) error {
	body := map[string]string{"chain": string(key)}
	return c.postAuthed(ctx, "/admin/factories", body, nil)
}
