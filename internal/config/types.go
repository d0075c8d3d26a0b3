package config

// Config holds all vaultctl configuration.
type Config struct {
	DefaultChain  string            `json:"default_chain"`
	DefaultWallet string            `json:"default_wallet"`
	BackendURL    string            `json:"backend_url"`
	CustomRPCs    map[string]string `json:"custom_rpcs"`     // chain key → RPC URL
	ReadRPCs      map[string]string `json:"read_rpcs"`       // chain key → read-only RPC URL
	AdminAddrs    []string          `json:"admin_addresses"` // addresses allowed to run admin commands

	// internal: config dir path used for Save()
	configDir string
}

// Wallet represents a stored wallet entry.
type Wallet struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Type      string `json:"type"`              // "watch-only" | "signing"
	KeyRef    string `json:"key_ref,omitempty"` // keychain reference for signing wallets
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
}

// WalletsFile is the structure of wallets.json.
type WalletsFile struct {
	Wallets []Wallet `json:"wallets"`
}

// LastTx is the persisted record of the most recent transaction, kept
// so the user can inspect it after the command exits.
type LastTx struct {
	Action      string `json:"action"`
	Chain       string `json:"chain"`
	Hash        string `json:"hash"`
	Status      uint64 `json:"status"`
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
	At          string `json:"at"`
}
