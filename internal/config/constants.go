package config

import "time"

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the tx.
// These are conservative upper bounds; actual gas used will be lower.
const (
	GasLimitTokenTransfer = uint64(80_000)  // ERC-20 transfer into a vault
	GasLimitVaultCall     = uint64(600_000) // vault mutation (open/rebalance/exit)
	GasLimitFactoryCall   = uint64(900_000) // vault deployment through the factory
)

// Timeout constants used across cmd and the orchestrator.
const (
	TxConfirmTimeout = 3 * time.Minute // receipt wait; the tx itself is never cancelled
	BackendTimeout   = 15 * time.Second
)

const (
	// DefaultBackendURL is the path-routed gateway in front of the api-lp,
	// signals and market-data services.
	DefaultBackendURL = "https://api.openvaults.fi"

	defaultChain = "bnb"

	configFile  = "config.json"
	walletsFile = "wallets.json"
	lastTxFile  = "lasttx.json"
)

// DefaultRPCs maps each supported chain key to a public JSON-RPC endpoint.
// Overridable per chain in config.json; the same URL serves reads and
// transaction submission unless a read-only override is set.
var DefaultRPCs = map[string]string{
	"bnb":  "https://bsc-dataseed.bnbchain.org",
	"base": "https://mainnet.base.org",
}
