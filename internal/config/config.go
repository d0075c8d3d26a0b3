package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.vaultctl.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".vaultctl")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string]string)
	}
	if cfg.ReadRPCs == nil {
		cfg.ReadRPCs = make(map[string]string)
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultBackendURL
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// RPCURL returns the transaction-submission RPC endpoint for a chain key.
func (c *Config) RPCURL(chain string) (string, error) {
	if url, ok := c.CustomRPCs[chain]; ok && url != "" {
		return url, nil
	}
	if url, ok := DefaultRPCs[chain]; ok {
		return url, nil
	}
	return "", fmt.Errorf("no RPC URL configured for chain %q", chain)
}

// ReadRPCURL returns the read-only RPC endpoint for a chain key. Falls back
// to the submission endpoint when no dedicated read endpoint is configured.
func (c *Config) ReadRPCURL(chain string) (string, error) {
	if url, ok := c.ReadRPCs[chain]; ok && url != "" {
		return url, nil
	}
	return c.RPCURL(chain)
}

// IsAdmin reports whether addr is in the configured admin allowlist.
func (c *Config) IsAdmin(addr string) bool {
	return slices.ContainsFunc(c.AdminAddrs, func(a string) bool {
		return strings.EqualFold(a, addr)
	})
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// LoadWallets reads wallets.json.
func (c *Config) LoadWallets() (*WalletsFile, error) {
	return loadJSON[WalletsFile](filepath.Join(c.configDir, walletsFile))
}

// SaveWallets writes wallets.json.
func (c *Config) SaveWallets(wf *WalletsFile) error {
	return saveJSON(filepath.Join(c.configDir, walletsFile), wf)
}

// LoadLastTx reads lasttx.json.
func (c *Config) LoadLastTx() (*LastTx, error) {
	return loadJSON[LastTx](filepath.Join(c.configDir, lastTxFile))
}

// SaveLastTx writes lasttx.json.
func (c *Config) SaveLastTx(tx *LastTx) error {
	return saveJSON(filepath.Join(c.configDir, lastTxFile), tx)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		DefaultChain: defaultChain,
		BackendURL:   DefaultBackendURL,
		CustomRPCs:   make(map[string]string),
		ReadRPCs:     make(map[string]string),
		configDir:    dir,
	}
}

func loadJSON[T any](path string) (*T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &zero, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
