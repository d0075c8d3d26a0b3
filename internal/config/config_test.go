package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FreshDirGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "bnb", cfg.DefaultChain)
	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
	assert.Empty(t, cfg.DefaultWallet)
	assert.Equal(t, dir, cfg.Dir())
}

func TestLoad_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".vaultctl")
	_, err := Load(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	cfg.DefaultChain = "base"
	cfg.DefaultWallet = "dev"
	cfg.BackendURL = "http://localhost:8080"
	cfg.CustomRPCs["bnb"] = "http://localhost:8545"
	cfg.ReadRPCs["bnb"] = "http://localhost:8546"
	cfg.AdminAddrs = []string{"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"}
	require.NoError(t, cfg.Save())

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "base", got.DefaultChain)
	assert.Equal(t, "dev", got.DefaultWallet)
	assert.Equal(t, "http://localhost:8080", got.BackendURL)
	assert.Equal(t, "http://localhost:8545", got.CustomRPCs["bnb"])
	assert.Equal(t, "http://localhost:8546", got.ReadRPCs["bnb"])
}

func TestRPCURL_CustomOverridesDefault(t *testing.T) {
	cfg := defaults(t.TempDir())

	url, err := cfg.RPCURL("bnb")
	require.NoError(t, err)
	assert.Equal(t, DefaultRPCs["bnb"], url)

	cfg.CustomRPCs["bnb"] = "http://localhost:8545"
	url, err = cfg.RPCURL("bnb")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8545", url)
}

func TestRPCURL_UnknownChain(t *testing.T) {
	cfg := defaults(t.TempDir())
	_, err := cfg.RPCURL("solana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solana")
}

func TestRPCURL_EmptyCustomIgnored(t *testing.T) {
	cfg := defaults(t.TempDir())
	cfg.CustomRPCs["base"] = ""

	url, err := cfg.RPCURL("base")
	require.NoError(t, err)
	assert.Equal(t, DefaultRPCs["base"], url)
}

func TestReadRPCURL_FallsBackToSubmission(t *testing.T) {
	cfg := defaults(t.TempDir())
	cfg.CustomRPCs["bnb"] = "http://submit:8545"

	url, err := cfg.ReadRPCURL("bnb")
	require.NoError(t, err)
	assert.Equal(t, "http://submit:8545", url)

	cfg.ReadRPCs["bnb"] = "http://read:8545"
	url, err = cfg.ReadRPCURL("bnb")
	require.NoError(t, err)
	assert.Equal(t, "http://read:8545", url)
}

func TestIsAdmin_CaseInsensitive(t *testing.T) {
	cfg := defaults(t.TempDir())
	cfg.AdminAddrs = []string{"0xF39FD6E51AAD88F6F4CE6AB8827279CFFFB92266"}

	assert.True(t, cfg.IsAdmin("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"))
	assert.False(t, cfg.IsAdmin("0x2222222222222222222222222222222222222222"))
}

func TestIsAdmin_EmptyList(t *testing.T) {
	cfg := defaults(t.TempDir())
	assert.False(t, cfg.IsAdmin("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
}

func TestLastTx_RoundTrip(t *testing.T) {
	cfg := defaults(t.TempDir())

	require.NoError(t, cfg.SaveLastTx(&LastTx{
		Action:      "deposit",
		Chain:       "bnb",
		Hash:        "0xhash1",
		Status:      1,
		BlockNumber: 42,
		GasUsed:     21000,
		At:          "2026-09-01T00:00:00Z",
	}))

	got, err := cfg.LoadLastTx()
	require.NoError(t, err)
	assert.Equal(t, "deposit", got.Action)
	assert.Equal(t, "0xhash1", got.Hash)
	assert.Equal(t, uint64(42), got.BlockNumber)
}

func TestLastTx_MissingFileIsZero(t *testing.T) {
	cfg := defaults(t.TempDir())
	got, err := cfg.LoadLastTx()
	require.NoError(t, err)
	assert.Empty(t, got.Hash)
}

func TestLoad_CorruptConfigErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}
