package contract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newVaultAddr = "0x4444444444444444444444444444444444444444"

func writeResponses(extra map[string]interface{}) map[string]interface{} {
	m := map[string]interface{}{
		"eth_estimateGas":           "0x5208",
		"eth_gasPrice":              "0x3b9aca00",
		"eth_getTransactionCount":   "0x1",
		"eth_sendRawTransaction":    "0xcreatehash",
		"eth_getTransactionReceipt": successReceipt(),
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// ownerList ABI-encodes an address[] return value.
func ownerList(addrs ...string) string {
	out := "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		wordHex(int64(len(addrs)))
	for _, a := range addrs {
		out += "000000000000000000000000" + a[2:]
	}
	return out
}

func wordHex(n int64) string {
	return fmt.Sprintf("%064x", n)
}

func TestCreateVault_ResolvedFromLog(t *testing.T) {
	receipt := successReceipt()
	receipt["logs"] = []map[string]interface{}{
		{
			"address": testFactoryAddr,
			"topics": []string{
				topicVaultCreated,
				"0x000000000000000000000000802d8097ec1d49808f3c2c866020442891adde57",
			},
			"data": "0x000000000000000000000000" + newVaultAddr[2:],
		},
	}
	server, _ := mockRPC(t, writeResponses(map[string]interface{}{
		"eth_getTransactionReceipt": receipt,
	}))
	defer server.Close()

	f, err := NewFactory(testExecutor(t, server.URL), testFactoryAddr)
	require.NoError(t, err)

	res, resolution, err := f.CreateVault("7")
	require.NoError(t, err)
	assert.Equal(t, "0xcreatehash", res.TxHash)
	assert.Equal(t, Resolved, resolution.State)
	assert.Equal(t, newVaultAddr, resolution.Value)
}

func TestCreateVault_ForeignLogIgnored(t *testing.T) {
	// A VaultCreated-shaped log from a different contract must not be
	// trusted; the owner-list fallback wins instead.
	receipt := successReceipt()
	receipt["logs"] = []map[string]interface{}{
		{
			"address": "0x9999999999999999999999999999999999999999",
			"topics":  []string{topicVaultCreated},
			"data":    "0x000000000000000000000000" + newVaultAddr[2:],
		},
	}
	server, _ := mockRPC(t, writeResponses(map[string]interface{}{
		"eth_getTransactionReceipt": receipt,
		"eth_call":                  ownerList("0x5555555555555555555555555555555555555555"),
	}))
	defer server.Close()

	f, err := NewFactory(testExecutor(t, server.URL), testFactoryAddr)
	require.NoError(t, err)

	_, resolution, err := f.CreateVault("7")
	require.NoError(t, err)
	assert.Equal(t, FellBack, resolution.State)
	assert.Equal(t, "0x5555555555555555555555555555555555555555", resolution.Value)
}

func TestCreateVault_FallbackToOwnerList(t *testing.T) {
	// No deployment log in the receipt: recover the address as the last
	// entry of the owner's vault list.
	server, _ := mockRPC(t, writeResponses(map[string]interface{}{
		"eth_call": ownerList(
			"0x5555555555555555555555555555555555555555",
			newVaultAddr,
		),
	}))
	defer server.Close()

	f, err := NewFactory(testExecutor(t, server.URL), testFactoryAddr)
	require.NoError(t, err)

	res, resolution, err := f.CreateVault("7")
	require.NoError(t, err)
	assert.Equal(t, "0xcreatehash", res.TxHash)
	assert.Equal(t, FellBack, resolution.State)
	assert.Equal(t, newVaultAddr, resolution.Value)
}

func TestCreateVault_UnresolvedKeepsHash(t *testing.T) {
	// No log and an empty owner list: the tx mined, so the hash must
	// survive even though the vault address is unknown.
	server, _ := mockRPC(t, writeResponses(map[string]interface{}{
		"eth_call": ownerList(),
	}))
	defer server.Close()

	f, err := NewFactory(testExecutor(t, server.URL), testFactoryAddr)
	require.NoError(t, err)

	res, resolution, err := f.CreateVault("7")
	require.ErrorIs(t, err, ErrVaultUnresolved)
	assert.Equal(t, Unresolved, resolution.State)
	require.NotNil(t, res)
	assert.Equal(t, "0xcreatehash", res.TxHash)
}

func TestCreateVault_InvalidStrategyIDNeverHitsNetwork(t *testing.T) {
	server, calls := mockRPC(t, nil)
	defer server.Close()

	f, err := NewFactory(testExecutor(t, server.URL), testFactoryAddr)
	require.NoError(t, err)

	for _, id := range []string{"-1", "abc", "1.5", ""} {
		_, _, err := f.CreateVault(id)
		var invalid *InvalidNumberError
		require.ErrorAs(t, err, &invalid, "id %q", id)
	}
	assert.Equal(t, int64(0), calls.Load())
}

func TestNewFactory_ValidatesAddress(t *testing.T) {
	_, err := NewFactory(testExecutor(t, "http://unused"), "0xnope")
	var invalid *InvalidAddressError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "vaultFactory", invalid.Field)
}

func TestResolutionState_String(t *testing.T) {
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "fell-back", FellBack.String())
	assert.Equal(t, "unresolved", Unresolved.String())
}
