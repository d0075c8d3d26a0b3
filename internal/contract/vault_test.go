package contract

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvaults/vaultctl/internal/chain"
)

const (
	testVaultAddr   = "0x2222222222222222222222222222222222222222"
	testTokenAddr   = "0x55d398326f99059fF775485246999027B3197955"
	testFactoryAddr = "0x3333333333333333333333333333333333333333"
	testOwnerAddr   = "0x802D8097eC1D49808F3c2c866020442891adde57"
)

type testSigner struct{ addr string }

func (s testSigner) SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error) {
	return []byte{0x02, 0x01, 0x02, 0x03}, nil
}
func (s testSigner) Address() string { return s.addr }

// mockRPC mimics an EVM JSON-RPC node with canned per-method responses and
// counts requests.
func mockRPC(t *testing.T, responses map[string]interface{}) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck

		resp, ok := responses[req.Method]
		if !ok {
			http.Error(w, "method not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  resp,
		})
	}))
	return server, &calls
}

func testExecutor(t *testing.T, url string) *Executor {
	t.Helper()
	client := chain.NewEVMClient(url)
	return NewExecutor(client, client, testSigner{addr: testOwnerAddr}, big.NewInt(56), 0)
}

func successReceipt() map[string]interface{} {
	return map[string]interface{}{
		"status":      "0x1",
		"blockNumber": "0x10",
		"gasUsed":     "0x5208",
		"logs":        []interface{}{},
	}
}

func TestDeposit_InvalidTokenNeverHitsNetwork(t *testing.T) {
	server, calls := mockRPC(t, nil)
	defer server.Close()

	v, err := NewVault(testExecutor(t, server.URL), testVaultAddr)
	require.NoError(t, err)

	_, err = v.Deposit("not-an-address", "10.5")
	var invalid *InvalidAddressError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, int64(0), calls.Load(), "validation failures must not reach the node")
}

func TestDeposit_InvalidAmountNeverHitsNetwork(t *testing.T) {
	server, calls := mockRPC(t, nil)
	defer server.Close()

	v, err := NewVault(testExecutor(t, server.URL), testVaultAddr)
	require.NoError(t, err)

	for _, amount := range []string{"abc", "-1", ""} {
		_, err := v.Deposit(testTokenAddr, amount)
		var invalid *InvalidAmountError
		require.ErrorAs(t, err, &invalid, "amount %q", amount)
	}
	assert.Equal(t, int64(0), calls.Load())
}

func TestNewVault_InvalidAddress(t *testing.T) {
	server, calls := mockRPC(t, nil)
	defer server.Close()

	_, err := NewVault(testExecutor(t, server.URL), "0x123")
	var invalid *InvalidAddressError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, int64(0), calls.Load())
}

func TestDeposit_ConvertsWithOnChainDecimals(t *testing.T) {
	server, _ := mockRPC(t, map[string]interface{}{
		// decimals() = 18
		"eth_call":                  "0x0000000000000000000000000000000000000000000000000000000000000012",
		"eth_estimateGas":           "0x5208",
		"eth_gasPrice":              "0x3b9aca00",
		"eth_getTransactionCount":   "0x1",
		"eth_sendRawTransaction":    "0xhash1",
		"eth_getTransactionReceipt": successReceipt(),
	})
	defer server.Close()

	v, err := NewVault(testExecutor(t, server.URL), testVaultAddr)
	require.NoError(t, err)

	res, err := v.Deposit(testTokenAddr, "10.5")
	require.NoError(t, err)
	assert.Equal(t, "10500000000000000000", res.AmountRaw.String())
	assert.Equal(t, 18, res.Decimals)
	assert.Equal(t, "0xhash1", res.TxHash)
	require.NotNil(t, res.Receipt)
	assert.Equal(t, uint64(1), res.Receipt.Status)
}

func TestExecute_RevertedCarriesHash(t *testing.T) {
	server, _ := mockRPC(t, map[string]interface{}{
		"eth_estimateGas":         "0x5208",
		"eth_gasPrice":            "0x3b9aca00",
		"eth_getTransactionCount": "0x1",
		"eth_sendRawTransaction":  "0xdeadbeef",
		"eth_getTransactionReceipt": map[string]interface{}{
			"status":      "0x0",
			"blockNumber": "0x10",
			"gasUsed":     "0x5208",
		},
	})
	defer server.Close()

	v, err := NewVault(testExecutor(t, server.URL), testVaultAddr)
	require.NoError(t, err)

	res, err := v.CollectToVault()
	var reverted *chain.TransactionRevertedError
	require.ErrorAs(t, err, &reverted)
	assert.Equal(t, "0xdeadbeef", reverted.Hash)

	// The result still carries the hash and receipt for diagnosis.
	require.NotNil(t, res)
	assert.Equal(t, "0xdeadbeef", res.TxHash)
	require.NotNil(t, res.Receipt)
	assert.Equal(t, uint64(0), res.Receipt.Status)
}

func TestOpenInitialPosition_InvalidRange(t *testing.T) {
	server, calls := mockRPC(t, nil)
	defer server.Close()

	v, err := NewVault(testExecutor(t, server.URL), testVaultAddr)
	require.NoError(t, err)

	// Lower must be strictly below upper.
	_, err = v.OpenInitialPosition(100, 100)
	require.Error(t, err)
	_, err = v.OpenInitialPosition(200, 100)
	require.Error(t, err)
	assert.Equal(t, int64(0), calls.Load())
}

func TestSwapExactIn_ValidatesAllFields(t *testing.T) {
	server, calls := mockRPC(t, nil)
	defer server.Close()

	v, err := NewVault(testExecutor(t, server.URL), testVaultAddr)
	require.NoError(t, err)

	// Bad pool fee (uint24 overflow).
	_, err = v.SwapExactIn(testTokenAddr, testVaultAddr, "16777216", "1000", "900", "0")
	var num *InvalidNumberError
	require.ErrorAs(t, err, &num)

	// Bad token out.
	_, err = v.SwapExactIn(testTokenAddr, "nope", "2500", "1000", "900", "0")
	var addr *InvalidAddressError
	require.ErrorAs(t, err, &addr)

	assert.Equal(t, int64(0), calls.Load())
}
