package chain

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRPCServer creates a test HTTP server that mimics EVM JSON-RPC responses.
func mockRPCServer(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string        `json:"method"`
			Params []interface{} `json:"params"`
			ID     int           `json:"id"`
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
}

func TestChainID(t *testing.T) {
	server := mockRPCServer(t, map[string]interface{}{
		"eth_chainId": "0x38", // 56 = BNB Chain
	})
	defer server.Close()

	client := NewEVMClient(server.URL)
	id, err := client.ChainID()
	require.NoError(t, err)
	assert.Equal(t, int64(56), id)
}

func TestTokenDecimals(t *testing.T) {
	server := mockRPCServer(t, map[string]interface{}{
		"eth_call": "0x0000000000000000000000000000000000000000000000000000000000000012",
	})
	defer server.Close()

	client := NewEVMClient(server.URL)
	dec, err := client.TokenDecimals("0x55d398326f99059fF775485246999027B3197955")
	require.NoError(t, err)
	assert.Equal(t, 18, dec)
}

func TestGetTransactionReceipt_Pending(t *testing.T) {
	server := mockRPCServer(t, map[string]interface{}{
		"eth_getTransactionReceipt": nil,
	})
	defer server.Close()

	client := NewEVMClient(server.URL)
	receipt, err := client.GetTransactionReceipt("0xabc")
	require.NoError(t, err)
	assert.Nil(t, receipt)
}

func TestGetTransactionReceipt_MinedWithLogs(t *testing.T) {
	server := mockRPCServer(t, map[string]interface{}{
		"eth_getTransactionReceipt": map[string]interface{}{
			"status":      "0x1",
			"blockNumber": "0x2f9c1a",
			"gasUsed":     "0x5208",
			"logs": []map[string]interface{}{
				{
					"address": "0x1111111111111111111111111111111111111111",
					"topics":  []string{"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"},
					"data":    "0x",
				},
			},
		},
	})
	defer server.Close()

	client := NewEVMClient(server.URL)
	receipt, err := client.GetTransactionReceipt("0xabc")
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(1), receipt.Status)
	assert.Equal(t, uint64(0x2f9c1a), receipt.BlockNumber)
	assert.Equal(t, uint64(21000), receipt.GasUsed)
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", receipt.Logs[0].Address)
}

func TestWaitForReceipt_Reverted(t *testing.T) {
	server := mockRPCServer(t, map[string]interface{}{
		"eth_getTransactionReceipt": map[string]interface{}{
			"status":      "0x0",
			"blockNumber": "0x10",
			"gasUsed":     "0x5208",
		},
	})
	defer server.Close()

	client := NewEVMClient(server.URL)
	receipt, err := client.WaitForReceipt("0xdeadbeef", time.Minute)

	// The receipt survives alongside the error so the hash is never lost.
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(0), receipt.Status)

	var reverted *TransactionRevertedError
	require.ErrorAs(t, err, &reverted)
	assert.Equal(t, "0xdeadbeef", reverted.Hash)
	assert.Contains(t, err.Error(), "0xdeadbeef")
}

func TestWaitForReceipt_PendingThenMined(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		var result interface{}
		if n >= 3 {
			result = map[string]interface{}{"status": "0x1", "blockNumber": "0x10", "gasUsed": "0x5208"}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": 1, "result": result}) //nolint:errcheck
	}))
	defer server.Close()

	client := NewEVMClient(server.URL)
	receipt, err := client.waitForReceipt("0xabc", time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(1), receipt.Status)
	assert.GreaterOrEqual(t, calls.Load(), int64(3))
}

func TestWaitForReceipt_Timeout(t *testing.T) {
	server := mockRPCServer(t, map[string]interface{}{
		"eth_getTransactionReceipt": nil,
	})
	defer server.Close()

	client := NewEVMClient(server.URL)
	_, err := client.waitForReceipt("0xabc", 50*time.Millisecond, 10*time.Millisecond)

	var timeout *ReceiptTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "0xabc", timeout.Hash)
}

func TestCallContract_RPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]interface{}{"code": -32000, "message": "execution reverted"},
		})
	}))
	defer server.Close()

	client := NewEVMClient(server.URL)
	_, err := client.CallContract("0x1111111111111111111111111111111111111111", "0x313ce567")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution reverted")
}

func TestReadProviders_CachesPerChainAndURL(t *testing.T) {
	p := NewReadProviders()

	a := p.Get(KeyBNB, "http://one")
	b := p.Get(KeyBNB, "http://one")
	c := p.Get(KeyBase, "http://one")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)

	p.Clear()
	assert.NotSame(t, a, p.Get(KeyBNB, "http://one"))
}
