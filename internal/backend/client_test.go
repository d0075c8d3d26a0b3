package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvaults/vaultctl/internal/chain"
)

const testOwner = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

type fakeSigner struct {
	addr   string
	signed [][]byte
}

func (f *fakeSigner) SignMessage(msg []byte) ([]byte, error) {
	f.signed = append(f.signed, msg)
	return bytes.Repeat([]byte{0xab}, 65), nil
}

func (f *fakeSigner) Address() string { return f.addr }

// authServer wires the challenge/login endpoints around mux and counts
// logins. Issued tokens carry the given expiry.
func authServer(t *testing.T, mux *http.ServeMux, exp time.Time) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var logins atomic.Int64

	mux.HandleFunc("/auth/challenge", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testOwner, r.URL.Query().Get("address"))
		json.NewEncoder(w).Encode(map[string]string{"message": "sign in to openvaults: nonce-1"}) //nolint:errcheck
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, testOwner, body["address"])
		assert.Equal(t, "sign in to openvaults: nonce-1", body["message"])
		assert.Equal(t, "0x"+strings.Repeat("ab", 65), body["signature"])

		logins.Add(1)
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": testOwner,
			"exp": exp.Unix(),
		})
		signed, err := tok.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		json.NewEncoder(w).Encode(map[string]string{"token": signed}) //nolint:errcheck
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &logins
}

func TestFetchRegistry_DecodesAndPassesChain(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/contracts/registry", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bnb", r.URL.Query().Get("chain"))
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"chain":                "bnb",
			"strategyFactory":      "0x1111111111111111111111111111111111111111",
			"vaultFactory":         "0x2222222222222222222222222222222222222222",
			"protocolFeeCollector": "0x3333333333333333333333333333333333333333",
			"vaultFeeBuffer":       "0x4444444444444444444444444444444444444444",
			"adapters": []map[string]string{
				{"name": "pancake-v3", "address": "0x5555555555555555555555555555555555555555"},
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	reg, err := c.FetchRegistry(context.Background(), chain.KeyBNB)
	require.NoError(t, err)
	assert.Equal(t, chain.KeyBNB, reg.ChainKey)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", reg.VaultFactory)
	require.Len(t, reg.Adapters, 1)
	assert.Equal(t, "pancake-v3", reg.Adapters[0].Name)
}

func TestGetVaultStatus_RequestShape(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vaults/0xdeadbeef/status", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "base", r.URL.Query().Get("chain"))
		json.NewEncoder(w).Encode(VaultStatus{ //nolint:errcheck
			Vault:     "0xdeadbeef",
			Chain:     "base",
			TickLower: -887220,
			TickUpper: 887220,
			InRange:   true,
			Holdings: []HoldingBreakdown{
				{Symbol: "USDT", AmountHuman: "10.5"},
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s, err := New(srv.URL).GetVaultStatus(context.Background(), chain.KeyBase, "0xdeadbeef")
	require.NoError(t, err)
	assert.True(t, s.InRange)
	assert.Equal(t, int32(-887220), s.TickLower)
	require.Len(t, s.Holdings, 1)
	assert.Equal(t, "USDT", s.Holdings[0].Symbol)
}

func TestListUserEvents_Paging(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vaults/0xvault/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("perPage"))
		json.NewEncoder(w).Encode(EventPage{ //nolint:errcheck
			Events:  []UserEvent{{EventType: "deposit", TxHash: "0xaa"}},
			Total:   51,
			Page:    2,
			PerPage: 25,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ep, err := New(srv.URL).ListUserEvents(context.Background(), chain.KeyBNB, "0xvault", 2, 25)
	require.NoError(t, err)
	assert.Equal(t, 51, ep.Total)
	require.Len(t, ep.Events, 1)
	assert.Equal(t, "deposit", ep.Events[0].EventType)
}

func TestAPIError_CarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "vault not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetVaultStatus(context.Background(), chain.KeyBNB, "0xmissing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "vault not found")
}

func TestAPIError_EmptyBodyUsesStatusText(t *testing.T) {
	err := &APIError{Status: http.StatusServiceUnavailable}
	assert.Contains(t, err.Error(), "Service Unavailable")
}

func TestAuthedWrite_NoSignerFailsFast(t *testing.T) {
	var hit atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL) // no WithSigner
	err := c.RecordDeposit(context.Background(), &DepositMirror{Vault: "0xvault"})
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Equal(t, int64(0), hit.Load())
}

func TestRecordDeposit_LoginFlowAndBearer(t *testing.T) {
	mux := http.NewServeMux()
	srv, logins := authServer(t, mux, time.Now().Add(time.Hour))

	var gotAuth string
	var gotBody DepositMirror
	mux.HandleFunc("/vaults/0xvault/events/deposit", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	})

	signer := &fakeSigner{addr: testOwner}
	c := New(srv.URL, WithSigner(signer))

	err := c.RecordDeposit(context.Background(), &DepositMirror{
		Chain:       chain.KeyBNB,
		Vault:       "0xvault",
		Owner:       testOwner,
		Token:       "0x55d398326f99059fF775485246999027B3197955",
		AmountHuman: "10.5",
		AmountRaw:   "10500000000000000000",
		Decimals:    18,
		TxHash:      "0xhash1",
		BlockNumber: 42,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), logins.Load())
	require.Len(t, signer.signed, 1)
	assert.Equal(t, "sign in to openvaults: nonce-1", string(signer.signed[0]))

	token, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, gotAuth)

	assert.Equal(t, "10500000000000000000", gotBody.AmountRaw)
	assert.Equal(t, uint64(42), gotBody.BlockNumber)
	assert.Equal(t, "0xhash1", gotBody.TxHash)
}

func TestToken_CachedAcrossCalls(t *testing.T) {
	mux := http.NewServeMux()
	srv, logins := authServer(t, mux, time.Now().Add(time.Hour))
	mux.HandleFunc("/vaults/0xvault/events/withdraw", func(w http.ResponseWriter, r *http.Request) {})

	c := New(srv.URL, WithSigner(&fakeSigner{addr: testOwner}))
	for i := 0; i < 3; i++ {
		require.NoError(t, c.RecordWithdraw(context.Background(), &WithdrawMirror{Vault: "0xvault"}))
	}
	assert.Equal(t, int64(1), logins.Load())
}

func TestToken_ExpiredTriggersRelogin(t *testing.T) {
	mux := http.NewServeMux()
	// Expiry inside the slack window, so the cached token is never reused.
	srv, logins := authServer(t, mux, time.Now().Add(5*time.Second))
	mux.HandleFunc("/vaults/0xvault/events/withdraw", func(w http.ResponseWriter, r *http.Request) {})

	c := New(srv.URL, WithSigner(&fakeSigner{addr: testOwner}))
	require.NoError(t, c.RecordWithdraw(context.Background(), &WithdrawMirror{Vault: "0xvault"}))
	require.NoError(t, c.RecordWithdraw(context.Background(), &WithdrawMirror{Vault: "0xvault"}))
	assert.Equal(t, int64(2), logins.Load())
}

func TestRecordConfigChange_KindSelectsPath(t *testing.T) {
	mux := http.NewServeMux()
	srv, _ := authServer(t, mux, time.Now().Add(time.Hour))

	var hitPath string
	mux.HandleFunc("/vaults/0xvault/config/", func(w http.ResponseWriter, r *http.Request) {
		hitPath = r.URL.Path
	})

	c := New(srv.URL, WithSigner(&fakeSigner{addr: testOwner}))
	err := c.RecordConfigChange(context.Background(), "reward-swap", &ConfigMirror{
		Chain: chain.KeyBNB,
		Vault: "0xvault",
	})
	require.NoError(t, err)
	assert.Equal(t, "/vaults/0xvault/config/reward-swap", hitPath)
}

func TestAdminSetAllowlisted_RequestShape(t *testing.T) {
	mux := http.NewServeMux()
	srv, _ := authServer(t, mux, time.Now().Add(time.Hour))

	var got AllowlistRequest
	mux.HandleFunc("/admin/allowlist", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	})

	c := New(srv.URL, WithSigner(&fakeSigner{addr: testOwner}))
	err := c.AdminSetAllowlisted(context.Background(), &AllowlistRequest{
		Chain:   chain.KeyBase,
		Address: testOwner,
		Allowed: true,
	})
	require.NoError(t, err)
	assert.Equal(t, chain.KeyBase, got.Chain)
	assert.True(t, got.Allowed)
}

func TestTokenExpiry_UnparsableGetsShortLifetime(t *testing.T) {
	exp := tokenExpiry("not-a-jwt")
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, time.Minute)
}
