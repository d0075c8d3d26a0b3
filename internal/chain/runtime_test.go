package chain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	id  int64
	err error
}

func (p stubProvider) ChainID() (int64, error) { return p.id, p.err }

func TestActiveRuntime_BNB(t *testing.T) {
	r := NewResolver(stubProvider{id: 56})
	rt, err := r.ActiveRuntime()
	require.NoError(t, err)
	assert.Equal(t, KeyBNB, rt.Key)
	assert.Equal(t, int64(56), rt.ChainID)
}

func TestActiveRuntime_Base(t *testing.T) {
	r := NewResolver(stubProvider{id: 8453})
	rt, err := r.ActiveRuntime()
	require.NoError(t, err)
	assert.Equal(t, KeyBase, rt.Key)
}

func TestActiveRuntime_UnsupportedChain(t *testing.T) {
	// Ethereum mainnet is not a supported chain.
	r := NewResolver(stubProvider{id: 1})
	_, err := r.ActiveRuntime()
	var unsupported *UnsupportedChainError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, int64(1), unsupported.ChainID)
}

func TestActiveRuntime_NoProvider(t *testing.T) {
	r := NewResolver(nil)
	_, err := r.ActiveRuntime()
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestActiveRuntime_ProviderError(t *testing.T) {
	boom := errors.New("rpc down")
	r := NewResolver(stubProvider{err: boom})
	_, err := r.ActiveRuntime()
	assert.ErrorIs(t, err, boom)
}

func TestActiveRuntime_NotPersisted(t *testing.T) {
	// Each query re-derives the runtime from the provider.
	r := NewResolver(stubProvider{id: 56})
	rt, err := r.ActiveRuntime()
	require.NoError(t, err)
	assert.Equal(t, KeyBNB, rt.Key)

	r.SetProvider(stubProvider{id: 8453})
	rt, err = r.ActiveRuntime()
	require.NoError(t, err)
	assert.Equal(t, KeyBase, rt.Key)
}

func TestKeyForChainID(t *testing.T) {
	key, ok := KeyForChainID(56)
	assert.True(t, ok)
	assert.Equal(t, KeyBNB, key)

	_, ok = KeyForChainID(137)
	assert.False(t, ok)
}

func TestChainIDForKey_Roundtrip(t *testing.T) {
	for _, key := range []Key{KeyBNB, KeyBase} {
		id, ok := ChainIDForKey(key)
		require.True(t, ok)
		back, ok := KeyForChainID(id)
		require.True(t, ok)
		assert.Equal(t, key, back)
	}
}

func TestOnChainChanged_Notifies(t *testing.T) {
	r := NewResolver(stubProvider{id: 56})

	var got Runtime
	var gotErr error
	unsub := r.OnChainChanged(func(rt Runtime, err error) {
		got = rt
		gotErr = err
	})
	defer unsub()

	r.SetProvider(stubProvider{id: 8453})
	r.NotifyChainChanged(8453)
	require.NoError(t, gotErr)
	assert.Equal(t, KeyBase, got.Key)
}

func TestOnChainChanged_UnsupportedSurfacesError(t *testing.T) {
	r := NewResolver(stubProvider{id: 1})

	var gotErr error
	unsub := r.OnChainChanged(func(rt Runtime, err error) { gotErr = err })
	defer unsub()

	r.NotifyChainChanged(1)
	var unsupported *UnsupportedChainError
	assert.ErrorAs(t, gotErr, &unsupported)
}

func TestOnChainChanged_Unsubscribe(t *testing.T) {
	r := NewResolver(stubProvider{id: 56})

	calls := 0
	unsub := r.OnChainChanged(func(Runtime, error) { calls++ })
	r.NotifyChainChanged(56)
	assert.Equal(t, 1, calls)

	unsub()
	r.NotifyChainChanged(56)
	assert.Equal(t, 1, calls)
}

func TestOnAccountsChanged(t *testing.T) {
	r := NewResolver(nil)

	var got []string
	unsub := r.OnAccountsChanged(func(accts []string) { got = accts })
	defer unsub()

	r.NotifyAccountsChanged([]string{"0x802D8097eC1D49808F3c2c866020442891adde57"})
	require.Len(t, got, 1)
}
