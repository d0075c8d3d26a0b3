package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvaults/vaultctl/internal/chain"
)

func validRegistry(key chain.Key) *Registry {
	return &Registry{
		ChainKey:             key,
		StrategyFactory:      "0x1111111111111111111111111111111111111111",
		VaultFactory:         "0x2222222222222222222222222222222222222222",
		ProtocolFeeCollector: "0x3333333333333333333333333333333333333333",
		VaultFeeBuffer:       "0x4444444444444444444444444444444444444444",
	}
}

// countingFetcher serves canned registries and counts fetches. An optional
// gate blocks every fetch until released, to force overlap.
type countingFetcher struct {
	fetches atomic.Int64
	gate    chan struct{}
	reply   func(key chain.Key) (*Registry, error)
}

func (f *countingFetcher) FetchRegistry(ctx context.Context, key chain.Key) (*Registry, error) {
	f.fetches.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.reply != nil {
		return f.reply(key)
	}
	return validRegistry(key), nil
}

func TestLoad_FetchesOnceThenCaches(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f)

	reg, err := c.Load(context.Background(), chain.KeyBNB)
	require.NoError(t, err)
	assert.Equal(t, chain.KeyBNB, reg.ChainKey)

	_, err = c.Load(context.Background(), chain.KeyBNB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.fetches.Load())
}

func TestLoad_ConcurrentCallsCoalesce(t *testing.T) {
	f := &countingFetcher{gate: make(chan struct{})}
	c := NewCache(f)

	const n = 25
	var wg sync.WaitGroup
	results := make([]*Registry, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Load(context.Background(), chain.KeyBNB)
		}(i)
	}

	// Let every goroutine reach Load before releasing the single fetch.
	time.Sleep(50 * time.Millisecond)
	close(f.gate)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
	}
	assert.Equal(t, int64(1), f.fetches.Load(), "concurrent loads must share one fetch")
}

func TestLoad_PerChainEntries(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f)

	bnb, err := c.Load(context.Background(), chain.KeyBNB)
	require.NoError(t, err)
	base, err := c.Load(context.Background(), chain.KeyBase)
	require.NoError(t, err)

	assert.Equal(t, chain.KeyBNB, bnb.ChainKey)
	assert.Equal(t, chain.KeyBase, base.ChainKey)
	assert.Equal(t, int64(2), f.fetches.Load())
}

func TestLoad_FailedFetchNotCached(t *testing.T) {
	boom := errors.New("backend down")
	fail := true
	f := &countingFetcher{reply: func(key chain.Key) (*Registry, error) {
		if fail {
			return nil, boom
		}
		return validRegistry(key), nil
	}}
	c := NewCache(f)

	_, err := c.Load(context.Background(), chain.KeyBNB)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, c.Cached(chain.KeyBNB))

	fail = false
	reg, err := c.Load(context.Background(), chain.KeyBNB)
	require.NoError(t, err)
	assert.NotNil(t, reg)
	assert.Equal(t, int64(2), f.fetches.Load())
}

func TestLoad_InvalidRegistryNotCached(t *testing.T) {
	f := &countingFetcher{reply: func(key chain.Key) (*Registry, error) {
		return &Registry{ChainKey: key, StrategyFactory: "0xbad"}, nil
	}}
	c := NewCache(f)

	_, err := c.Load(context.Background(), chain.KeyBNB)
	var invalid *InvalidRegistryError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Fields, "strategyFactory")
	assert.Contains(t, invalid.Fields, "vaultFactory")
	assert.Nil(t, c.Cached(chain.KeyBNB))
}

func TestClear_ForcesRefetch(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f)

	_, err := c.Load(context.Background(), chain.KeyBNB)
	require.NoError(t, err)

	c.Clear(chain.KeyBNB)
	assert.Nil(t, c.Cached(chain.KeyBNB))

	_, err = c.Load(context.Background(), chain.KeyBNB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.fetches.Load())
}

func TestClear_AllKeys(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f)

	_, err := c.Load(context.Background(), chain.KeyBNB)
	require.NoError(t, err)
	_, err = c.Load(context.Background(), chain.KeyBase)
	require.NoError(t, err)

	c.Clear()
	assert.Nil(t, c.Cached(chain.KeyBNB))
	assert.Nil(t, c.Cached(chain.KeyBase))
}

func TestValidate_ReportsEveryBadField(t *testing.T) {
	r := &Registry{ChainKey: chain.KeyBNB}
	err := r.Validate()
	var invalid *InvalidRegistryError
	require.ErrorAs(t, err, &invalid)
	assert.Len(t, invalid.Fields, 4)
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validRegistry(chain.KeyBNB).Validate())
}
