package contract

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_KnownERC20(t *testing.T) {
	// Canonical ERC-20 selectors.
	assert.Equal(t, "a9059cbb", selector("transfer(address,uint256)"))
	assert.Equal(t, "70a08231", selector("balanceOf(address)"))
	assert.Equal(t, "313ce567", selector("decimals()"))
}

func TestEventTopic_KnownTransfer(t *testing.T) {
	assert.Equal(t,
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		eventTopic("Transfer(address,address,uint256)"))
}

func TestCalldata_StaticArgs(t *testing.T) {
	to := common.HexToAddress("0x802D8097eC1D49808F3c2c866020442891adde57")
	data := calldata("transfer(address,uint256)", argAddress(to), argUint(big.NewInt(1000)))

	require.Equal(t, 2+8+64*2, len(data))
	assert.True(t, strings.HasPrefix(data, "0xa9059cbb"))
	assert.Equal(t,
		"000000000000000000000000802d8097ec1d49808f3c2c866020442891adde57",
		data[10:74])
	assert.Equal(t,
		"00000000000000000000000000000000000000000000000000000000000003e8",
		data[74:138])
}

func TestCalldata_NoArgs(t *testing.T) {
	assert.Equal(t, "0x313ce567", calldata("decimals()"))
}

func TestArgInt24_Negative(t *testing.T) {
	// -887220 two's complement in a 256-bit word: all leading f's.
	head := argInt24(-887220).head
	require.Len(t, head, 64)
	assert.True(t, strings.HasPrefix(head, "ffffffffffff"))

	// Round-trip through big.Int arithmetic.
	n, ok := new(big.Int).SetString(head, 16)
	require.True(t, ok)
	n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 256))
	assert.Equal(t, int64(-887220), n.Int64())
}

func TestArgInt24_Positive(t *testing.T) {
	head := argInt24(887220).head
	n, ok := new(big.Int).SetString(head, 16)
	require.True(t, ok)
	assert.Equal(t, int64(887220), n.Int64())
}

func TestArgBool(t *testing.T) {
	assert.Equal(t, strings.Repeat("0", 63)+"1", argBool(true).head)
	assert.Equal(t, strings.Repeat("0", 64), argBool(false).head)
}

func TestCalldata_DynamicString(t *testing.T) {
	// setName(string) with one dynamic arg: head is the offset 0x20,
	// tail is length-prefixed padded bytes.
	data := calldata("f(string)", argString("abc"))
	body := data[10:]

	// Offset word points just past the single head word.
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000000020", body[:64])
	// Length word.
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000000003", body[64:128])
	// "abc" padded to 32 bytes.
	assert.True(t, strings.HasPrefix(body[128:], "616263"))
	assert.Len(t, body, 64*3)
}

func TestCalldata_MixedStaticAndDynamic(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	data := calldata("f(address,string,string)",
		argAddress(addr), argString("ab"), argString("cdef"))
	body := data[10:]

	// Three head words: address, offset to "ab", offset to "cdef".
	require.GreaterOrEqual(t, len(body), 64*3)
	off1, ok := new(big.Int).SetString(body[64:128], 16)
	require.True(t, ok)
	off2, ok := new(big.Int).SetString(body[128:192], 16)
	require.True(t, ok)

	// First tail starts right after the heads (3 * 32 bytes).
	assert.Equal(t, int64(96), off1.Int64())
	// Second tail after the first's length word + one padded data word.
	assert.Equal(t, int64(160), off2.Int64())
}

func TestDecodeAddressSlice(t *testing.T) {
	payload := "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" + // offset
		"0000000000000000000000000000000000000000000000000000000000000002" + // length
		"000000000000000000000000802d8097ec1d49808f3c2c866020442891adde57" +
		"0000000000000000000000001111111111111111111111111111111111111111"

	addrs, err := decodeAddressSlice(payload)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "0x802D8097eC1D49808F3c2c866020442891adde57", addrs[0].Hex())
	assert.Equal(t, "0x1111111111111111111111111111111111111111", addrs[1].Hex())
}

func TestDecodeAddressSlice_Empty(t *testing.T) {
	payload := "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000000"
	addrs, err := decodeAddressSlice(payload)
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestResultWords(t *testing.T) {
	words, err := resultWords("0x" +
		"0000000000000000000000000000000000000000000000000000000000000001" +
		"000000000000000000000000802d8097ec1d49808f3c2c866020442891adde57")
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.True(t, wordToBool(words[0]))
	assert.Equal(t, "0x802D8097eC1D49808F3c2c866020442891adde57", wordToAddress(words[1]).Hex())
}

func TestTopicToAddress(t *testing.T) {
	topic := "0x000000000000000000000000802d8097ec1d49808f3c2c866020442891adde57"
	assert.Equal(t, "0x802D8097eC1D49808F3c2c866020442891adde57", topicToAddress(topic).Hex())
}
