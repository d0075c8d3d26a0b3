package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Hand-rolled ABI encoding for the handful of shapes the vault contracts
// use: scalar words plus trailing dynamic strings and address arrays.

// selector computes the 4-byte selector for a canonical signature,
// e.g. "createClientVault(uint256)".
func selector(sig string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return hex.EncodeToString(h.Sum(nil)[:4])
}

// eventTopic computes the full 32-byte topic hash for an event signature.
func eventTopic(sig string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// arg is one ABI argument: a 32-byte head word, plus a tail for dynamic
// types (the head then becomes an offset).
type arg struct {
	head string // 64 hex chars for static args
	tail string // non-empty for dynamic args
}

func argAddress(a common.Address) arg {
	return arg{head: fmt.Sprintf("%064s", strings.TrimPrefix(strings.ToLower(a.Hex()), "0x"))}
}

func argUint(n *big.Int) arg {
	return arg{head: fmt.Sprintf("%064x", n)}
}

func argBool(b bool) arg {
	if b {
		return arg{head: fmt.Sprintf("%064d", 1)}
	}
	return arg{head: fmt.Sprintf("%064d", 0)}
}

// argInt24 encodes a signed 24-bit tick as a two's-complement word.
func argInt24(v int32) arg {
	n := big.NewInt(int64(v))
	if v < 0 {
		n.Add(n, new(big.Int).Lsh(big.NewInt(1), 256))
	}
	return arg{head: fmt.Sprintf("%064x", n)}
}

func argString(s string) arg {
	var tail strings.Builder
	tail.WriteString(fmt.Sprintf("%064x", len(s)))
	data := hex.EncodeToString([]byte(s))
	tail.WriteString(data)
	if pad := len(data) % 64; pad != 0 {
		tail.WriteString(strings.Repeat("0", 64-pad))
	}
	return arg{tail: tail.String()}
}

func argAddressSlice(addrs []common.Address) arg {
	var tail strings.Builder
	tail.WriteString(fmt.Sprintf("%064x", len(addrs)))
	for _, a := range addrs {
		tail.WriteString(argAddress(a).head)
	}
	return arg{tail: tail.String()}
}

// calldata builds "0x" + selector + packed args, patching dynamic-arg
// heads with tail offsets.
func calldata(sig string, args ...arg) string {
	headSize := 32 * len(args)
	var heads, tails strings.Builder
	offset := headSize
	for _, a := range args {
		if a.tail == "" {
			heads.WriteString(a.head)
			continue
		}
		heads.WriteString(fmt.Sprintf("%064x", offset))
		tails.WriteString(a.tail)
		offset += len(a.tail) / 2
	}
	return "0x" + selector(sig) + heads.String() + tails.String()
}

// --- result decoding ---

// resultWords splits hex return data into 32-byte words.
func resultWords(hexData string) ([][]byte, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}
	words := make([][]byte, 0, len(data)/32)
	for i := 0; i+32 <= len(data); i += 32 {
		words = append(words, data[i:i+32])
	}
	return words, nil
}

func wordToAddress(w []byte) common.Address {
	return common.BytesToAddress(w[12:])
}

func wordToBig(w []byte) *big.Int {
	return new(big.Int).SetBytes(w)
}

func wordToBool(w []byte) bool {
	return w[31] == 1
}

// decodeAddressSlice decodes a return value that is a single address[].
func decodeAddressSlice(hexData string) ([]common.Address, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}
	if len(data) < 64 {
		return nil, nil
	}
	offset := new(big.Int).SetBytes(data[:32]).Uint64()
	if offset+32 > uint64(len(data)) {
		return nil, fmt.Errorf("malformed array offset")
	}
	length := new(big.Int).SetBytes(data[offset : offset+32]).Uint64()
	out := make([]common.Address, 0, length)
	pos := offset + 32
	for i := uint64(0); i < length; i++ {
		if pos+32 > uint64(len(data)) {
			return nil, fmt.Errorf("malformed array element %d", i)
		}
		out = append(out, wordToAddress(data[pos:pos+32]))
		pos += 32
	}
	return out, nil
}

// decodeBigSlice decodes a return value that is a single uint256[].
func decodeBigSlice(hexData string) ([]*big.Int, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}
	if len(data) < 64 {
		return nil, nil
	}
	offset := new(big.Int).SetBytes(data[:32]).Uint64()
	if offset+32 > uint64(len(data)) {
		return nil, fmt.Errorf("malformed array offset")
	}
	length := new(big.Int).SetBytes(data[offset : offset+32]).Uint64()
	out := make([]*big.Int, 0, length)
	pos := offset + 32
	for i := uint64(0); i < length; i++ {
		if pos+32 > uint64(len(data)) {
			return nil, fmt.Errorf("malformed array element %d", i)
		}
		out = append(out, wordToBig(data[pos:pos+32]))
		pos += 32
	}
	return out, nil
}

// decodeStringAt decodes a dynamic string whose head word sits at word
// index idx of the return data.
func decodeStringAt(hexData string, idx int) (string, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return "", fmt.Errorf("decoding hex result: %w", err)
	}
	headPos := idx * 32
	if headPos+32 > len(data) {
		return "", fmt.Errorf("result too short for word %d", idx)
	}
	offset := new(big.Int).SetBytes(data[headPos : headPos+32]).Uint64()
	if offset+32 > uint64(len(data)) {
		return "", fmt.Errorf("malformed string offset")
	}
	length := new(big.Int).SetBytes(data[offset : offset+32]).Uint64()
	start := offset + 32
	if start+length > uint64(len(data)) {
		return "", fmt.Errorf("malformed string length")
	}
	return string(data[start : start+length]), nil
}

// topicToAddress extracts an address from an indexed event topic.
func topicToAddress(topic string) common.Address {
	return common.HexToAddress(topic)
}
