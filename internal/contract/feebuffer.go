package contract

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/openvaults/vaultctl/internal/chain"
	"github.com/openvaults/vaultctl/internal/config"
)

// FeeCollector executes ProtocolFeeCollector allowlist operations (admin).
type FeeCollector struct {
	exec *Executor
	addr common.Address
}

// NewFeeCollector validates the collector address.
func NewFeeCollector(exec *Executor, collectorAddr string) (*FeeCollector, error) {
	addr, err := parseAddress("protocolFeeCollector", collectorAddr)
	if err != nil {
		return nil, err
	}
	return &FeeCollector{exec: exec, addr: addr}, nil
}

// SetAllowlisted toggles an address on the collector's allowlist.
func (c *FeeCollector) SetAllowlisted(target string, allowed bool) (*TxResult, error) {
	addr, err := parseAddress("target", target)
	if err != nil {
		return nil, err
	}
	data := calldata(sigSetAllowlisted, argAddress(addr), argBool(allowed))
	return c.exec.execute(c.addr, data, config.GasLimitVaultCall)
}

// IsAllowlisted reads the allowlist state for an address.
func (c *FeeCollector) IsAllowlisted(target string) (bool, error) {
	addr, err := parseAddress("target", target)
	if err != nil {
		return false, err
	}
	out, err := c.exec.callRead(c.addr, calldata(sigIsAllowlisted, argAddress(addr)))
	if err != nil {
		return false, fmt.Errorf("reading allowlist: %w", err)
	}
	words, err := resultWords(out)
	if err != nil || len(words) == 0 {
		return false, fmt.Errorf("malformed allowlist result")
	}
	return wordToBool(words[0]), nil
}

// FeeBuffer reads VaultFeeBuffer token balances through the read provider.
type FeeBuffer struct {
	client *chain.EVMClient
	addr   common.Address
}

// NewFeeBuffer validates the buffer address.
func NewFeeBuffer(client *chain.EVMClient, bufferAddr string) (*FeeBuffer, error) {
	addr, err := parseAddress("vaultFeeBuffer", bufferAddr)
	if err != nil {
		return nil, err
	}
	return &FeeBuffer{client: client, addr: addr}, nil
}

// TokenBalance returns the buffer's holding of token, raw and
// human-formatted.
func (b *FeeBuffer) TokenBalance(token string) (*big.Int, string, error) {
	tokenAddr, err := parseAddress("token", token)
	if err != nil {
		return nil, "", err
	}
	raw, err := b.client.GetTokenBalance(tokenAddr.Hex(), b.addr.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("reading buffer balance: %w", err)
	}
	decimals, err := b.client.TokenDecimals(tokenAddr.Hex())
	if err != nil {
		return raw, raw.String(), nil
	}
	return raw, FromRawAmount(raw, decimals), nil
}
