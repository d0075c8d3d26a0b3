package contract

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/openvaults/vaultctl/internal/chain"
	"github.com/openvaults/vaultctl/internal/wallet"
)

// TxResult is what every executor returns for a write: the broadcast hash
// and the mined receipt.
type TxResult struct {
	TxHash  string
	Receipt *chain.TxReceipt
}

// TxSigner signs transactions and reports the acting address.
type TxSigner interface {
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
	Address() string
}

var _ TxSigner = (*wallet.Signer)(nil)

// Executor submits signed contract calls and waits for confirmation.
// Submission goes through the wallet-side endpoint; receipt polling and
// reads go through the independent read provider.
type Executor struct {
	submit  *chain.EVMClient
	read    *chain.EVMClient
	signer  TxSigner
	chainID *big.Int
	timeout time.Duration
}

// NewExecutor creates an Executor. timeout bounds the receipt wait;
// zero means the 3-minute default.
func NewExecutor(submit, read *chain.EVMClient, signer TxSigner, chainID *big.Int, timeout time.Duration) *Executor {
	if timeout == 0 {
		timeout = 3 * time.Minute
	}
	return &Executor{
		submit:  submit,
		read:    read,
		signer:  signer,
		chainID: chainID,
		timeout: timeout,
	}
}

// From returns the acting address.
func (e *Executor) From() string { return e.signer.Address() }

// execute signs, broadcasts and confirms a contract call. A receipt with
// failure status surfaces as *chain.TransactionRevertedError alongside the
// result, so the hash is never lost.
func (e *Executor) execute(to common.Address, data string, gasFallback uint64) (*TxResult, error) {
	from := e.signer.Address()

	gas, err := e.submit.EstimateGas(from, to.Hex(), data, nil)
	if err != nil {
		gas = gasFallback
	}

	gasPrice, err := e.submit.GasPrice()
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := e.submit.GetNonce(from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	calldataBytes := common.FromHex(data)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   e.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &to,
		Value:     big.NewInt(0),
		Data:      calldataBytes,
	})

	raw, err := e.signer.SignTx(tx, e.chainID)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := e.submit.SendRawTransaction("0x" + common.Bytes2Hex(raw))
	if err != nil {
		return nil, fmt.Errorf("broadcasting transaction: %w", err)
	}

	receipt, err := e.read.WaitForReceipt(hash, e.timeout)
	if err != nil {
		// Reverted transactions still carry the receipt and hash.
		return &TxResult{TxHash: hash, Receipt: receipt}, err
	}
	return &TxResult{TxHash: hash, Receipt: receipt}, nil
}

// callRead performs a read through the independent read provider.
func (e *Executor) callRead(to common.Address, data string) (string, error) {
	return e.read.CallContract(to.Hex(), data)
}
