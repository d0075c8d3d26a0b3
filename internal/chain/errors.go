package chain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoProvider is returned when no wallet provider/RPC endpoint is connected.
var ErrNoProvider = errors.New("no wallet provider connected")

// UnsupportedChainError is returned when the provider reports a chain id
// that does not map to a supported chain key.
type UnsupportedChainError struct {
	ChainID int64
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("unsupported chain id %d: switch the wallet to a supported network", e.ChainID)
}

// TransactionRevertedError is returned when a transaction confirms with a
// failure status. It always carries the hash so the user can inspect the
// transaction externally.
type TransactionRevertedError struct {
	Hash string
}

func (e *TransactionRevertedError) Error() string {
	return fmt.Sprintf("transaction reverted (hash: %s)", e.Hash)
}

// ReceiptTimeoutError is returned when the receipt wait exceeds its bound.
// The underlying transaction is NOT cancelled: a timeout means "we stopped
// waiting", not "the transaction was voided".
type ReceiptTimeoutError struct {
	Hash    string
	Timeout time.Duration
}

func (e *ReceiptTimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not mined within %s", e.Hash, e.Timeout)
}
