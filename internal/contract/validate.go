package contract

import (
	"fmt"
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// InvalidAddressError names the field that failed strict address validation.
// Raised before any network call.
type InvalidAddressError struct {
	Field string
	Value string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address for %s: %q (want 0x-prefixed 20-byte hex)", e.Field, e.Value)
}

// InvalidAmountError is raised when a human-readable amount cannot be
// converted to raw integer units.
type InvalidAmountError struct {
	Value  string
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Value, e.Reason)
}

// InvalidNumberError is raised when a fixed-width numeric field is not a
// non-negative integer within its on-chain encoding range.
type InvalidNumberError struct {
	Field string
	Value string
	Bits  uint
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("%s must be a non-negative integer below 2^%d, got %q", e.Field, e.Bits, e.Value)
}

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// parseAddress enforces the strict 0x-prefixed 20-byte hex format. Mixed
// case is accepted without checksum verification, matching the contracts'
// own tolerance.
func parseAddress(field, value string) (common.Address, error) {
	if !addressRe.MatchString(value) {
		return common.Address{}, &InvalidAddressError{Field: field, Value: value}
	}
	return common.HexToAddress(value), nil
}

// parseUintN parses a fixed-width unsigned integer field from its string
// form. Rejects negatives, fractions and values >= 2^bits so a
// guaranteed-revert transaction is never paid for.
func parseUintN(field, value string, bits uint) (*big.Int, error) {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, &InvalidNumberError{Field: field, Value: value, Bits: bits}
	}
	if n.Sign() < 0 {
		return nil, &InvalidNumberError{Field: field, Value: value, Bits: bits}
	}
	if n.BitLen() > int(bits) {
		return nil, &InvalidNumberError{Field: field, Value: value, Bits: bits}
	}
	return n, nil
}

// Fixed-width helpers for the widths the vault contracts use.

func parseUint32Field(field, value string) (*big.Int, error) {
	return parseUintN(field, value, 32)
}

func parseUint24Field(field, value string) (*big.Int, error) {
	return parseUintN(field, value, 24)
}

func parseUint160Field(field, value string) (*big.Int, error) {
	return parseUintN(field, value, 160)
}

// checkAmountSyntax rejects non-numeric or negative amounts without
// needing the token's decimals (i.e. before any network call).
func checkAmountSyntax(amount string) error {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return &InvalidAmountError{Value: amount, Reason: "not a number"}
	}
	if d.IsNegative() {
		return &InvalidAmountError{Value: amount, Reason: "negative"}
	}
	return nil
}

// ToRawAmount converts a human-readable amount string into fixed-point
// integer units using the token's decimal count. "10.5" with 18 decimals
// becomes 10500000000000000000.
func ToRawAmount(amount string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, &InvalidAmountError{Value: amount, Reason: "not a number"}
	}
	if d.IsNegative() {
		return nil, &InvalidAmountError{Value: amount, Reason: "negative"}
	}
	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return nil, &InvalidAmountError{Value: amount, Reason: fmt.Sprintf("more than %d decimal places", decimals)}
	}
	return shifted.BigInt(), nil
}

// FromRawAmount renders raw integer units as a human-readable string.
func FromRawAmount(raw *big.Int, decimals int) string {
	return decimal.NewFromBigInt(raw, -int32(decimals)).String()
}
