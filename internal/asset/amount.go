package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNegativeAmount = errors.New("asset: negative amount")
	ErrInvalidRaw     = errors.New("asset: invalid raw integer amount")
)

// ToRaw scales a whole-token amount to the token's smallest unit
// (wei, satoshi, etc), rounding to the nearest integer. big.Int
// arithmetic avoids float truncation of large 18-decimal amounts.
func ToRaw(d decimal.Decimal, decimals int) *big.Int {
	return d.Shift(int32(decimals)).Round(0).BigInt()
}

// FromRaw converts a raw smallest-unit integer string back into whole
// token units. The input must be a plain integer as returned by
// aggregator APIs.
func FromRaw(raw string, decimals int) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidRaw, raw)
	}
	if !d.Equal(d.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("%w: %q is not an integer", ErrInvalidRaw, raw)
	}
	return d.Shift(int32(-decimals)), nil
}

// FromRawBig converts a raw smallest-unit big.Int into whole token units.
func FromRawBig(raw *big.Int, decimals int) (decimal.Decimal, error) {
	if raw == nil {
		return decimal.Zero, fmt.Errorf("%w: nil", ErrInvalidRaw)
	}
	if raw.Sign() < 0 {
		return decimal.Zero, ErrNegativeAmount
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)), nil
}
