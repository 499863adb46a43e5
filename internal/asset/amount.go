package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	ErrNilAsset        = errors.New("asset: nil asset")
	ErrNegativeAmount  = errors.New("asset: negative amount")
	ErrAssetMismatch   = errors.New("asset: cannot operate on different assets")
	ErrTooManyDecimals = errors.New("asset: too many decimal places for asset")
)

// Amount is an immutable quantity of an asset in its smallest unit.
type Amount struct {
	raw   *big.Int
	asset *Asset
}

// NewAmount creates an Amount from a raw smallest-unit value.
func NewAmount(a *Asset, raw *big.Int) Amount {
	if a == nil {
		panic(ErrNilAsset)
	}
	if raw == nil || raw.Sign() < 0 {
		panic(ErrNegativeAmount)
	}
	return Amount{raw: new(big.Int).Set(raw), asset: a}
}

// Zero creates a zero Amount for the given asset.
func Zero(a *Asset) Amount {
	return NewAmount(a, big.NewInt(0))
}

// ParseDecimal creates an Amount from a decimal value.
func ParseDecimal(a *Asset, d decimal.Decimal) (Amount, error) {
	if a == nil {
		return Amount{}, ErrNilAsset
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}

	scaled := d.Shift(int32(a.Decimals()))
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, ErrTooManyDecimals
	}
	return NewAmount(a, scaled.BigInt()), nil
}

// ParseString creates an Amount from a decimal string.
func ParseString(a *Asset, s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("asset: invalid decimal string: %w", err)
	}
	return ParseDecimal(a, d)
}

// MustParse is ParseString for constants; it panics on error.
func MustParse(a *Asset, s string) Amount {
	amt, err := ParseString(a, s)
	if err != nil {
		panic(err)
	}
	return amt
}

// Raw returns a copy of the raw value.
func (m Amount) Raw() *big.Int {
	if m.raw == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(m.raw)
}

// Asset returns the denomination.
func (m Amount) Asset() *Asset {
	return m.asset
}

func (m Amount) IsZero() bool {
	return m.raw == nil || m.raw.Sign() == 0
}

func (m Amount) IsPositive() bool {
	return m.raw != nil && m.raw.Sign() > 0
}

// Add adds two amounts of the same asset.
func (m Amount) Add(o Amount) (Amount, error) {
	if !m.asset.Equals(o.asset) {
		return Amount{}, ErrAssetMismatch
	}
	return NewAmount(m.asset, new(big.Int).Add(m.Raw(), o.Raw())), nil
}

// Mul multiplies by a non-negative integer factor.
func (m Amount) Mul(factor int64) Amount {
	if factor < 0 {
		panic(ErrNegativeAmount)
	}
	return NewAmount(m.asset, new(big.Int).Mul(m.Raw(), big.NewInt(factor)))
}

// Equals reports same asset and same value.
func (m Amount) Equals(o Amount) bool {
	return m.asset.Equals(o.asset) && m.Raw().Cmp(o.Raw()) == 0
}

// ToDecimal converts to decimal for display and persistence.
func (m Amount) ToDecimal() decimal.Decimal {
	if m.raw == nil || m.asset == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(m.raw, -int32(m.asset.Decimals()))
}

// String returns e.g. "10 CAMPUS".
func (m Amount) String() string {
	if m.asset == nil {
		return "0 ???"
	}
	return fmt.Sprintf("%s %s", m.ToDecimal().String(), m.asset.Symbol())
}
