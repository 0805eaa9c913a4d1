// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package rp2decimal wraps github.com/shopspring/decimal with the two fixed
// precisions used throughout the tax engine: 13 fractional digits for crypto
// amounts and 2 for fiat amounts. Apart from Div, which keeps
// CryptoDecimals+2 fractional digits, values are never rounded internally; the
// masks are only applied at comparison time (comparisons are "equal within
// precision", mirroring how the original Python engine treated Decimal
// equality) and at output-formatting time.
package rp2decimal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// CryptoDecimals is the fractional-digit precision used to compare crypto amounts.
	CryptoDecimals = 13
	// FiatDecimals is the fractional-digit precision used to compare and format fiat amounts.
	FiatDecimals = 2
)

// Decimal is an arbitrary-precision fixed-point number. The zero value is
// invalid; use Zero or one of the New* constructors.
type Decimal struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Decimal{d: decimal.Zero}

// One is the multiplicative identity.
var One = Decimal{d: decimal.NewFromInt(1)}

// Hundred is used throughout the engine to turn a fraction into a percent.
var Hundred = Decimal{d: decimal.NewFromInt(100)}

// NewFromString parses a decimal literal (e.g. "1.234500000000001").
func NewFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("rp2decimal: %w", err)
	}
	return Decimal{d: d}, nil
}

// MustFromString is NewFromString for literals known at compile time.
func MustFromString(s string) Decimal {
	v, err := NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// NewFromInt wraps an integer amount.
func NewFromInt(i int64) Decimal {
	return Decimal{d: decimal.NewFromInt(i)}
}

// NewFromFloat wraps a float64. Callers should prefer NewFromString for
// values sourced from user input; this exists for constructing test fixtures
// and for reading floating-point fields off third-party APIs that have no
// string form.
func NewFromFloat(f float64) Decimal {
	return Decimal{d: decimal.NewFromFloat(f)}
}

func (d Decimal) Add(other Decimal) Decimal      { return Decimal{d: d.d.Add(other.d)} }
func (d Decimal) Sub(other Decimal) Decimal      { return Decimal{d: d.d.Sub(other.d)} }
func (d Decimal) Mul(other Decimal) Decimal      { return Decimal{d: d.d.Mul(other.d)} }
func (d Decimal) Neg() Decimal                   { return Decimal{d: d.d.Neg()} }
func (d Decimal) Abs() Decimal                   { return Decimal{d: d.d.Abs()} }

// Div divides by other using enough scale for crypto-precision comparisons
// downstream. Division by zero returns Zero and false.
func (d Decimal) Div(other Decimal) (Decimal, bool) {
	if other.IsZero() {
		return Zero, false
	}
	return Decimal{d: d.d.DivRound(other.d, CryptoDecimals+2)}, true
}

// IsZero reports whether d is exactly zero (no precision masking: zero is zero).
func (d Decimal) IsZero() bool { return d.d.IsZero() }

// IsNegative reports whether d is strictly less than zero, exact comparison.
func (d Decimal) IsNegative() bool { return d.d.Sign() < 0 }

// IsPositive reports whether d is strictly greater than zero, exact comparison.
func (d Decimal) IsPositive() bool { return d.d.Sign() > 0 }

// EqualWithinCrypto reports whether the difference of d and other rounds to
// zero at CryptoDecimals places (less than half a unit), mirroring
// RP2Decimal.__eq__.
func (d Decimal) EqualWithinCrypto(other Decimal) bool {
	return equalWithinPrecision(d, other, CryptoDecimals)
}

// EqualWithinFiat reports whether the difference of d and other rounds to
// zero at FiatDecimals places (less than half a unit), mirroring
// RP2Decimal.is_equal_within_precision.
func (d Decimal) EqualWithinFiat(other Decimal) bool {
	return equalWithinPrecision(d, other, FiatDecimals)
}

func equalWithinPrecision(a, b Decimal, places int32) bool {
	return a.d.Sub(b.d).Round(places).IsZero()
}

// GreaterThanWithinCrypto reports a > b within crypto precision.
func (d Decimal) GreaterThanWithinCrypto(other Decimal) bool {
	return d.d.Sub(other.d).Round(CryptoDecimals).Sign() > 0
}

// GreaterThanOrEqualWithinCrypto reports a >= b within crypto precision.
func (d Decimal) GreaterThanOrEqualWithinCrypto(other Decimal) bool {
	return d.d.Sub(other.d).Round(CryptoDecimals).Sign() >= 0
}

// LessThanWithinCrypto reports a < b within crypto precision.
func (d Decimal) LessThanWithinCrypto(other Decimal) bool {
	return !d.GreaterThanOrEqualWithinCrypto(other)
}

// Cmp does an exact (unmasked) comparison, used for sort stability where
// precision-masked equality would be wrong (e.g. ordering acquired lots by
// spot price for HIFO).
func (d Decimal) Cmp(other Decimal) int { return d.d.Cmp(other.d) }

// RoundCrypto rounds to CryptoDecimals places using banker's rounding
// (round-half-to-even), matching shopspring/decimal's default RoundBank.
func (d Decimal) RoundCrypto() Decimal { return Decimal{d: d.d.RoundBank(CryptoDecimals)} }

// RoundFiat rounds to FiatDecimals places using banker's rounding. This is
// applied only when producing human-facing report output, never internally.
func (d Decimal) RoundFiat() Decimal { return Decimal{d: d.d.RoundBank(FiatDecimals)} }

// String renders the value with no imposed precision (full internal scale).
func (d Decimal) String() string { return d.d.String() }

// StringFixedFiat renders with exactly FiatDecimals digits, banker-rounded.
func (d Decimal) StringFixedFiat() string { return d.d.StringFixedBank(FiatDecimals) }

// StringFixedCrypto renders with exactly CryptoDecimals digits, banker-rounded.
func (d Decimal) StringFixedCrypto() string { return d.d.StringFixedBank(CryptoDecimals) }

// Float64 returns the closest float64 approximation, for interop with
// libraries (e.g. chart/report renderers) that require it. Never use this
// for a value that feeds back into tax computation.
func (d Decimal) Float64() float64 { f, _ := d.d.Float64(); return f }

// MarshalJSON renders the exact decimal representation as a JSON string.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.d.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or a bare JSON number.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	var inner decimal.Decimal
	if err := inner.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("rp2decimal: %w", err)
	}
	d.d = inner
	return nil
}
