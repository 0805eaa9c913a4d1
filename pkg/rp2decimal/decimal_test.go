// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package rp2decimal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptotax/pkg/rp2decimal"
)

func TestArithmeticIsExact(t *testing.T) {
	a := rp2decimal.MustFromString("0.1")
	b := rp2decimal.MustFromString("0.2")
	sum := a.Add(b)
	assert.True(t, sum.EqualWithinCrypto(rp2decimal.MustFromString("0.3")))
}

func TestEqualWithinPrecisionIgnoresSubCryptoNoise(t *testing.T) {
	a := rp2decimal.MustFromString("1.00000000000001")
	b := rp2decimal.MustFromString("1.00000000000002")
	assert.True(t, a.EqualWithinCrypto(b), "difference is below crypto precision")
	assert.False(t, a.EqualWithinFiat(rp2decimal.MustFromString("1.01")))
}

func TestDivByZero(t *testing.T) {
	_, ok := rp2decimal.NewFromInt(1).Div(rp2decimal.Zero)
	assert.False(t, ok)
}

func TestRoundFiatBankersRounding(t *testing.T) {
	assert.Equal(t, "2.00", rp2decimal.MustFromString("1.995").RoundFiat().StringFixedFiat())
	assert.Equal(t, "2.00", rp2decimal.MustFromString("2.005").RoundFiat().StringFixedFiat())
}

func TestNewFromStringRejectsGarbage(t *testing.T) {
	_, err := rp2decimal.NewFromString("not-a-number")
	require.Error(t, err)
}

func TestConstants(t *testing.T) {
	assert.True(t, rp2decimal.Zero.IsZero())
	assert.True(t, rp2decimal.One.EqualWithinCrypto(rp2decimal.NewFromInt(1)))
	assert.True(t, rp2decimal.Hundred.EqualWithinFiat(rp2decimal.NewFromInt(100)))

	fraction, ok := rp2decimal.NewFromInt(1).Div(rp2decimal.NewFromInt(4))
	require.True(t, ok)
	assert.True(t, fraction.Mul(rp2decimal.Hundred).EqualWithinFiat(rp2decimal.NewFromInt(25)),
		"Hundred is used to turn a fraction into a percent")
}
