// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package transaction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptotax/pkg/config"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
)

func testConfig() *config.Configuration { return config.Default() }

func TestNewAcquisitionBuyIsNotTaxable(t *testing.T) {
	a, err := transaction.NewAcquisition(testConfig(), transaction.AcquisitionParams{
		LineID: "1", Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Asset: "BTC", Exchange: "Coinbase", Holder: "alice", Type: transaction.Buy,
		SpotPrice: rp2decimal.NewFromInt(10000), CryptoIn: rp2decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.False(t, a.IsTaxable())
	assert.True(t, a.CryptoTaxableAmount().IsZero())
	assert.True(t, a.FiatInNoFee().EqualWithinFiat(rp2decimal.NewFromInt(10000)))
}

func TestNewAcquisitionIncomeIsTaxable(t *testing.T) {
	a, err := transaction.NewAcquisition(testConfig(), transaction.AcquisitionParams{
		LineID: "2", Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Asset: "BTC", Exchange: "Coinbase", Holder: "alice", Type: transaction.Income,
		SpotPrice: rp2decimal.NewFromInt(10000), CryptoIn: rp2decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.True(t, a.IsTaxable())
	assert.True(t, a.CryptoTaxableAmount().EqualWithinCrypto(rp2decimal.NewFromInt(1)))
}

func TestNewAcquisitionFiatTaxableAmountExcludesFee(t *testing.T) {
	fiatFee := rp2decimal.NewFromInt(50)
	a, err := transaction.NewAcquisition(testConfig(), transaction.AcquisitionParams{
		LineID: "2b", Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Asset: "BTC", Exchange: "Coinbase", Holder: "alice", Type: transaction.Income,
		SpotPrice: rp2decimal.NewFromInt(10000), CryptoIn: rp2decimal.NewFromInt(1),
		FiatFee: &fiatFee,
	})
	require.NoError(t, err)
	assert.True(t, a.FiatTaxableAmount().EqualWithinFiat(a.FiatInNoFee()))
	assert.False(t, a.FiatTaxableAmount().EqualWithinFiat(a.FiatInWithFee()))
}

func TestNewAcquisitionRejectsBothFees(t *testing.T) {
	cryptoFee := rp2decimal.NewFromInt(1)
	fiatFee := rp2decimal.NewFromInt(1)
	_, err := transaction.NewAcquisition(testConfig(), transaction.AcquisitionParams{
		LineID: "3", Timestamp: time.Now(), Asset: "BTC", Exchange: "Coinbase", Holder: "alice",
		Type: transaction.Buy, SpotPrice: rp2decimal.NewFromInt(1), CryptoIn: rp2decimal.NewFromInt(1),
		CryptoFee: &cryptoFee, FiatFee: &fiatFee,
	})
	require.Error(t, err)
}

func TestNewAcquisitionStakingAllowsNegative(t *testing.T) {
	a, err := transaction.NewAcquisition(testConfig(), transaction.AcquisitionParams{
		LineID: "4", Timestamp: time.Now(), Asset: "ETH", Exchange: "Kraken", Holder: "alice",
		Type: transaction.Staking, SpotPrice: rp2decimal.NewFromInt(2000), CryptoIn: rp2decimal.NewFromFloat(-0.01),
	})
	require.NoError(t, err)
	assert.True(t, a.CryptoIn().IsNegative())
}

func TestNewDisposalFeeType(t *testing.T) {
	d, err := transaction.NewDisposal(testConfig(), transaction.DisposalParams{
		LineID: "5", Timestamp: time.Now(), Asset: "BTC", Exchange: "Coinbase", Holder: "alice",
		Type: transaction.Fee, SpotPrice: rp2decimal.NewFromInt(10000),
		CryptoOutNoFee: rp2decimal.Zero, CryptoFee: rp2decimal.NewFromFloat(0.001),
	})
	require.NoError(t, err)
	assert.True(t, d.CryptoTaxableAmount().EqualWithinCrypto(rp2decimal.NewFromFloat(0.001)))
}

func TestNewDisposalSellTaxableAmountIncludesFee(t *testing.T) {
	d, err := transaction.NewDisposal(testConfig(), transaction.DisposalParams{
		LineID: "6", Timestamp: time.Now(), Asset: "BTC", Exchange: "Coinbase", Holder: "alice",
		Type: transaction.Sell, SpotPrice: rp2decimal.NewFromInt(10000),
		CryptoOutNoFee: rp2decimal.NewFromInt(1), CryptoFee: rp2decimal.NewFromFloat(0.01),
	})
	require.NoError(t, err)
	assert.True(t, d.CryptoTaxableAmount().EqualWithinCrypto(rp2decimal.NewFromFloat(1.01)))
}

func TestNewTransferRejectsSameAccount(t *testing.T) {
	_, err := transaction.NewTransfer(testConfig(), transaction.TransferParams{
		LineID: "7", Timestamp: time.Now(), Asset: "BTC",
		FromExchange: "Coinbase", FromHolder: "alice", ToExchange: "Coinbase", ToHolder: "alice",
		CryptoSent: rp2decimal.NewFromInt(1), CryptoReceived: rp2decimal.NewFromInt(1),
	})
	require.Error(t, err)
}

func TestNewTransferComputesFee(t *testing.T) {
	tr, err := transaction.NewTransfer(testConfig(), transaction.TransferParams{
		LineID: "8", Timestamp: time.Now(), Asset: "BTC",
		FromExchange: "Coinbase", FromHolder: "alice", ToExchange: "Ledger", ToHolder: "alice",
		CryptoSent: rp2decimal.NewFromInt(1), CryptoReceived: rp2decimal.NewFromFloat(0.999),
	})
	require.NoError(t, err)
	assert.True(t, tr.CryptoFee().EqualWithinCrypto(rp2decimal.NewFromFloat(0.001)))
}
