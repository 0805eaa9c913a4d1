// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package transform_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptotax/pkg/config"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
	"cryptotax/pkg/transform"
)

func TestBuildGroupsByAssetAndSynthesizesTransferFee(t *testing.T) {
	cfg := config.Default()
	now := time.Now()

	buy, err := transaction.NewAcquisition(cfg, transaction.AcquisitionParams{
		LineID: "1", Timestamp: now, Asset: "BTC", Exchange: "Coinbase", Holder: "alice",
		Type: transaction.Buy, SpotPrice: rp2decimal.NewFromInt(100), CryptoIn: rp2decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	xfer, err := transaction.NewTransfer(cfg, transaction.TransferParams{
		LineID: "2", Timestamp: now, Asset: "BTC", SpotPrice: rp2decimal.NewFromInt(100),
		FromExchange: "Coinbase", FromHolder: "alice", ToExchange: "Ledger", ToHolder: "alice",
		CryptoSent: rp2decimal.NewFromInt(1), CryptoReceived: rp2decimal.MustFromString("0.999"),
	})
	require.NoError(t, err)

	books, err := transform.Build(cfg, []*transaction.Acquisition{buy}, nil, []*transaction.Transfer{xfer})
	require.NoError(t, err)
	require.Contains(t, books, "BTC")

	book := books["BTC"]
	assert.Equal(t, 1, book.Acquisitions.Len())
	assert.Equal(t, 1, book.Transfers.Len())
	require.Equal(t, 1, book.Disposals.Len())
	assert.Equal(t, transaction.Fee, book.Disposals.Sorted()[0].Type())
}

func TestBuildRejectsDuplicateLineIDs(t *testing.T) {
	cfg := config.Default()
	now := time.Now()
	buy1, _ := transaction.NewAcquisition(cfg, transaction.AcquisitionParams{
		LineID: "dup", Timestamp: now, Asset: "BTC", Exchange: "Coinbase", Holder: "alice",
		Type: transaction.Buy, SpotPrice: rp2decimal.NewFromInt(100), CryptoIn: rp2decimal.NewFromInt(1),
	})
	buy2, _ := transaction.NewAcquisition(cfg, transaction.AcquisitionParams{
		LineID: "dup", Timestamp: now, Asset: "ETH", Exchange: "Coinbase", Holder: "alice",
		Type: transaction.Buy, SpotPrice: rp2decimal.NewFromInt(100), CryptoIn: rp2decimal.NewFromInt(1),
	})
	_, err := transform.Build(cfg, []*transaction.Acquisition{buy1, buy2}, nil, nil)
	require.Error(t, err)
}
