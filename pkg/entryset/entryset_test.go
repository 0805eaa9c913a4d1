// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package entryset_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptotax/pkg/config"
	"cryptotax/pkg/entryset"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/rp2error"
	"cryptotax/pkg/transaction"
)

func buy(t *testing.T, lineID string, ts time.Time) *transaction.Acquisition {
	t.Helper()
	a, err := transaction.NewAcquisition(config.Default(), transaction.AcquisitionParams{
		LineID: lineID, Timestamp: ts, Asset: "BTC", Exchange: "Coinbase", Holder: "alice",
		Type: transaction.Buy, SpotPrice: rp2decimal.NewFromInt(100), CryptoIn: rp2decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	return a
}

func TestSetSortsByTimestampThenLineID(t *testing.T) {
	s := entryset.New[*transaction.Acquisition]("BTC")
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Add(buy(t, "3", base)))
	require.NoError(t, s.Add(buy(t, "1", base.AddDate(0, 0, -1))))
	require.NoError(t, s.Add(buy(t, "2", base)))

	sorted := s.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, "1", sorted[0].LineID())
	assert.Equal(t, "2", sorted[1].LineID())
	assert.Equal(t, "3", sorted[2].LineID())
}

func TestSetRejectsAssetMismatch(t *testing.T) {
	s := entryset.New[*transaction.Acquisition]("ETH")
	err := s.Add(buy(t, "1", time.Now()))
	require.Error(t, err)
}

func TestSetRejectsDuplicateLineID(t *testing.T) {
	s := entryset.New[*transaction.Acquisition]("BTC")
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Add(buy(t, "1", base)))

	err := s.Add(buy(t, "1", base))
	require.Error(t, err)
	var orderingErr *rp2error.OrderingError
	require.ErrorAs(t, err, &orderingErr)
}
