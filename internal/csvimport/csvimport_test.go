// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package csvimport_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptotax/internal/csvimport"
	"cryptotax/pkg/config"
	"cryptotax/pkg/transaction"
)

const sampleCSV = `timestamp,asset,type,exchange,holder,spot_price,crypto_amount,crypto_fee,fiat_fee,to_exchange,to_holder,crypto_received,unique_id,notes
2020-01-01,BTC,BUY,Coinbase,alice,10000,1,,,,,,,
2021-06-01,BTC,SELL,Coinbase,alice,50000,0.5,0.001,,,,,,
2021-06-02,BTC,TRANSFER,Coinbase,alice,50000,0.4,,,Ledger,alice,0.399,,
2021-07-01,ETH,INCOME,Kraken,alice,2000,1,,,,,,,staking reward
`

func TestImportParsesAllTypes(t *testing.T) {
	result, err := csvimport.Import(config.Default(), strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)
	require.Len(t, result.Acquisitions, 2)
	require.Len(t, result.Disposals, 1)
	require.Len(t, result.Transfers, 1)

	assert.Equal(t, transaction.Buy, result.Acquisitions[0].Type())
	assert.Equal(t, transaction.Income, result.Acquisitions[1].Type())
	assert.Equal(t, transaction.Sell, result.Disposals[0].Type())
}

func TestImportRejectsUnknownType(t *testing.T) {
	bad := "timestamp,asset,type,exchange,holder,spot_price,crypto_amount\n2020-01-01,BTC,TELEPORT,Coinbase,alice,100,1\n"
	_, err := csvimport.Import(config.Default(), strings.NewReader(bad), "bad.csv")
	require.Error(t, err)
}
