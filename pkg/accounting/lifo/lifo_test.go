// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package lifo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptotax/pkg/accounting"
	"cryptotax/pkg/accounting/lifo"
	"cryptotax/pkg/config"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
)

func mustBuy(t *testing.T, lineID string, ts time.Time, price string) *transaction.Acquisition {
	t.Helper()
	a, err := transaction.NewAcquisition(config.Default(), transaction.AcquisitionParams{
		LineID: lineID, Timestamp: ts, Asset: "BTC", Exchange: "Coinbase", Holder: "alice",
		Type: transaction.Buy, SpotPrice: rp2decimal.MustFromString(price), CryptoIn: rp2decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	return a
}

func mustSell(t *testing.T, ts time.Time) *transaction.Disposal {
	t.Helper()
	d, err := transaction.NewDisposal(config.Default(), transaction.DisposalParams{
		LineID: "sell", Timestamp: ts, Asset: "BTC", Exchange: "Coinbase", Holder: "alice",
		Type: transaction.Sell, SpotPrice: rp2decimal.NewFromInt(1000),
		CryptoOutNoFee: rp2decimal.NewFromInt(1), CryptoFee: rp2decimal.Zero,
	})
	require.NoError(t, err)
	return d
}

func TestNameAndOrder(t *testing.T) {
	m := &lifo.Method{}
	assert.Equal(t, "lifo", m.Name())
	assert.Equal(t, accounting.NewerToOlder, m.LotCandidatesOrder())
}

func TestSeekPicksNewestLotWithRemainingCapacity(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	lots := []*transaction.Acquisition{
		mustBuy(t, "1", base, "100"),
		mustBuy(t, "2", base.AddDate(0, 0, 1), "200"),
		mustBuy(t, "3", base.AddDate(0, 0, 2), "300"),
	}
	candidates := &accounting.Candidates{
		Lots:      lots,
		Remaining: []rp2decimal.Decimal{rp2decimal.NewFromInt(1), rp2decimal.NewFromInt(1), rp2decimal.Zero},
		Active:    3,
	}

	m := &lifo.Method{}
	ref, remaining, found := m.SeekNonExhaustedAcquiredLot(candidates, mustSell(t, base.AddDate(0, 0, 3)), rp2decimal.NewFromInt(1))
	require.True(t, found)
	assert.Equal(t, 1, ref.Index, "lot 2 is exhausted, so the newest lot with capacity is index 1, not the newest overall")
	assert.True(t, remaining.EqualWithinCrypto(rp2decimal.NewFromInt(1)))
}

func TestSeekRespectsSameYearRestriction(t *testing.T) {
	lots := []*transaction.Acquisition{
		mustBuy(t, "1", time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC), "100"),
		mustBuy(t, "2", time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC), "150"),
	}
	candidates := &accounting.Candidates{
		Lots:      lots,
		Remaining: []rp2decimal.Decimal{rp2decimal.NewFromInt(1), rp2decimal.NewFromInt(1)},
		Active:    2,
	}

	m := &lifo.Method{}
	m.SetSameYearRestriction(true)
	disposal := mustSell(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))
	ref, _, found := m.SeekNonExhaustedAcquiredLot(candidates, disposal, rp2decimal.NewFromInt(1))
	require.True(t, found)
	assert.Equal(t, 1, ref.Index)

	m2 := &lifo.Method{}
	m2.SetSameYearRestriction(true)
	onlyPriorYear := &accounting.Candidates{
		Lots:      lots[:1],
		Remaining: []rp2decimal.Decimal{rp2decimal.NewFromInt(1)},
		Active:    1,
	}
	_, _, found = m2.SeekNonExhaustedAcquiredLot(onlyPriorYear, disposal, rp2decimal.NewFromInt(1))
	assert.False(t, found, "with the restriction on, a lot from a prior tax year must never be selected")
}

func TestSeekReturnsNotFoundWhenEveryLotIsExhausted(t *testing.T) {
	lots := []*transaction.Acquisition{mustBuy(t, "1", time.Now(), "100")}
	candidates := &accounting.Candidates{Lots: lots, Remaining: []rp2decimal.Decimal{rp2decimal.Zero}, Active: 1}

	m := &lifo.Method{}
	_, _, found := m.SeekNonExhaustedAcquiredLot(candidates, mustSell(t, time.Now()), rp2decimal.NewFromInt(1))
	assert.False(t, found)
}
