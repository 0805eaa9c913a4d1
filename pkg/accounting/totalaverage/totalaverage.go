// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package totalaverage implements the total-average cost method some
// jurisdictions (notably Japan) require instead of a lot-selection method:
// every disposal in a given tax year draws against a single synthetic lot
// whose price is the volume-weighted average spot price of every
// acquisition made in or before that year, and whose remaining amount is
// that year's cumulative pool minus everything already consumed from it.
// Unlike FIFO/LIFO/HIFO/LOFO, this method deliberately looks past the
// engine's usual "no lot from the future" rule for the current tax year:
// the average is computed once at filing time using the full year's
// acquisitions, not just the ones that preceded any individual disposal
// within it.
package totalaverage

import (
	"time"

	"cryptotax/pkg/accounting"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
)

func init() {
	accounting.Register("total_average", func() accounting.Method { return New() })
}

// Method is the Total Average accounting method.
type Method struct {
	consumedThroughYear map[int]rp2decimal.Decimal
}

// New builds an empty Total Average method.
func New() *Method {
	return &Method{consumedThroughYear: map[int]rp2decimal.Decimal{}}
}

func (m *Method) Name() string { return "total_average" }

func (m *Method) LotCandidatesOrder() accounting.CandidatesOrder { return accounting.OlderToNewer }

func (m *Method) SeekNonExhaustedAcquiredLot(candidates *accounting.Candidates, taxableEvent transaction.Transaction, _ rp2decimal.Decimal) (accounting.LotRef, rp2decimal.Decimal, bool) {
	year := taxableEvent.Timestamp().Year()

	pool := rp2decimal.Zero
	weighted := rp2decimal.Zero
	var earliest time.Time
	haveEarliest := false
	for i := 0; i < len(candidates.Lots); i++ {
		lot := candidates.Lots[i]
		if lot.Timestamp().Year() > year {
			continue
		}
		pool = pool.Add(lot.CryptoIn())
		weighted = weighted.Add(lot.CryptoIn().Mul(lot.SpotPrice()))
		if !haveEarliest || lot.Timestamp().Before(earliest) {
			earliest = lot.Timestamp()
			haveEarliest = true
		}
	}
	if !pool.IsPositive() {
		return accounting.LotRef{}, rp2decimal.Zero, false
	}
	avgPrice, ok := weighted.Div(pool)
	if !ok {
		return accounting.LotRef{}, rp2decimal.Zero, false
	}

	consumed := rp2decimal.Zero
	for y, c := range m.consumedThroughYear {
		if y <= year {
			consumed = consumed.Add(c)
		}
	}
	remaining := pool.Sub(consumed)
	if !remaining.IsPositive() {
		return accounting.LotRef{}, rp2decimal.Zero, false
	}

	return accounting.LotRef{Synthetic: true, Index: year, SpotPrice: avgPrice, AcquiredAt: earliest}, remaining, true
}

func (m *Method) OnConsume(ref accounting.LotRef, take rp2decimal.Decimal) {
	m.consumedThroughYear[ref.Index] = m.consumedThroughYear[ref.Index].Add(take)
}
