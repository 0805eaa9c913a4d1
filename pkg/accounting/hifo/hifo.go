// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package hifo implements Highest In, First Out lot selection: a disposal
// draws from whichever active lot has the highest spot price, breaking ties
// in favor of the earliest acquisition. The original engine buckets lots by
// rounded spot price in an AVL tree to make this an O(log n) operation; this
// port uses a linear scan of the active window instead, which the
// specification accepts as sufficient at this engine's target scale.
package hifo

import (
	"cryptotax/pkg/accounting"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
)

func init() {
	accounting.Register("hifo", func() accounting.Method { return &Method{} })
}

// Method is the HIFO accounting method.
type Method struct{}

func (m *Method) Name() string { return "hifo" }

func (m *Method) LotCandidatesOrder() accounting.CandidatesOrder { return accounting.OlderToNewer }

func (m *Method) SeekNonExhaustedAcquiredLot(candidates *accounting.Candidates, _ transaction.Transaction, _ rp2decimal.Decimal) (accounting.LotRef, rp2decimal.Decimal, bool) {
	best := -1
	for i := 0; i < candidates.Active; i++ {
		if !candidates.Remaining[i].IsPositive() {
			continue
		}
		if best == -1 || candidates.Lots[i].SpotPrice().Cmp(candidates.Lots[best].SpotPrice()) > 0 {
			best = i
		}
	}
	if best == -1 {
		return accounting.LotRef{}, rp2decimal.Zero, false
	}
	lot := candidates.Lots[best]
	return accounting.LotRef{Index: best, SpotPrice: lot.SpotPrice(), AcquiredAt: lot.Timestamp()}, candidates.Remaining[best], true
}

func (m *Method) OnConsume(accounting.LotRef, rp2decimal.Decimal) {}
