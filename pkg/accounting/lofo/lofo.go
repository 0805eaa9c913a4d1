// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package lofo implements Lowest In, First Out lot selection: a disposal
// draws from whichever active lot has the lowest spot price, breaking ties
// in favor of the earliest acquisition, then by input order. This mirrors
// the original engine's LOFO plugin, which sorts candidates by
// (spot_price, timestamp, row).
package lofo

import (
	"cryptotax/pkg/accounting"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
)

func init() {
	accounting.Register("lofo", func() accounting.Method { return &Method{} })
}

// Method is the LOFO accounting method.
type Method struct{}

func (m *Method) Name() string { return "lofo" }

func (m *Method) LotCandidatesOrder() accounting.CandidatesOrder { return accounting.OlderToNewer }

func (m *Method) SeekNonExhaustedAcquiredLot(candidates *accounting.Candidates, _ transaction.Transaction, _ rp2decimal.Decimal) (accounting.LotRef, rp2decimal.Decimal, bool) {
	best := -1
	for i := 0; i < candidates.Active; i++ {
		if !candidates.Remaining[i].IsPositive() {
			continue
		}
		if best == -1 || candidates.Lots[i].SpotPrice().Cmp(candidates.Lots[best].SpotPrice()) < 0 {
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
