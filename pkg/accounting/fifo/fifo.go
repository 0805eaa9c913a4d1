// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package fifo implements First In, First Out lot selection: a disposal
// always draws from the oldest acquired lot that still has capacity. See
// https://www.investopedia.com/terms/l/fifo.asp. This uses universal
// application: there is one candidate queue per asset across every account,
// not one queue per account.
package fifo

import (
	"cryptotax/pkg/accounting"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
)

func init() {
	accounting.Register("fifo", func() accounting.Method { return &Method{} })
}

// Method is the FIFO accounting method.
type Method struct{}

func (m *Method) Name() string { return "fifo" }

func (m *Method) LotCandidatesOrder() accounting.CandidatesOrder { return accounting.OlderToNewer }

func (m *Method) SeekNonExhaustedAcquiredLot(candidates *accounting.Candidates, _ transaction.Transaction, _ rp2decimal.Decimal) (accounting.LotRef, rp2decimal.Decimal, bool) {
	for i := 0; i < candidates.Active; i++ {
		if candidates.Remaining[i].IsPositive() {
			lot := candidates.Lots[i]
			return accounting.LotRef{Index: i, SpotPrice: lot.SpotPrice(), AcquiredAt: lot.Timestamp()}, candidates.Remaining[i], true
		}
	}
	return accounting.LotRef{}, rp2decimal.Zero, false
}

func (m *Method) OnConsume(accounting.LotRef, rp2decimal.Decimal) {}
