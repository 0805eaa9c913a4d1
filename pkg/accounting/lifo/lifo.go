// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package lifo implements Last In, First Out lot selection: a disposal
// draws from the most recently acquired lot that still has capacity.
// Candidates can optionally be restricted to lots acquired in the
// disposal's own tax year; that restriction is off by default and controlled by
// config.Configuration.SameYearLotRestriction via SetSameYearRestriction.
package lifo

import (
	"cryptotax/pkg/accounting"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
)

func init() {
	accounting.Register("lifo", func() accounting.Method { return &Method{} })
}

// Method is the LIFO accounting method.
type Method struct {
	sameYearRestriction bool
}

func (m *Method) Name() string { return "lifo" }

func (m *Method) LotCandidatesOrder() accounting.CandidatesOrder { return accounting.NewerToOlder }

func (m *Method) SetSameYearRestriction(v bool) { m.sameYearRestriction = v }

func (m *Method) SeekNonExhaustedAcquiredLot(candidates *accounting.Candidates, taxableEvent transaction.Transaction, _ rp2decimal.Decimal) (accounting.LotRef, rp2decimal.Decimal, bool) {
	for i := candidates.Active - 1; i >= 0; i-- {
		if !candidates.Remaining[i].IsPositive() {
			continue
		}
		lot := candidates.Lots[i]
		if m.sameYearRestriction && lot.Timestamp().Year() != taxableEvent.Timestamp().Year() {
			continue
		}
		return accounting.LotRef{Index: i, SpotPrice: lot.SpotPrice(), AcquiredAt: lot.Timestamp()}, candidates.Remaining[i], true
	}
	return accounting.LotRef{}, rp2decimal.Zero, false
}

func (m *Method) OnConsume(accounting.LotRef, rp2decimal.Decimal) {}
