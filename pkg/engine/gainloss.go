// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package engine

import (
	"time"

	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
)

// CapitalGainType distinguishes short- from long-term treatment. It is
// meaningless (ShortTerm is reported but should be ignored downstream) for
// taxable events that have no acquisition counterpart, e.g. earn-type
// income, where the caller should consult IsEarnedIncome instead.
type CapitalGainType int

const (
	ShortTerm CapitalGainType = iota
	LongTerm
)

func (c CapitalGainType) String() string {
	if c == LongTerm {
		return "LONG_TERM"
	}
	return "SHORT_TERM"
}

// GainLoss is one line of the engine's output: either a full or partial
// pairing between a taxable event and an acquired lot, or (when FromLotIsSet
// is false) a standalone taxable event with no cost basis, such as ordinary
// income.
type GainLoss struct {
	TaxableEvent  transaction.TaxableTransaction
	TaxableAmount rp2decimal.Decimal

	// FromLotIsSet, FromLotIndex, FromLotSynthetic, FromLotSpotPrice, and
	// FromLotTimestamp together identify the specific acquired lot this
	// slice of the taxable event was matched against. FromLotIndex is the
	// position of that lot within the asset's sorted acquisition list
	// (meaningless when FromLotSynthetic is true, since a Total Average
	// lot has no single acquisition backing it); two lots can otherwise
	// share a timestamp and spot price, so FromLotIndex is what lets a
	// caller prove fraction closure against one specific lot rather than
	// merely a (timestamp, price) pair. FromLotTimestamp is the zero
	// time.Time when FromLotIsSet is false.
	FromLotIsSet     bool
	FromLotIndex     int
	FromLotSynthetic bool
	FromLotSpotPrice rp2decimal.Decimal
	FromLotTimestamp time.Time

	// TaxableEventFractionPercent is take / taxable_event.crypto_taxable_amount
	// × 100, tracked independently of AcquiredLotFractionPercent because the
	// two denominators differ (the taxable event's total amount vs. the
	// acquired lot's total amount): the taxable-event fractions of one event
	// sum to 100, while the acquired-lot fractions of one lot sum to at most
	// 100 (less while part of the lot is unconsumed).
	TaxableEventFractionPercent rp2decimal.Decimal
	// AcquiredLotFractionPercent is take / from_lot.crypto_in × 100. Zero
	// when FromLotSynthetic is true (a Total Average lot is never "used up").
	AcquiredLotFractionPercent rp2decimal.Decimal

	// FiatProceeds and FiatCostBasis are the two independently-derived
	// amounts whose difference is the gain or loss; see FiatGain.
	FiatProceeds  rp2decimal.Decimal
	FiatCostBasis rp2decimal.Decimal

	CapitalGainType CapitalGainType
	IsEarnedIncome  bool
}

// FiatGain is FiatProceeds minus FiatCostBasis. It equals FiatProceeds
// outright for standalone taxable events (FromLotIsSet == false, e.g.
// ordinary income), whose FiatCostBasis is always zero.
func (g GainLoss) FiatGain() rp2decimal.Decimal {
	return g.FiatProceeds.Sub(g.FiatCostBasis)
}
