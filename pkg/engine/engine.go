// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package engine implements the core gain/loss pairing algorithm: given an
// asset's acquisitions and disposals, and an accounting method, it produces
// the ordered list of GainLoss entries that make up that asset's tax
// computation for every year present in the data. It is a direct port of
// the original engine's tax_engine.compute_tax, generalized to run behind
// the pluggable accounting.Method protocol instead of a single hardcoded
// FIFO implementation.
package engine

import (
	"time"

	"cryptotax/pkg/accounting"
	"cryptotax/pkg/config"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/rp2error"
	"cryptotax/pkg/transaction"
)

// Compute runs the pairing algorithm for a single asset. acquisitions and
// disposals must already be sorted in canonical (timestamp, LineID) order,
// as entryset.Set.Sorted returns them; disposals may include the synthetic
// transfer-fee FEE entries produced by pkg/transform.
func Compute(cfg *config.Configuration, method accounting.Method, acquisitions []*transaction.Acquisition, disposals []*transaction.Disposal) ([]GainLoss, error) {
	if r, ok := method.(accounting.YearRestrictable); ok {
		r.SetSameYearRestriction(cfg.SameYearLotRestriction)
	}

	candidates := &accounting.Candidates{
		Lots:      acquisitions,
		Remaining: make([]rp2decimal.Decimal, len(acquisitions)),
	}
	for i, lot := range acquisitions {
		candidates.Remaining[i] = lot.CryptoIn()
	}

	events := mergeTaxableEvents(acquisitions, disposals)

	var results []GainLoss
	lotCursor := 0
	for _, event := range events {
		// Advance the active window to include every lot acquired at or
		// before this event; a lot from later in the timeline can never
		// satisfy an earlier disposal.
		for lotCursor < len(acquisitions) && !acquisitions[lotCursor].Timestamp().After(event.Timestamp()) {
			lotCursor++
		}
		candidates.Active = lotCursor

		if acq, ok := event.(*transaction.Acquisition); ok {
			results = append(results, GainLoss{
				TaxableEvent:                acq,
				TaxableAmount:               acq.CryptoTaxableAmount(),
				FromLotIndex:                -1,
				TaxableEventFractionPercent: rp2decimal.Hundred,
				FiatProceeds:                acq.FiatTaxableAmount(),
				CapitalGainType:             ShortTerm,
				IsEarnedIncome:              true,
			})
			continue
		}

		disposal := event.(*transaction.Disposal)
		total := disposal.CryptoTaxableAmount()
		need := total
		for need.IsPositive() {
			ref, remaining, found := method.SeekNonExhaustedAcquiredLot(candidates, disposal, need)
			if !found {
				return nil, &rp2error.AcquiredLotsExhaustedError{LineID: disposal.LineID(), Asset: disposal.Asset(), Needed: need.String()}
			}
			take := need
			if remaining.LessThanWithinCrypto(need) {
				take = remaining
			}

			taxableEventFraction, _ := take.Div(total)
			results = append(results, GainLoss{
				TaxableEvent:                disposal,
				TaxableAmount:               take,
				FromLotIsSet:                true,
				FromLotIndex:                ref.Index,
				FromLotSynthetic:            ref.Synthetic,
				FromLotSpotPrice:            ref.SpotPrice,
				FromLotTimestamp:            ref.AcquiredAt,
				TaxableEventFractionPercent: taxableEventFraction.Mul(rp2decimal.Hundred),
				AcquiredLotFractionPercent:  fraction(take, ref, candidates).Mul(rp2decimal.Hundred),
				FiatProceeds:                take.Mul(disposal.SpotPrice()),
				FiatCostBasis:               take.Mul(ref.SpotPrice),
				CapitalGainType:             capitalGainType(cfg, ref.AcquiredAt, disposal.Timestamp()),
			})

			if !ref.Synthetic {
				candidates.Remaining[ref.Index] = candidates.Remaining[ref.Index].Sub(take)
			}
			method.OnConsume(ref, take)

			need = need.Sub(take)
		}
	}

	if method.Name() == "fifo" {
		if err := verifyAgainstIndependentFIFO(acquisitions, disposals, results); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// mergeTaxableEvents builds the chronological sequence of taxable events:
// every disposal, plus every acquisition whose IsTaxable() is true (BUY
// acquisitions establish cost basis only and never appear here).
func mergeTaxableEvents(acquisitions []*transaction.Acquisition, disposals []*transaction.Disposal) []transaction.Transaction {
	events := make([]transaction.Transaction, 0, len(disposals)+len(acquisitions))
	for _, d := range disposals {
		events = append(events, d)
	}
	for _, a := range acquisitions {
		if a.IsTaxable() {
			events = append(events, a)
		}
	}
	// Stable sort keeps disposals and acquisitions that land on the exact
	// same timestamp in the tie-break order transaction.ByTimestampThenLineID
	// defines (ascending LineID), which is deterministic across runs.
	insertionSortByCanonicalOrder(events)
	return events
}

func insertionSortByCanonicalOrder(events []transaction.Transaction) {
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && transaction.ByTimestampThenLineID(events[j], events[j-1]); j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}

func fraction(take rp2decimal.Decimal, ref accounting.LotRef, candidates *accounting.Candidates) rp2decimal.Decimal {
	if ref.Synthetic {
		return rp2decimal.Zero
	}
	total := candidates.Lots[ref.Index].CryptoIn()
	f, ok := take.Div(total)
	if !ok {
		return rp2decimal.Zero
	}
	return f
}

// capitalGainType classifies a pairing as long- or short-term. A disposal
// held for at least cfg.LongTermThresholdDays from its from-lot's
// acquisition date is long-term; the comparison is inclusive ("at least",
// not "strictly more than"), so a lot sold on the exact anniversary of its
// acquisition is long-term.
func capitalGainType(cfg *config.Configuration, acquired, disposed time.Time) CapitalGainType {
	threshold := acquired.AddDate(0, 0, cfg.LongTermThresholdDays)
	if disposed.Before(threshold) {
		return ShortTerm
	}
	return LongTerm
}
