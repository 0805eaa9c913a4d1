// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package engine

import (
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/rp2error"
	"cryptotax/pkg/transaction"
)

// verifyAgainstIndependentFIFO recomputes total disposed amount and total
// realized gain with a minimal, independently-written FIFO queue and
// compares against the pairing results. It only runs for the FIFO method,
// mirroring the original engine's _verify_computation, which is likewise
// gated to accounting_method == "fifo": FIFO is simple enough to
// reimplement from scratch as a cross-check, whereas HIFO/LOFO/LIFO/Total
// Average are not worth duplicating just to validate themselves.
func verifyAgainstIndependentFIFO(acquisitions []*transaction.Acquisition, disposals []*transaction.Disposal, results []GainLoss) error {
	type queueEntry struct {
		remaining rp2decimal.Decimal
		spotPrice rp2decimal.Decimal
	}
	queue := make([]queueEntry, 0, len(acquisitions))
	for _, a := range acquisitions {
		queue = append(queue, queueEntry{remaining: a.CryptoIn(), spotPrice: a.SpotPrice()})
	}

	independentGain := rp2decimal.Zero
	head := 0
	for _, d := range disposals {
		need := d.CryptoTaxableAmount()
		for need.IsPositive() {
			for head < len(queue) && !queue[head].remaining.IsPositive() {
				head++
			}
			if head >= len(queue) {
				return &rp2error.AcquiredLotsExhaustedError{LineID: d.LineID(), Asset: d.Asset(), Needed: need.String()}
			}
			take := need
			if queue[head].remaining.LessThanWithinCrypto(need) {
				take = queue[head].remaining
			}
			proceeds := take.Mul(d.SpotPrice())
			basis := take.Mul(queue[head].spotPrice)
			independentGain = independentGain.Add(proceeds.Sub(basis))
			queue[head].remaining = queue[head].remaining.Sub(take)
			need = need.Sub(take)
		}
	}

	reportedGain := rp2decimal.Zero
	for _, r := range results {
		if r.IsEarnedIncome {
			continue
		}
		reportedGain = reportedGain.Add(r.FiatGain())
	}

	if !reportedGain.EqualWithinFiat(independentGain) {
		return &rp2error.InconsistentAmountError{
			LineID: "verification",
			Reason: "FIFO pairing result disagrees with independent recomputation: " + reportedGain.StringFixedFiat() + " != " + independentGain.StringFixedFiat(),
		}
	}
	return nil
}
