// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package report renders computeddata.ComputedData into the human-readable
// summary the CLI prints, in the spirit of the teacher CLI's printSummary
// function: one section per asset, one line per year/type/term bucket, plus
// a grand total.
package report

import (
	"fmt"
	"io"
	"sort"

	"cryptotax/pkg/computeddata"
	"cryptotax/pkg/config"
	"cryptotax/pkg/rp2decimal"
)

// Options filters what PrintSummary renders.
type Options struct {
	// Year, when non-zero, restricts output to that tax year.
	Year int
	// Verbose prints one line per individual pairing in addition to the
	// yearly roll-up.
	Verbose bool
}

// PrintSummary writes a report for every asset in data, sorted by asset
// symbol for reproducible output.
func PrintSummary(w io.Writer, data []computeddata.ComputedData, opts Options) error {
	sorted := make([]computeddata.ComputedData, len(data))
	copy(sorted, data)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Asset < sorted[j].Asset })

	grandTotal := rp2decimal.Zero
	for _, cd := range sorted {
		if _, err := fmt.Fprintf(w, "=== %s ===\n", cd.Asset); err != nil {
			return err
		}
		assetTotal := rp2decimal.Zero
		for _, s := range cd.YearSummary {
			if opts.Year != 0 && s.Key.Year != opts.Year {
				continue
			}
			if _, err := fmt.Fprintf(w, "  %d  %-10s %-11s  n=%-4d  taxable=%-14s  gain=%s\n",
				s.Key.Year, s.Key.TransactionType, s.Key.CapitalGainType,
				s.Count, s.TotalTaxable.StringFixedCrypto(), s.TotalFiatGain.StringFixedFiat(),
			); err != nil {
				return err
			}
			assetTotal = assetTotal.Add(s.TotalFiatGain)
		}
		if _, err := fmt.Fprintf(w, "  --- %s total gain: %s ---\n", cd.Asset, assetTotal.StringFixedFiat()); err != nil {
			return err
		}
		grandTotal = grandTotal.Add(assetTotal)

		if opts.Verbose {
			for _, gl := range cd.GainLosses {
				if opts.Year != 0 && gl.TaxableEvent.Timestamp().Year() != opts.Year {
					continue
				}
				if _, err := fmt.Fprintf(w, "    %s  %s  amount=%s  gain=%s\n",
					gl.TaxableEvent.Timestamp().Format("2006-01-02"), gl.TaxableEvent.Type(),
					gl.TaxableAmount.StringFixedCrypto(), gl.FiatGain().StringFixedFiat(),
				); err != nil {
					return err
				}
			}
		}

		if len(cd.Balances) > 0 {
			accounts := make([]config.Account, 0, len(cd.Balances))
			for acc := range cd.Balances {
				accounts = append(accounts, acc)
			}
			sort.Slice(accounts, func(i, j int) bool { return accounts[i].String() < accounts[j].String() })
			for _, acc := range accounts {
				b := cd.Balances[acc]
				if _, err := fmt.Fprintf(w, "  balance  %-24s  final=%s\n", acc.String(), b.Final.StringFixedCrypto()); err != nil {
					return err
				}
			}
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal gain across all assets: %s\n", grandTotal.StringFixedFiat())
	return err
}
