// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package computeddata rolls per-pairing GainLoss entries up into the
// yearly summaries a tax return actually needs, grouping by
// (year, asset, transaction type, long/short term), the same key the
// original engine's _create_unfiltered_yearly_gain_loss_list uses. It is
// also where the configured [from_date, to_date] reporting window is
// applied: the engine itself runs unfiltered, since a transaction outside
// the window still establishes or consumes cost basis, but this layer
// drops it from what actually gets reported.
package computeddata

import (
	"sort"
	"time"

	"cryptotax/pkg/balance"
	"cryptotax/pkg/config"
	"cryptotax/pkg/engine"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
)

// YearlyKey identifies one summary bucket.
type YearlyKey struct {
	Year            int
	Asset           string
	TransactionType transaction.TransactionType
	CapitalGainType engine.CapitalGainType
}

// YearlySummary aggregates every GainLoss entry sharing a YearlyKey.
type YearlySummary struct {
	Key           YearlyKey
	Count         int
	TotalTaxable  rp2decimal.Decimal
	TotalFiatGain rp2decimal.Decimal
}

// ComputedData is the final per-asset output: the raw pairings within the
// configured reporting window, their yearly roll-up, and the per-account
// balances as of the window's end, ready for internal/report to render.
type ComputedData struct {
	Asset       string
	GainLosses  []engine.GainLoss
	YearSummary []YearlySummary
	Balances    map[config.Account]*balance.Balance
	FromDate    time.Time
	ToDate      time.Time
}

// Build aggregates gainLosses for a single asset into a ComputedData. Any
// GainLoss whose taxable event falls outside cfg's [FromDate, ToDate]
// window (when configured) is excluded from both GainLosses and
// YearSummary; the caller is expected to have run engine.Compute
// unfiltered, since the window is a reporting-layer concern only. balances
// may be nil when the caller has no balance snapshot to attach. The yearly
// summary is returned sorted by (year, transaction type, capital gain
// type) for stable, deterministic report output.
func Build(cfg *config.Configuration, asset string, gainLosses []engine.GainLoss, balances map[config.Account]*balance.Balance) ComputedData {
	inWindow := func(gl engine.GainLoss) bool {
		ts := gl.TaxableEvent.Timestamp()
		if !cfg.FromDate.IsZero() && ts.Before(cfg.FromDate) {
			return false
		}
		if !cfg.ToDate.IsZero() && ts.After(cfg.ToDate) {
			return false
		}
		return true
	}

	filtered := make([]engine.GainLoss, 0, len(gainLosses))
	buckets := map[YearlyKey]*YearlySummary{}
	for _, gl := range gainLosses {
		if !inWindow(gl) {
			continue
		}
		filtered = append(filtered, gl)

		key := YearlyKey{
			Year:            gl.TaxableEvent.Timestamp().Year(),
			Asset:           asset,
			TransactionType: gl.TaxableEvent.Type(),
			CapitalGainType: gl.CapitalGainType,
		}
		b, ok := buckets[key]
		if !ok {
			b = &YearlySummary{Key: key, TotalTaxable: rp2decimal.Zero, TotalFiatGain: rp2decimal.Zero}
			buckets[key] = b
		}
		b.Count++
		b.TotalTaxable = b.TotalTaxable.Add(gl.TaxableAmount)
		b.TotalFiatGain = b.TotalFiatGain.Add(gl.FiatGain())
	}

	summaries := make([]YearlySummary, 0, len(buckets))
	for _, b := range buckets {
		summaries = append(summaries, *b)
	}
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].Key, summaries[j].Key
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.TransactionType != b.TransactionType {
			return a.TransactionType < b.TransactionType
		}
		return a.CapitalGainType < b.CapitalGainType
	})

	return ComputedData{
		Asset:       asset,
		GainLosses:  filtered,
		YearSummary: summaries,
		Balances:    balances,
		FromDate:    cfg.FromDate,
		ToDate:      cfg.ToDate,
	}
}
