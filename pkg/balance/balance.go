// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package balance derives per-account, per-asset running balances from an
// asset's transaction book, mirroring the original engine's balance.py:
// three independent passes accumulate acquired, sent, received and final
// balances, any of which the caller can request as of a cutoff date rather
// than only as of "now".
package balance

import (
	"time"

	"cryptotax/pkg/config"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/rp2error"
	"cryptotax/pkg/transform"
)

// Balance is one account's balance snapshot for one asset as of a cutoff
// date. Final is Acquired + Received - Sent, and must never go negative.
type Balance struct {
	Asset    string
	Account  config.Account
	Acquired rp2decimal.Decimal
	Sent     rp2decimal.Decimal
	Received rp2decimal.Decimal
	Final    rp2decimal.Decimal
}

// Compute derives balances for every account that appears in book, as of
// toDate (inclusive). Passing the zero time.Time computes balances as of
// all time.
func Compute(book *transform.AssetBook, toDate time.Time) (map[config.Account]*Balance, error) {
	unbounded := toDate.IsZero()
	within := func(ts time.Time) bool { return unbounded || !ts.After(toDate) }

	balances := map[config.Account]*Balance{}
	get := func(acc config.Account) *Balance {
		b, ok := balances[acc]
		if !ok {
			b = &Balance{Asset: book.Asset, Account: acc, Acquired: rp2decimal.Zero, Sent: rp2decimal.Zero, Received: rp2decimal.Zero, Final: rp2decimal.Zero}
			balances[acc] = b
		}
		return b
	}

	for _, a := range book.Acquisitions.Sorted() {
		if !within(a.Timestamp()) {
			break
		}
		b := get(a.Account())
		b.Acquired = b.Acquired.Add(a.CryptoIn())
		b.Final = b.Final.Add(a.CryptoIn())
	}

	for _, t := range book.Transfers.Sorted() {
		if !within(t.Timestamp()) {
			break
		}
		from := get(t.FromAccount())
		from.Sent = from.Sent.Add(t.CryptoSent())
		from.Final = from.Final.Sub(t.CryptoSent())

		to := get(t.ToAccount())
		to.Received = to.Received.Add(t.CryptoReceived())
		to.Final = to.Final.Add(t.CryptoReceived())
	}

	// A transfer's fee is already part of its CryptoSent above, so the FEE
	// disposal pkg/transform synthesizes for it is not subtracted again.
	transferFeeLineIDs := map[string]bool{}
	for _, t := range book.Transfers.Sorted() {
		transferFeeLineIDs[t.LineID()+"/fee"] = true
	}

	for _, d := range book.Disposals.Sorted() {
		if !within(d.Timestamp()) {
			break
		}
		if transferFeeLineIDs[d.LineID()] {
			continue
		}
		b := get(d.Account())
		total := d.CryptoOutNoFee().Add(d.CryptoFee())
		b.Sent = b.Sent.Add(total)
		b.Final = b.Final.Sub(total)
	}

	for _, b := range balances {
		if b.Final.IsNegative() {
			return nil, &rp2error.BalanceUnderflowError{LineID: "balance", Asset: b.Asset, Account: b.Account.String()}
		}
	}

	return balances, nil
}
