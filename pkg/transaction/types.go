// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package transaction

import "fmt"

// TransactionType is the semantic tag distinguishing why crypto moved.
// Acquisitions and disposals each accept only a subset of these values;
// NewAcquisition and NewDisposal enforce that.
type TransactionType string

const (
	Buy      TransactionType = "BUY"
	Airdrop  TransactionType = "AIRDROP"
	Donate   TransactionType = "DONATE"
	Gift     TransactionType = "GIFT"
	HardFork TransactionType = "HARDFORK"
	Income   TransactionType = "INCOME"
	Interest TransactionType = "INTEREST"
	Mining   TransactionType = "MINING"
	Staking  TransactionType = "STAKING"
	Wages    TransactionType = "WAGES"

	Sell TransactionType = "SELL"
	Fee  TransactionType = "FEE"

	// Move is the type every Transfer carries. NewDisposal accepts it, but
	// pkg/transform does not create Move disposals: it represents a
	// transfer's fee as a FEE disposal. The CSV importer never yields it.
	Move TransactionType = "MOVE"
)

var earnTypes = map[TransactionType]bool{
	Airdrop:  true,
	HardFork: true,
	Income:   true,
	Interest: true,
	Mining:   true,
	Staking:  true,
	Wages:    true,
}

// IsEarnType reports whether t represents newly-created income (as opposed
// to a transfer of pre-existing value such as a gift or donation).
func (t TransactionType) IsEarnType() bool { return earnTypes[t] }

func (t TransactionType) String() string { return string(t) }

// ParseTransactionType normalizes and validates a raw string against the
// full set of known transaction types (the caller decides which subset is
// legal for the record it is building).
func ParseTransactionType(raw string) (TransactionType, error) {
	switch TransactionType(raw) {
	case Buy, Airdrop, Donate, Gift, HardFork, Income, Interest, Mining, Staking, Wages, Sell, Fee, Move:
		return TransactionType(raw), nil
	default:
		return "", fmt.Errorf("transaction: unknown transaction type %q", raw)
	}
}
