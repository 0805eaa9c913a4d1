// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package accounting defines the accounting-method protocol (the pluggable
// strategy for deciding which acquired lot a disposal draws down first) and
// a registry of the five built-in methods. It mirrors the original engine's
// plugin/accounting_method package, but replaces filesystem-discovered
// plugins and AVL-tree candidate indexes with an explicit in-process
// registry and linear candidate scans, which the specification accepts as
// sufficient at the target scale of this engine (on the order of 10^5
// transactions per asset).
package accounting

import (
	"time"

	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/transaction"
)

// CandidatesOrder is the direction in which a method scans its candidate
// lots. Candidates itself is always ordered ascending; each method does its
// own traversal.
type CandidatesOrder int

const (
	// OlderToNewer presents lots from earliest to latest acquisition date.
	OlderToNewer CandidatesOrder = iota
	// NewerToOlder presents lots from latest to earliest acquisition date.
	NewerToOlder
)

// LotRef identifies the acquired lot (or, for Total Average, the synthetic
// averaged lot) a Seek call selected to satisfy part of a disposal.
type LotRef struct {
	// Synthetic is true for a lot that does not correspond to a single
	// Acquisition record (only Total Average produces these).
	Synthetic bool
	// Index is the position of the chosen lot within the Candidates slice
	// passed to Seek when Synthetic is false. When Synthetic is true, Index
	// instead carries the tax year the synthetic lot belongs to, so
	// OnConsume can find its bucket without re-deriving it from AcquiredAt
	// (which for a synthetic lot holds the earliest contributing
	// acquisition's date, not the disposal's own year).
	Index int
	// SpotPrice is the cost-basis price per unit to apply.
	SpotPrice rp2decimal.Decimal
	// AcquiredAt is the acquisition instant to use for the holding-period
	// (long/short term) computation.
	AcquiredAt time.Time
}

// Candidates is the read-only view of acquired lots a Method consults to
// pick which one satisfies the next unit of a disposal. Lots and Remaining
// are fixed for the whole run and ordered ascending by acquisition
// timestamp; Active is the exclusive upper bound of lots that exist as of
// the taxable event currently being paired (a lot acquired after the
// current event is not yet a candidate for anyone, no matter which method
// is running). The engine advances Active monotonically as it walks the
// taxable event timeline and decrements Remaining[i] after each pairing
// step that draws from a non-synthetic lot, so a method's Seek
// implementation always observes the true state as of the moment it runs.
type Candidates struct {
	Lots      []*transaction.Acquisition
	Remaining []rp2decimal.Decimal
	Active    int
}

// HasPartialAmount reports whether the lot at i has been partially, but not
// fully, consumed by an earlier pairing step.
func (c *Candidates) HasPartialAmount(i int) bool {
	return c.Remaining[i].IsPositive() && c.Remaining[i].LessThanWithinCrypto(c.Lots[i].CryptoIn())
}

// GetPartialAmount returns the amount still remaining in the lot at i.
func (c *Candidates) GetPartialAmount(i int) rp2decimal.Decimal { return c.Remaining[i] }

// Method is the accounting-method protocol. Implementations are stateless
// with respect to Candidates (all real-lot bookkeeping lives in the shared
// Remaining slice the engine owns) except for Total Average, which tracks
// its own cumulative-consumption state and is notified of each draw via
// OnConsume.
type Method interface {
	// Name is the lowercase identifier used in configuration and reports
	// (e.g. "fifo").
	Name() string
	// LotCandidatesOrder reports the direction in which this method scans
	// Candidates. The engine does not read it: it always builds Candidates
	// in ascending acquisition order.
	LotCandidatesOrder() CandidatesOrder
	// SeekNonExhaustedAcquiredLot picks the lot that should supply the next
	// portion of a disposal for amount units of taxableEvent. It returns
	// (ref, remaining, true) on success, or (LotRef{}, zero, false) if no
	// lot with remaining capacity exists.
	SeekNonExhaustedAcquiredLot(candidates *Candidates, taxableEvent transaction.Transaction, amount rp2decimal.Decimal) (LotRef, rp2decimal.Decimal, bool)
	// OnConsume is called after the engine draws take units from the lot
	// identified by ref. Real-lot methods (FIFO/LIFO/HIFO/LOFO) can ignore
	// this: the engine already decremented Candidates.Remaining for them.
	// Total Average uses it to advance its own internal counters.
	OnConsume(ref LotRef, take rp2decimal.Decimal)
}

// YearRestrictable is implemented by methods that can optionally restrict
// candidate lots to the disposal's own tax year (LIFO, when the run's
// jurisdiction requires it). The engine probes for this interface after
// constructing a method and applies config.Configuration.SameYearLotRestriction
// if present.
type YearRestrictable interface {
	SetSameYearRestriction(bool)
}
