// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package entryset holds transactions of a single kind (acquisitions,
// disposals, or transfers) for a single asset, kept in canonical
// (timestamp, then LineID) order. It is a thin generic replacement for the
// original engine's per-type AbstractEntrySet classes.
package entryset

import (
	"sort"

	"cryptotax/pkg/rp2error"
	"cryptotax/pkg/transaction"
)

// Set is an ordered, asset-scoped collection of one transaction variant.
type Set[T transaction.Transaction] struct {
	asset   string
	entries []T
	sorted  bool
	seen    map[string]bool
}

// New creates an empty set scoped to asset.
func New[T transaction.Transaction](asset string) *Set[T] {
	return &Set[T]{asset: asset, seen: map[string]bool{}}
}

// Asset returns the asset symbol this set is scoped to.
func (s *Set[T]) Asset() string { return s.asset }

// Add appends an entry. It must belong to the set's asset; the caller is
// expected to have validated this already, but Add re-checks defensively
// since a mismatch here means a transformer bug, not a bad input record.
// Insertion rejects a LineID this set has already seen: two entries in the
// same entry set can never share a (timestamp, LineID) identity, since
// LineID alone is already unique per entry set by construction.
func (s *Set[T]) Add(entry T) error {
	if entry.Asset() != s.asset {
		return &rp2error.MalformedInputError{LineID: entry.LineID(), Reason: "asset " + entry.Asset() + " does not match entry set asset " + s.asset}
	}
	if s.seen[entry.LineID()] {
		return &rp2error.OrderingError{LineID: entry.LineID(), Reason: "duplicate line ID within entry set"}
	}
	s.seen[entry.LineID()] = true
	s.entries = append(s.entries, entry)
	s.sorted = false
	return nil
}

// Len returns the number of entries.
func (s *Set[T]) Len() int { return len(s.entries) }

// Sorted returns the entries in canonical order, sorting lazily and caching
// the result until the next Add.
func (s *Set[T]) Sorted() []T {
	if !s.sorted {
		sort.SliceStable(s.entries, func(i, j int) bool {
			return transaction.ByTimestampThenLineID(s.entries[i], s.entries[j])
		})
		s.sorted = true
	}
	return s.entries
}

// All is an alias for Sorted, for call sites that read better without the
// sorting connotation (e.g. iterating a balance snapshot).
func (s *Set[T]) All() []T { return s.Sorted() }
