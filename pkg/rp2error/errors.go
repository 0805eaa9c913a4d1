// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package rp2error defines the typed error taxonomy raised throughout the
// tax engine. Every error except ConfigurationError carries the LineID of the
// input record that triggered it. ConfigurationError and MalformedInputError
// also wrap an optional underlying cause, so callers can use
// errors.As/errors.Is against both the taxonomy and the original failure.
package rp2error

import "fmt"

// ConfigurationError signals a malformed or inconsistent configuration
// (unreadable or unparsable config file, negative long-term threshold,
// to_date before from_date, unopenable input file).
type ConfigurationError struct {
	Reason string
	Cause  error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}
func (e *ConfigurationError) Unwrap() error { return e.Cause }

// MalformedInputError signals an input record that fails structural or
// value validation (negative amount where positive is required, spot price
// of zero, both crypto_fee and fiat_fee set, and so on).
type MalformedInputError struct {
	LineID string
	Reason string
	Cause  error
}

func (e *MalformedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed input (line %s): %s: %v", e.LineID, e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed input (line %s): %s", e.LineID, e.Reason)
}
func (e *MalformedInputError) Unwrap() error { return e.Cause }

// UnknownReferenceError signals a transaction that references an asset or
// an (exchange, holder) account outside the configured sets.
type UnknownReferenceError struct {
	LineID    string
	Reference string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown reference (line %s): %s", e.LineID, e.Reference)
}

// OrderingError signals an entry-set insertion whose LineID is already
// present in that set, which would make the (timestamp, LineID) order
// ambiguous.
type OrderingError struct {
	LineID string
	Reason string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("ordering error (line %s): %s", e.LineID, e.Reason)
}

// AcquiredLotsExhaustedError signals that a disposal needs to consume more
// crypto than remains available in any acquired lot at the time it occurs
// (selling more than was ever bought, a classic "phantom balance" bug in
// the input data).
type AcquiredLotsExhaustedError struct {
	LineID string
	Asset  string
	Needed string
}

func (e *AcquiredLotsExhaustedError) Error() string {
	return fmt.Sprintf("acquired lots exhausted (line %s): need %s more %s than any lot has remaining", e.LineID, e.Needed, e.Asset)
}

// BalanceUnderflowError signals that a computed running balance for an
// account/asset pair went negative.
type BalanceUnderflowError struct {
	LineID  string
	Asset   string
	Account string
}

func (e *BalanceUnderflowError) Error() string {
	return fmt.Sprintf("balance underflow (line %s): %s balance for %s went negative", e.LineID, e.Asset, e.Account)
}

// InconsistentAmountError signals that two independently derivable amounts
// on the same record disagree beyond the applicable rounding precision
// (e.g. crypto_in * spot_price vs fiat_in_no_fee).
type InconsistentAmountError struct {
	LineID string
	Reason string
}

func (e *InconsistentAmountError) Error() string {
	return fmt.Sprintf("inconsistent amount (line %s): %s", e.LineID, e.Reason)
}
