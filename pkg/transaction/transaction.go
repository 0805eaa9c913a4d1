// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package transaction defines the three transaction variants the engine
// operates on (Acquisition, Disposal, Transfer), each
// implementing the shared Transaction interface. Where the original Python
// engine used a class hierarchy and exceptions for validation, Go uses a
// closed set of concrete structs plus explicit error returns from their
// constructors.
package transaction

import (
	"time"

	"cryptotax/pkg/rp2decimal"
)

// Transaction is the capability every variant shares: identity, ordering,
// and asset/price context. It intentionally does not expose type-specific
// amount fields; callers type-switch on the concrete type (or use the
// narrower TaxableTransaction interface) to reach those.
type Transaction interface {
	LineID() string
	Timestamp() time.Time
	Asset() string
	Type() TransactionType
	SpotPrice() rp2decimal.Decimal
	Notes() string
}

// TaxableTransaction is implemented by transactions that can generate a
// GainLoss entry when paired by the engine: Acquisitions (for earn-type
// income) and Disposals (including the synthetic transfer-fee FEE disposals).
type TaxableTransaction interface {
	Transaction
	IsTaxable() bool
	CryptoTaxableAmount() rp2decimal.Decimal
	FiatTaxableAmount() rp2decimal.Decimal
}

// common holds the fields shared by every variant.
type common struct {
	lineID    string
	timestamp time.Time
	asset     string
	txType    TransactionType
	spotPrice rp2decimal.Decimal
	notes     string
}

func (c *common) LineID() string                    { return c.lineID }
func (c *common) Timestamp() time.Time               { return c.timestamp }
func (c *common) Asset() string                      { return c.asset }
func (c *common) Type() TransactionType              { return c.txType }
func (c *common) SpotPrice() rp2decimal.Decimal      { return c.spotPrice }
func (c *common) Notes() string                      { return c.notes }

// ByTimestampThenLineID sorts transactions into the engine's canonical
// order: ascending timestamp, ties broken by LineID (which callers should
// assign as a stable input-order sequence number so ties resolve
// deterministically and reproducibly across runs).
func ByTimestampThenLineID(a, b Transaction) bool {
	if !a.Timestamp().Equal(b.Timestamp()) {
		return a.Timestamp().Before(b.Timestamp())
	}
	return a.LineID() < b.LineID()
}
