// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package transaction

import (
	"time"

	"cryptotax/pkg/config"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/rp2error"
)

// Transfer moves crypto between two accounts the run controls. It is never
// itself taxable; pkg/transform turns the fee portion (if any) into a
// synthetic FEE disposal and, in the universal application model, otherwise
// leaves cost basis untouched (moving a lot between accounts does not reset
// its acquisition date or cost).
type Transfer struct {
	common
	fromExchange   string
	fromHolder     string
	toExchange     string
	toHolder       string
	cryptoSent     rp2decimal.Decimal
	cryptoReceived rp2decimal.Decimal
}

// TransferParams is the raw, not-yet-validated input to NewTransfer.
type TransferParams struct {
	LineID         string
	Timestamp      time.Time
	Asset          string
	FromExchange   string
	FromHolder     string
	ToExchange     string
	ToHolder       string
	SpotPrice      rp2decimal.Decimal
	CryptoSent     rp2decimal.Decimal
	CryptoReceived rp2decimal.Decimal
	Notes          string
}

// NewTransfer validates p and builds a Transfer. CryptoReceived must not
// exceed CryptoSent (the difference is the network/exchange fee); both must
// be positive.
func NewTransfer(cfg *config.Configuration, p TransferParams) (*Transfer, error) {
	if err := cfg.CheckAsset(p.LineID, p.Asset); err != nil {
		return nil, err
	}
	if err := cfg.CheckAccount(p.LineID, config.Account{Exchange: p.FromExchange, Holder: p.FromHolder}); err != nil {
		return nil, err
	}
	if err := cfg.CheckAccount(p.LineID, config.Account{Exchange: p.ToExchange, Holder: p.ToHolder}); err != nil {
		return nil, err
	}
	if p.FromExchange == p.ToExchange && p.FromHolder == p.ToHolder {
		return nil, &rp2error.MalformedInputError{LineID: p.LineID, Reason: "transfer source and destination accounts are identical"}
	}
	if err := config.RequirePositiveDecimal(p.LineID, "crypto_sent", p.CryptoSent, true); err != nil {
		return nil, err
	}
	if err := config.RequirePositiveDecimal(p.LineID, "crypto_received", p.CryptoReceived, true); err != nil {
		return nil, err
	}
	if p.CryptoReceived.GreaterThanWithinCrypto(p.CryptoSent) {
		return nil, &rp2error.MalformedInputError{LineID: p.LineID, Reason: "crypto_received exceeds crypto_sent"}
	}

	return &Transfer{
		common: common{
			lineID: p.LineID, timestamp: p.Timestamp, asset: p.Asset,
			txType: Move, spotPrice: p.SpotPrice, notes: p.Notes,
		},
		fromExchange:   p.FromExchange,
		fromHolder:     p.FromHolder,
		toExchange:     p.ToExchange,
		toHolder:       p.ToHolder,
		cryptoSent:     p.CryptoSent,
		cryptoReceived: p.CryptoReceived,
	}, nil
}

func (t *Transfer) FromAccount() config.Account { return config.Account{Exchange: t.fromExchange, Holder: t.fromHolder} }
func (t *Transfer) ToAccount() config.Account   { return config.Account{Exchange: t.toExchange, Holder: t.toHolder} }
func (t *Transfer) CryptoSent() rp2decimal.Decimal     { return t.cryptoSent }
func (t *Transfer) CryptoReceived() rp2decimal.Decimal { return t.cryptoReceived }

// CryptoFee is the crypto lost in transit: CryptoSent - CryptoReceived.
func (t *Transfer) CryptoFee() rp2decimal.Decimal { return t.cryptoSent.Sub(t.cryptoReceived) }
