// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package transaction

import (
	"time"

	"cryptotax/pkg/config"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/rp2error"
	"cryptotax/pkg/rp2log"
)

// Acquisition records crypto entering an account: a purchase, a gift or
// donation received, or one of the earn-type events (airdrop, hard fork,
// income, interest, mining, staking, wages).
type Acquisition struct {
	common
	exchange      string
	holder        string
	cryptoIn      rp2decimal.Decimal
	cryptoFee     rp2decimal.Decimal
	fiatInNoFee   rp2decimal.Decimal
	fiatInWithFee rp2decimal.Decimal
	fiatFee       rp2decimal.Decimal
	uniqueID      string
}

var acquisitionTypes = map[TransactionType]bool{
	Buy: true, Airdrop: true, Donate: true, Gift: true, HardFork: true,
	Income: true, Interest: true, Mining: true, Staking: true, Wages: true,
}

// AcquisitionParams is the raw, not-yet-validated input to NewAcquisition.
// Fields left at their zero value are derived: FiatInNoFee defaults to
// CryptoIn * SpotPrice, FiatInWithFee defaults to FiatInNoFee + FiatFee, and
// at most one of CryptoFee/FiatFee may be supplied. A supplied CryptoFee
// sets FiatFee to CryptoFee * SpotPrice; a supplied FiatFee leaves
// CryptoFee at zero.
type AcquisitionParams struct {
	LineID        string
	Timestamp     time.Time
	Asset         string
	Exchange      string
	Holder        string
	Type          TransactionType
	SpotPrice     rp2decimal.Decimal
	CryptoIn      rp2decimal.Decimal
	CryptoFee     *rp2decimal.Decimal
	FiatInNoFee   *rp2decimal.Decimal
	FiatInWithFee *rp2decimal.Decimal
	FiatFee       *rp2decimal.Decimal
	UniqueID      string
	Notes         string
}

// NewAcquisition validates p and builds an Acquisition. Validation mirrors
// the constraints the original engine enforces on InTransaction: spot price
// must be non-zero, crypto_in must be positive (except for STAKING, where a
// negative crypto_in models a protocol slashing event), and at most one of
// CryptoFee/FiatFee may be supplied.
func NewAcquisition(cfg *config.Configuration, p AcquisitionParams) (*Acquisition, error) {
	if !acquisitionTypes[p.Type] {
		return nil, &rp2error.MalformedInputError{LineID: p.LineID, Reason: "invalid acquisition transaction type " + string(p.Type)}
	}
	if err := cfg.CheckAsset(p.LineID, p.Asset); err != nil {
		return nil, err
	}
	if err := cfg.CheckAccount(p.LineID, config.Account{Exchange: p.Exchange, Holder: p.Holder}); err != nil {
		return nil, err
	}
	if err := config.RequireNonZeroDecimal(p.LineID, "spot_price", p.SpotPrice); err != nil {
		return nil, err
	}
	if p.SpotPrice.IsNegative() {
		return nil, &rp2error.MalformedInputError{LineID: p.LineID, Reason: "spot_price must not be negative"}
	}
	if p.Type == Staking {
		// Staking rewards may be negative: some protocols slash the stash
		// rather than add to it.
	} else if err := config.RequirePositiveDecimal(p.LineID, "crypto_in", p.CryptoIn, true); err != nil {
		return nil, err
	}

	if p.CryptoFee != nil && p.FiatFee != nil {
		return nil, &rp2error.MalformedInputError{LineID: p.LineID, Reason: "both crypto_fee and fiat_fee set: only one allowed"}
	}

	cryptoFee := rp2decimal.Zero
	fiatFee := rp2decimal.Zero
	if p.CryptoFee != nil {
		if err := config.RequirePositiveDecimal(p.LineID, "crypto_fee", *p.CryptoFee, false); err != nil {
			return nil, err
		}
		cryptoFee = *p.CryptoFee
		fiatFee = cryptoFee.Mul(p.SpotPrice)
	} else if p.FiatFee != nil {
		if err := config.RequirePositiveDecimal(p.LineID, "fiat_fee", *p.FiatFee, false); err != nil {
			return nil, err
		}
		fiatFee = *p.FiatFee
	}

	fiatInNoFee := p.CryptoIn.Mul(p.SpotPrice)
	if p.FiatInNoFee != nil {
		if err := config.RequirePositiveDecimal(p.LineID, "fiat_in_no_fee", *p.FiatInNoFee, true); err != nil {
			return nil, err
		}
		if !p.FiatInNoFee.EqualWithinFiat(fiatInNoFee) {
			rp2log.Logger().Warn().Str("line_id", p.LineID).Str("asset", p.Asset).
				Str("computed", fiatInNoFee.StringFixedFiat()).Str("supplied", p.FiatInNoFee.StringFixedFiat()).
				Msg("crypto_in * spot_price disagrees with supplied fiat_in_no_fee")
		}
		fiatInNoFee = *p.FiatInNoFee
	}

	fiatInWithFee := fiatInNoFee.Add(fiatFee)
	if p.FiatInWithFee != nil {
		if err := config.RequirePositiveDecimal(p.LineID, "fiat_in_with_fee", *p.FiatInWithFee, true); err != nil {
			return nil, err
		}
		if !p.FiatInWithFee.EqualWithinFiat(fiatInWithFee) {
			rp2log.Logger().Warn().Str("line_id", p.LineID).Str("asset", p.Asset).
				Msg("fiat_in_with_fee disagrees with fiat_in_no_fee + fiat_fee")
		}
		fiatInWithFee = *p.FiatInWithFee
	}

	return &Acquisition{
		common: common{
			lineID: p.LineID, timestamp: p.Timestamp, asset: p.Asset,
			txType: p.Type, spotPrice: p.SpotPrice, notes: p.Notes,
		},
		exchange:      p.Exchange,
		holder:        p.Holder,
		cryptoIn:      p.CryptoIn,
		cryptoFee:     cryptoFee,
		fiatInNoFee:   fiatInNoFee,
		fiatInWithFee: fiatInWithFee,
		fiatFee:       fiatFee,
		uniqueID:      p.UniqueID,
	}, nil
}

func (a *Acquisition) Exchange() string               { return a.exchange }
func (a *Acquisition) Holder() string                 { return a.holder }
func (a *Acquisition) CryptoIn() rp2decimal.Decimal    { return a.cryptoIn }
func (a *Acquisition) CryptoFee() rp2decimal.Decimal   { return a.cryptoFee }
func (a *Acquisition) FiatInNoFee() rp2decimal.Decimal { return a.fiatInNoFee }
func (a *Acquisition) FiatInWithFee() rp2decimal.Decimal { return a.fiatInWithFee }
func (a *Acquisition) FiatFee() rp2decimal.Decimal     { return a.fiatFee }
func (a *Acquisition) UniqueID() string                { return a.uniqueID }
func (a *Acquisition) Account() config.Account         { return config.Account{Exchange: a.exchange, Holder: a.holder} }

// IsTaxable reports whether receiving this transaction constitutes a
// taxable event. Every acquisition type except BUY is taxable: earn-type
// events are ordinary income, and gifts/donations received establish a
// taxable receipt at their fair market value.
func (a *Acquisition) IsTaxable() bool { return a.txType != Buy }

// CryptoTaxableAmount is CryptoIn if IsTaxable, else zero.
func (a *Acquisition) CryptoTaxableAmount() rp2decimal.Decimal {
	if a.IsTaxable() {
		return a.cryptoIn
	}
	return rp2decimal.Zero
}

// FiatTaxableAmount is FiatInNoFee if IsTaxable, else zero. The fee is
// deliberately excluded here: receiving 1 BTC of staking income at a spot
// price of $100 is $100 of ordinary income whether or not a fee was paid to
// receive it, so the taxable amount tracks the no-fee valuation.
func (a *Acquisition) FiatTaxableAmount() rp2decimal.Decimal {
	if a.IsTaxable() {
		return a.fiatInNoFee
	}
	return rp2decimal.Zero
}
