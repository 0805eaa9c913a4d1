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

// Disposal records crypto leaving an account: a sale, a gift or donation
// given, a stand-alone fee payment, or (synthetically, via pkg/transform)
// the crypto lost in transit by an inter-account transfer.
type Disposal struct {
	common
	exchange      string
	holder        string
	cryptoOutNoFee rp2decimal.Decimal
	cryptoFee     rp2decimal.Decimal
	cryptoOutWithFee rp2decimal.Decimal
	fiatOutNoFee  rp2decimal.Decimal
	fiatFee       rp2decimal.Decimal
	fiatOutWithFee rp2decimal.Decimal
	uniqueID      string
}

var disposalTypes = map[TransactionType]bool{
	Sell: true, Donate: true, Gift: true, Fee: true, Move: true,
}

// DisposalParams is the raw, not-yet-validated input to NewDisposal.
type DisposalParams struct {
	LineID         string
	Timestamp      time.Time
	Asset          string
	Exchange       string
	Holder         string
	Type           TransactionType
	SpotPrice      rp2decimal.Decimal
	CryptoOutNoFee rp2decimal.Decimal
	CryptoFee      rp2decimal.Decimal
	FiatOutNoFee   *rp2decimal.Decimal
	FiatFee        *rp2decimal.Decimal
	UniqueID       string
	Notes          string
}

// NewDisposal validates p and builds a Disposal. FEE-type disposals must
// have CryptoOutNoFee exactly zero and CryptoFee strictly positive; every
// other type requires a positive CryptoOutNoFee and a non-zero spot price,
// with CryptoFee optionally zero.
func NewDisposal(cfg *config.Configuration, p DisposalParams) (*Disposal, error) {
	if !disposalTypes[p.Type] {
		return nil, &rp2error.MalformedInputError{LineID: p.LineID, Reason: "invalid disposal transaction type " + string(p.Type)}
	}
	if err := cfg.CheckAsset(p.LineID, p.Asset); err != nil {
		return nil, err
	}
	if err := cfg.CheckAccount(p.LineID, config.Account{Exchange: p.Exchange, Holder: p.Holder}); err != nil {
		return nil, err
	}

	if p.Type == Fee {
		if !p.CryptoOutNoFee.IsZero() {
			return nil, &rp2error.MalformedInputError{LineID: p.LineID, Reason: "FEE disposal must have crypto_out_no_fee == 0"}
		}
		if err := config.RequirePositiveDecimal(p.LineID, "crypto_fee", p.CryptoFee, true); err != nil {
			return nil, err
		}
	} else {
		if err := config.RequireNonZeroDecimal(p.LineID, "spot_price", p.SpotPrice); err != nil {
			return nil, err
		}
		if p.SpotPrice.IsNegative() {
			return nil, &rp2error.MalformedInputError{LineID: p.LineID, Reason: "spot_price must not be negative"}
		}
		if err := config.RequirePositiveDecimal(p.LineID, "crypto_out_no_fee", p.CryptoOutNoFee, true); err != nil {
			return nil, err
		}
		if err := config.RequirePositiveDecimal(p.LineID, "crypto_fee", p.CryptoFee, false); err != nil {
			return nil, err
		}
	}

	cryptoOutWithFee := p.CryptoOutNoFee.Add(p.CryptoFee)
	fiatFee := p.CryptoFee.Mul(p.SpotPrice)
	if p.FiatFee != nil {
		fiatFee = *p.FiatFee
	}
	fiatOutNoFee := p.CryptoOutNoFee.Mul(p.SpotPrice)
	if p.FiatOutNoFee != nil {
		if !p.FiatOutNoFee.EqualWithinFiat(fiatOutNoFee) {
			rp2log.Logger().Warn().Str("line_id", p.LineID).Str("asset", p.Asset).
				Msg("crypto_out_no_fee * spot_price disagrees with supplied fiat_out_no_fee")
		}
		fiatOutNoFee = *p.FiatOutNoFee
	}
	fiatOutWithFee := fiatOutNoFee.Add(fiatFee)

	return &Disposal{
		common: common{
			lineID: p.LineID, timestamp: p.Timestamp, asset: p.Asset,
			txType: p.Type, spotPrice: p.SpotPrice, notes: p.Notes,
		},
		exchange:         p.Exchange,
		holder:           p.Holder,
		cryptoOutNoFee:   p.CryptoOutNoFee,
		cryptoFee:        p.CryptoFee,
		cryptoOutWithFee: cryptoOutWithFee,
		fiatOutNoFee:     fiatOutNoFee,
		fiatFee:          fiatFee,
		fiatOutWithFee:   fiatOutWithFee,
		uniqueID:         p.UniqueID,
	}, nil
}

func (d *Disposal) Exchange() string                    { return d.exchange }
func (d *Disposal) Holder() string                       { return d.holder }
func (d *Disposal) CryptoOutNoFee() rp2decimal.Decimal    { return d.cryptoOutNoFee }
func (d *Disposal) CryptoFee() rp2decimal.Decimal         { return d.cryptoFee }
func (d *Disposal) CryptoOutWithFee() rp2decimal.Decimal  { return d.cryptoOutWithFee }
func (d *Disposal) FiatOutNoFee() rp2decimal.Decimal      { return d.fiatOutNoFee }
func (d *Disposal) FiatFee() rp2decimal.Decimal           { return d.fiatFee }
func (d *Disposal) FiatOutWithFee() rp2decimal.Decimal    { return d.fiatOutWithFee }
func (d *Disposal) UniqueID() string                      { return d.uniqueID }
func (d *Disposal) Account() config.Account               { return config.Account{Exchange: d.exchange, Holder: d.holder} }

// IsTaxable is always true: every disposal type removes value from an
// account and must be matched against acquired lots.
func (d *Disposal) IsTaxable() bool { return true }

// CryptoTaxableAmount returns CryptoFee for FEE-type disposals (the fee is
// the entire disposed amount), else CryptoOutWithFee: the taxable event
// includes the transactional fee, which is treated as additional disposed
// crypto rather than a separate deduction.
func (d *Disposal) CryptoTaxableAmount() rp2decimal.Decimal {
	if d.txType == Fee {
		return d.cryptoFee
	}
	return d.cryptoOutWithFee
}

// FiatTaxableAmount mirrors CryptoTaxableAmount in the fiat domain.
func (d *Disposal) FiatTaxableAmount() rp2decimal.Decimal {
	if d.txType == Fee {
		return d.fiatFee
	}
	return d.fiatOutWithFee
}
