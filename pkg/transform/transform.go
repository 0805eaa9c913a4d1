// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package transform assembles validated transactions into per-asset books
// ready for pkg/engine and pkg/balance. It plays the role the original
// engine's input loading and per-plugin InputPlugin machinery played,
// minus the parsing itself (that lives in internal/csvimport): by the time
// a transaction reaches this package it is already a *transaction.Acquisition,
// *transaction.Disposal, or *transaction.Transfer.
package transform

import (
	"cryptotax/pkg/config"
	"cryptotax/pkg/entryset"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/rp2error"
	"cryptotax/pkg/transaction"
)

// AssetBook holds every transaction touching one asset, grouped by variant
// and kept in canonical order. Disposals also receives a synthetic FEE
// disposal for every Transfer whose CryptoFee is positive: crypto lost in
// transit permanently leaves the universe the engine tracks and must be
// paired against acquired lots like any other disposal, even though the
// Transfer record itself never reaches pkg/engine.
type AssetBook struct {
	Asset        string
	Acquisitions *entryset.Set[*transaction.Acquisition]
	Disposals    *entryset.Set[*transaction.Disposal]
	Transfers    *entryset.Set[*transaction.Transfer]
}

// Build groups the given transactions by asset and synthesizes transfer-fee
// disposals. It returns rp2error.MalformedInputError if the input contains
// duplicate LineIDs, which would otherwise silently corrupt tie-break
// ordering downstream.
func Build(cfg *config.Configuration, acquisitions []*transaction.Acquisition, disposals []*transaction.Disposal, transfers []*transaction.Transfer) (map[string]*AssetBook, error) {
	books := map[string]*AssetBook{}
	seenLineIDs := map[string]bool{}

	bookFor := func(asset string) *AssetBook {
		b, ok := books[asset]
		if !ok {
			b = &AssetBook{
				Asset:        asset,
				Acquisitions: entryset.New[*transaction.Acquisition](asset),
				Disposals:    entryset.New[*transaction.Disposal](asset),
				Transfers:    entryset.New[*transaction.Transfer](asset),
			}
			books[asset] = b
		}
		return b
	}

	checkLineID := func(lineID string) error {
		if seenLineIDs[lineID] {
			return &rp2error.MalformedInputError{LineID: lineID, Reason: "duplicate line ID"}
		}
		seenLineIDs[lineID] = true
		return nil
	}

	for _, a := range acquisitions {
		if err := checkLineID(a.LineID()); err != nil {
			return nil, err
		}
		if err := bookFor(a.Asset()).Acquisitions.Add(a); err != nil {
			return nil, err
		}
	}
	for _, d := range disposals {
		if err := checkLineID(d.LineID()); err != nil {
			return nil, err
		}
		if err := bookFor(d.Asset()).Disposals.Add(d); err != nil {
			return nil, err
		}
	}
	for _, t := range transfers {
		if err := checkLineID(t.LineID()); err != nil {
			return nil, err
		}
		book := bookFor(t.Asset())
		if err := book.Transfers.Add(t); err != nil {
			return nil, err
		}
		if t.CryptoFee().IsPositive() {
			feeDisposal, err := transaction.NewDisposal(cfg, transaction.DisposalParams{
				LineID:         t.LineID() + "/fee",
				Timestamp:      t.Timestamp(),
				Asset:          t.Asset(),
				Exchange:       t.FromAccount().Exchange,
				Holder:         t.FromAccount().Holder,
				Type:           transaction.Fee,
				SpotPrice:      t.SpotPrice(),
				CryptoOutNoFee: rp2decimal.Zero,
				CryptoFee:      t.CryptoFee(),
				Notes:          "synthesized from transfer " + t.LineID(),
			})
			if err != nil {
				return nil, err
			}
			if err := book.Disposals.Add(feeDisposal); err != nil {
				return nil, err
			}
		}
	}

	return books, nil
}
