// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package csvimport reads the engine's own generic CSV input format and
// builds validated transaction.Acquisition/Disposal/Transfer records from
// it. It is the direct descendant of the teacher CLI's parseCSVFile /
// parseGenericRecord functions, reworked to emit typed transactions instead
// of the flat Tx struct the original single-file tool used, and to report
// row-level errors through pkg/rp2error instead of silently skipping bad
// rows.
//
// Row format (header required):
//
//	timestamp, asset, type, exchange, holder, spot_price, crypto_amount,
//	crypto_fee, fiat_fee, to_exchange, to_holder, crypto_received,
//	unique_id, notes
//
// type is one of: BUY, SELL, AIRDROP, DONATE_IN, DONATE_OUT, GIFT_IN,
// GIFT_OUT, HARDFORK, INCOME, INTEREST, MINING, STAKING, WAGES, FEE,
// TRANSFER. The DONATE/GIFT _IN and _OUT suffixes exist only in the CSV
// vocabulary, to disambiguate direction for a transaction.TransactionType
// that is legal on both Acquisition and Disposal; they are stripped before
// the row is handed to the corresponding constructor.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"cryptotax/pkg/config"
	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/rp2error"
	"cryptotax/pkg/rp2log"
	"cryptotax/pkg/transaction"
)

// Result holds every transaction parsed from one or more files.
type Result struct {
	Acquisitions []*transaction.Acquisition
	Disposals    []*transaction.Disposal
	Transfers    []*transaction.Transfer
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(lineID, raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, &rp2error.MalformedInputError{LineID: lineID, Reason: fmt.Sprintf("cannot parse timestamp %q", raw)}
}

func optionalDecimal(lineID, field, raw string) (*rp2decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := rp2decimal.NewFromString(raw)
	if err != nil {
		return nil, &rp2error.MalformedInputError{LineID: lineID, Reason: fmt.Sprintf("cannot parse %s %q", field, raw), Cause: err}
	}
	return &d, nil
}

// ImportFile parses a single CSV file at path.
func ImportFile(cfg *config.Configuration, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, &rp2error.ConfigurationError{Reason: "cannot open input file " + path, Cause: err}
	}
	defer f.Close()
	return Import(cfg, f, path)
}

// Import parses rows from r. sourceName is used to build LineIDs (so
// duplicate LineIDs across files with the same row numbers cannot collide).
func Import(cfg *config.Configuration, r io.Reader, sourceName string) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, &rp2error.MalformedInputError{LineID: sourceName, Reason: "cannot read CSV header", Cause: err}
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var result Result
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, &rp2error.MalformedInputError{LineID: sourceName, Reason: "cannot read CSV row", Cause: err}
		}
		rowNum++
		lineID := sourceName + ":" + strconv.Itoa(rowNum)

		rawType := strings.ToUpper(get(row, "type"))
		ts, err := parseTime(lineID, get(row, "timestamp"))
		if err != nil {
			return Result{}, err
		}
		spotPrice, err := cfg.NumericColumn(lineID, "spot_price", col, row, false)
		if err != nil {
			return Result{}, err
		}
		cryptoFee, err := optionalDecimal(lineID, "crypto_fee", get(row, "crypto_fee"))
		if err != nil {
			return Result{}, err
		}
		fiatFee, err := optionalDecimal(lineID, "fiat_fee", get(row, "fiat_fee"))
		if err != nil {
			return Result{}, err
		}

		switch rawType {
		case "TRANSFER":
			cryptoSent, err := cfg.NumericColumn(lineID, "crypto_amount", col, row, true)
			if err != nil {
				return Result{}, err
			}
			cryptoReceived, err := cfg.NumericColumn(lineID, "crypto_received", col, row, true)
			if err != nil {
				return Result{}, err
			}
			transfer, err := transaction.NewTransfer(cfg, transaction.TransferParams{
				LineID: lineID, Timestamp: ts, Asset: get(row, "asset"), SpotPrice: spotPrice,
				FromExchange: get(row, "exchange"), FromHolder: get(row, "holder"),
				ToExchange: get(row, "to_exchange"), ToHolder: get(row, "to_holder"),
				CryptoSent: cryptoSent, CryptoReceived: cryptoReceived, Notes: get(row, "notes"),
			})
			if err != nil {
				return Result{}, err
			}
			result.Transfers = append(result.Transfers, transfer)

		case "SELL", "DONATE_OUT", "GIFT_OUT", "FEE":
			disposalType, err := disposalTypeFor(lineID, rawType)
			if err != nil {
				return Result{}, err
			}
			cryptoOutNoFee, err := cfg.NumericColumn(lineID, "crypto_amount", col, row, true)
			if err != nil {
				return Result{}, err
			}
			fee := rp2decimal.Zero
			if cryptoFee != nil {
				fee = *cryptoFee
			}
			disposal, err := transaction.NewDisposal(cfg, transaction.DisposalParams{
				LineID: lineID, Timestamp: ts, Asset: get(row, "asset"), Exchange: get(row, "exchange"),
				Holder: get(row, "holder"), Type: disposalType, SpotPrice: spotPrice,
				CryptoOutNoFee: cryptoOutNoFee, CryptoFee: fee, FiatFee: fiatFee,
				UniqueID: get(row, "unique_id"), Notes: get(row, "notes"),
			})
			if err != nil {
				return Result{}, err
			}
			result.Disposals = append(result.Disposals, disposal)

		case "BUY", "AIRDROP", "DONATE_IN", "GIFT_IN", "HARDFORK", "INCOME", "INTEREST", "MINING", "STAKING", "WAGES":
			acquisitionType, err := acquisitionTypeFor(lineID, rawType)
			if err != nil {
				return Result{}, err
			}
			cryptoIn, err := cfg.NumericColumn(lineID, "crypto_amount", col, row, true)
			if err != nil {
				return Result{}, err
			}
			acquisition, err := transaction.NewAcquisition(cfg, transaction.AcquisitionParams{
				LineID: lineID, Timestamp: ts, Asset: get(row, "asset"), Exchange: get(row, "exchange"),
				Holder: get(row, "holder"), Type: acquisitionType, SpotPrice: spotPrice,
				CryptoIn: cryptoIn, CryptoFee: cryptoFee, FiatFee: fiatFee,
				UniqueID: get(row, "unique_id"), Notes: get(row, "notes"),
			})
			if err != nil {
				return Result{}, err
			}
			result.Acquisitions = append(result.Acquisitions, acquisition)

		default:
			return Result{}, &rp2error.MalformedInputError{LineID: lineID, Reason: "unknown transaction type " + rawType}
		}
	}

	rp2log.Logger().Debug().Str("source", sourceName).Int("acquisitions", len(result.Acquisitions)).
		Int("disposals", len(result.Disposals)).Int("transfers", len(result.Transfers)).Msg("csv import complete")
	return result, nil
}

func disposalTypeFor(lineID, rawType string) (transaction.TransactionType, error) {
	switch rawType {
	case "SELL":
		return transaction.Sell, nil
	case "DONATE_OUT":
		return transaction.Donate, nil
	case "GIFT_OUT":
		return transaction.Gift, nil
	case "FEE":
		return transaction.Fee, nil
	default:
		return "", &rp2error.MalformedInputError{LineID: lineID, Reason: "not a disposal type: " + rawType}
	}
}

func acquisitionTypeFor(lineID, rawType string) (transaction.TransactionType, error) {
	switch rawType {
	case "DONATE_IN":
		return transaction.Donate, nil
	case "GIFT_IN":
		return transaction.Gift, nil
	default:
		return transaction.ParseTransactionType(rawType)
	}
}
