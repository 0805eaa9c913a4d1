// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Package config holds the jurisdiction- and run-level settings that shape
// how the engine interprets input: the long-term holding threshold, whether
// LIFO candidate lookup is restricted to the disposal's own tax year,
// the reporting fiat currency, the reporting date window, and the set of
// assets/accounts the run is scoped to. It also carries the field-validation
// helpers every transaction constructor uses, mirroring how the original
// Configuration.type_check_* family centralized validation in one place.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"cryptotax/pkg/rp2decimal"
	"cryptotax/pkg/rp2error"
)

const dateOnlyLayout = "2006-01-02"

// Configuration is constructed with New or Load. Its fields are exported:
// cmd/taxengine sets the method name and reporting window from its flags
// before importing any transaction, and no package under pkg/ modifies a
// Configuration.
type Configuration struct {
	// FiatCurrency is the reporting currency code (e.g. "USD").
	FiatCurrency string
	// LongTermThresholdDays is the minimum holding period, in days, for a
	// disposal to be classified as a long-term capital gain. A disposal
	// held for exactly this many days is long-term (threshold is
	// inclusive, i.e. the comparison is ">=").
	LongTermThresholdDays int
	// SameYearLotRestriction restricts LIFO (the only built-in method that
	// implements accounting.YearRestrictable) to only consider lots acquired
	// in the disposal's own tax year.
	SameYearLotRestriction bool
	// AccountingMethodName is the accounting.Method name ("fifo", "lifo",
	// "hifo", "lofo", "total_average") this run was configured with. It is
	// informational at the Configuration level; the driver is what actually
	// resolves it via accounting.New.
	AccountingMethodName string
	// FromDate and ToDate bound the reporting window applied at the
	// ComputedData layer (see computeddata.Build): a transaction outside
	// this window is still ingested and still affects cost basis, but is
	// excluded from the final report. The zero time.Time means unbounded.
	FromDate time.Time
	ToDate   time.Time
	// Assets, when non-empty, is the set of asset symbols the run
	// processes; entries for other assets are rejected at parse time.
	Assets map[string]bool
	// Exchanges and Holders, when non-empty, are the individual-membership
	// sets derived from Accounts; IsKnownExchange/IsKnownHolder consult
	// them directly, independent of the (exchange, holder) pairing
	// CheckAccount enforces.
	Exchanges map[string]bool
	Holders   map[string]bool
	// Accounts, when non-empty, is the set of (exchange, holder) pairs the
	// run recognizes; entries for other accounts are rejected.
	Accounts map[Account]bool
}

// Account identifies a wallet or exchange sub-account holding a balance.
type Account struct {
	Exchange string
	Holder   string
}

func (a Account) String() string { return a.Exchange + ":" + a.Holder }

// Params are the validated inputs New assembles into a Configuration.
type Params struct {
	FiatCurrency           string
	LongTermThresholdDays  int
	SameYearLotRestriction bool
	AccountingMethodName   string
	FromDate               time.Time
	ToDate                 time.Time
	Assets                 []string
	Accounts               []Account
}

// fileFormat is the on-disk TOML shape loaded by Load.
type fileFormat struct {
	FiatCurrency           string   `toml:"fiat_currency"`
	LongTermThresholdDays  int      `toml:"long_term_threshold_days"`
	SameYearLotRestriction bool     `toml:"same_year_lot_restriction"`
	AccountingMethod       string   `toml:"accounting_method"`
	FromDate               string   `toml:"from_date"`
	ToDate                 string   `toml:"to_date"`
	Assets                 []string `toml:"assets"`
	Accounts               []struct {
		Exchange string `toml:"exchange"`
		Holder   string `toml:"holder"`
	} `toml:"accounts"`
}

// Default returns the configuration used when no config file is supplied:
// USD reporting, a 365-day long-term threshold, no year restriction on
// chronological candidate methods, an unbounded date window, and no
// asset/account whitelisting.
func Default() *Configuration {
	return &Configuration{
		FiatCurrency:           "USD",
		LongTermThresholdDays:  365,
		SameYearLotRestriction: false,
		Assets:                 map[string]bool{},
		Exchanges:              map[string]bool{},
		Holders:                map[string]bool{},
		Accounts:               map[Account]bool{},
	}
}

// New validates p and assembles a Configuration. It is the sole constructor
// Load and any programmatic caller (tests, embedders) ultimately funnel
// through, mirroring the original engine's single Configuration.__init__.
func New(p Params) (*Configuration, error) {
	cfg := Default()
	if p.FiatCurrency != "" {
		cfg.FiatCurrency = p.FiatCurrency
	}
	if p.LongTermThresholdDays != 0 {
		cfg.LongTermThresholdDays = p.LongTermThresholdDays
	}
	cfg.SameYearLotRestriction = p.SameYearLotRestriction
	cfg.AccountingMethodName = p.AccountingMethodName
	cfg.FromDate = p.FromDate
	cfg.ToDate = p.ToDate
	for _, asset := range p.Assets {
		cfg.Assets[asset] = true
	}
	for _, acc := range p.Accounts {
		cfg.Accounts[acc] = true
		cfg.Exchanges[acc.Exchange] = true
		cfg.Holders[acc.Holder] = true
	}

	if cfg.LongTermThresholdDays < 0 {
		return nil, &rp2error.ConfigurationError{Reason: "long_term_threshold_days must not be negative"}
	}
	if !cfg.FromDate.IsZero() && !cfg.ToDate.IsZero() && cfg.ToDate.Before(cfg.FromDate) {
		return nil, &rp2error.ConfigurationError{Reason: "to_date must not be before from_date"}
	}
	return cfg, nil
}

// Load parses a TOML configuration file. Missing optional fields fall back
// to Default's values.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &rp2error.ConfigurationError{Reason: fmt.Sprintf("cannot read config file %s", path), Cause: err}
	}
	var raw fileFormat
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, &rp2error.ConfigurationError{Reason: fmt.Sprintf("cannot parse config file %s", path), Cause: err}
	}

	params := Params{
		FiatCurrency:           raw.FiatCurrency,
		LongTermThresholdDays:  raw.LongTermThresholdDays,
		SameYearLotRestriction: raw.SameYearLotRestriction,
		AccountingMethodName:   raw.AccountingMethod,
		Assets:                 raw.Assets,
	}
	for _, acc := range raw.Accounts {
		params.Accounts = append(params.Accounts, Account{Exchange: acc.Exchange, Holder: acc.Holder})
	}
	if raw.FromDate != "" {
		d, err := time.Parse(dateOnlyLayout, raw.FromDate)
		if err != nil {
			return nil, &rp2error.ConfigurationError{Reason: fmt.Sprintf("cannot parse from_date %q", raw.FromDate), Cause: err}
		}
		params.FromDate = d
	}
	if raw.ToDate != "" {
		d, err := time.Parse(dateOnlyLayout, raw.ToDate)
		if err != nil {
			return nil, &rp2error.ConfigurationError{Reason: fmt.Sprintf("cannot parse to_date %q", raw.ToDate), Cause: err}
		}
		// ToDate is inclusive; push it to the last instant of that day so a
		// transaction timestamped anywhere within the day is retained.
		params.ToDate = d.Add(24*time.Hour - time.Nanosecond)
	}

	return New(params)
}

// IsKnownAsset reports whether asset is in the configured asset whitelist.
// An empty whitelist accepts every asset.
func (c *Configuration) IsKnownAsset(asset string) bool {
	return len(c.Assets) == 0 || c.Assets[asset]
}

// IsKnownExchange reports whether exchange has appeared in the configured
// account whitelist. An empty whitelist accepts every exchange.
func (c *Configuration) IsKnownExchange(exchange string) bool {
	return len(c.Exchanges) == 0 || c.Exchanges[exchange]
}

// IsKnownHolder reports whether holder has appeared in the configured
// account whitelist. An empty whitelist accepts every holder.
func (c *Configuration) IsKnownHolder(holder string) bool {
	return len(c.Holders) == 0 || c.Holders[holder]
}

// LongTermPeriodDays returns the configured long-term holding threshold, in
// days. It exists alongside the LongTermThresholdDays field so call sites
// that prefer a method (e.g. generic code that only holds a *Configuration
// through an interface) don't need to know the field name.
func (c *Configuration) LongTermPeriodDays() int {
	return c.LongTermThresholdDays
}

// CheckAsset validates asset against the configured whitelist, if any.
func (c *Configuration) CheckAsset(lineID, asset string) error {
	if asset == "" {
		return &rp2error.MalformedInputError{LineID: lineID, Reason: "asset is empty"}
	}
	if !c.IsKnownAsset(asset) {
		return &rp2error.UnknownReferenceError{LineID: lineID, Reference: fmt.Sprintf("asset %q is not in the configured asset set", asset)}
	}
	return nil
}

// CheckAccount validates an (exchange, holder) pair against the configured
// whitelist, if any.
func (c *Configuration) CheckAccount(lineID string, account Account) error {
	if account.Exchange == "" || account.Holder == "" {
		return &rp2error.MalformedInputError{LineID: lineID, Reason: "exchange and holder must both be non-empty"}
	}
	if len(c.Accounts) > 0 && !c.Accounts[account] {
		return &rp2error.UnknownReferenceError{LineID: lineID, Reference: fmt.Sprintf("account %s is not in the configured account set", account)}
	}
	return nil
}

// NumericColumn resolves field within row using header, a column-name-to-
// index mapping such as the one internal/csvimport builds from a CSV header
// row, and parses the resulting cell as a Decimal. When mandatory is true, a
// missing column or empty cell is a MalformedInputError; when false, it
// yields ZERO.
func (c *Configuration) NumericColumn(lineID, field string, header map[string]int, row []string, mandatory bool) (rp2decimal.Decimal, error) {
	idx, ok := header[field]
	var raw string
	if ok && idx < len(row) {
		raw = strings.TrimSpace(row[idx])
	}
	if raw == "" {
		if mandatory {
			return rp2decimal.Zero, &rp2error.MalformedInputError{LineID: lineID, Reason: fmt.Sprintf("missing mandatory field %s", field)}
		}
		return rp2decimal.Zero, nil
	}
	d, err := rp2decimal.NewFromString(raw)
	if err != nil {
		return rp2decimal.Zero, &rp2error.MalformedInputError{LineID: lineID, Reason: fmt.Sprintf("cannot parse %s %q", field, raw), Cause: err}
	}
	return d, nil
}

// RequirePositiveDecimal validates that v is greater than zero (or, when
// nonZero is false, greater than or equal to zero).
func RequirePositiveDecimal(lineID, field string, v rp2decimal.Decimal, nonZero bool) error {
	if v.IsNegative() {
		return &rp2error.MalformedInputError{LineID: lineID, Reason: fmt.Sprintf("%s must not be negative, got %s", field, v.String())}
	}
	if nonZero && v.IsZero() {
		return &rp2error.MalformedInputError{LineID: lineID, Reason: fmt.Sprintf("%s must be non-zero", field)}
	}
	return nil
}

// RequireNonZeroDecimal validates that v is not exactly zero, positive or negative.
func RequireNonZeroDecimal(lineID, field string, v rp2decimal.Decimal) error {
	if v.IsZero() {
		return &rp2error.MalformedInputError{LineID: lineID, Reason: fmt.Sprintf("%s must not be zero", field)}
	}
	return nil
}
