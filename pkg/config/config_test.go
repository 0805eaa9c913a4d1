// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptotax/pkg/config"
	"cryptotax/pkg/rp2decimal"
)

func TestDefaultConfiguration(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "USD", cfg.FiatCurrency)
	assert.Equal(t, 365, cfg.LongTermThresholdDays)
	assert.False(t, cfg.SameYearLotRestriction)
}

func TestLoadFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cryptotax.toml")
	contents := `
fiat_currency = "EUR"
long_term_threshold_days = 366
same_year_lot_restriction = true
assets = ["BTC", "ETH"]

[[accounts]]
exchange = "Coinbase"
holder = "alice"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.FiatCurrency)
	assert.Equal(t, 366, cfg.LongTermThresholdDays)
	assert.True(t, cfg.SameYearLotRestriction)
	assert.NoError(t, cfg.CheckAsset("L1", "BTC"))
	assert.Error(t, cfg.CheckAsset("L1", "DOGE"))
	assert.NoError(t, cfg.CheckAccount("L1", config.Account{Exchange: "Coinbase", Holder: "alice"}))
	assert.Error(t, cfg.CheckAccount("L1", config.Account{Exchange: "Kraken", Holder: "alice"}))
}

func TestLoadFromTOMLParsesDateWindowAndMethod(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cryptotax.toml")
	contents := `
accounting_method = "lifo"
from_date = "2022-01-01"
to_date = "2022-12-31"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lifo", cfg.AccountingMethodName)
	assert.Equal(t, 2022, cfg.FromDate.Year())
	assert.Equal(t, 2022, cfg.ToDate.Year())
	assert.True(t, cfg.ToDate.After(cfg.FromDate))
}

func TestNewRejectsToDateBeforeFromDate(t *testing.T) {
	_, err := config.New(config.Params{
		FromDate: time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
}

func TestIsKnownMembershipChecks(t *testing.T) {
	cfg, err := config.New(config.Params{
		Assets:   []string{"BTC"},
		Accounts: []config.Account{{Exchange: "Coinbase", Holder: "alice"}},
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsKnownAsset("BTC"))
	assert.False(t, cfg.IsKnownAsset("DOGE"))
	assert.True(t, cfg.IsKnownExchange("Coinbase"))
	assert.False(t, cfg.IsKnownExchange("Kraken"))
	assert.True(t, cfg.IsKnownHolder("alice"))
	assert.False(t, cfg.IsKnownHolder("bob"))

	unrestricted := config.Default()
	assert.True(t, unrestricted.IsKnownAsset("ANYTHING"))
	assert.True(t, unrestricted.IsKnownExchange("ANYTHING"))
	assert.True(t, unrestricted.IsKnownHolder("ANYTHING"))
}

func TestLongTermPeriodDays(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, cfg.LongTermThresholdDays, cfg.LongTermPeriodDays())
}

func TestNumericColumn(t *testing.T) {
	cfg := config.Default()
	header := map[string]int{"spot_price": 0, "crypto_amount": 1}
	row := []string{"100.5", ""}

	v, err := cfg.NumericColumn("L1", "spot_price", header, row, true)
	require.NoError(t, err)
	assert.True(t, v.EqualWithinFiat(rp2decimal.NewFromFloat(100.5)))

	_, err = cfg.NumericColumn("L1", "crypto_amount", header, row, true)
	require.Error(t, err)

	v, err = cfg.NumericColumn("L1", "crypto_amount", header, row, false)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	_, err = cfg.NumericColumn("L1", "missing_field", header, row, true)
	require.Error(t, err)
}

func TestRequirePositiveDecimal(t *testing.T) {
	assert.NoError(t, config.RequirePositiveDecimal("L1", "amount", rp2decimal.NewFromInt(1), true))
	assert.Error(t, config.RequirePositiveDecimal("L1", "amount", rp2decimal.NewFromInt(0), true))
	assert.NoError(t, config.RequirePositiveDecimal("L1", "amount", rp2decimal.NewFromInt(0), false))
	assert.Error(t, config.RequirePositiveDecimal("L1", "amount", rp2decimal.NewFromInt(-1), false))
}
