package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Shree Traders")
	cfg.Ledger.CashAccountID = "galla"
	cfg.Log.Development = true

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "INR", cfg.Business.Currency)
	assert.Equal(t, "04-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "cash", cfg.Ledger.CashAccountID)
	assert.Equal(t, "data/ledgerbook.db", cfg.Store.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
}

func TestLoad_MissingFieldsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Only Name\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Only Name", got.Business.Name)
	assert.Equal(t, "INR", got.Business.Currency)
	assert.Equal(t, "cash", got.Ledger.CashAccountID)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business: [unclosed"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Biz")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "currency: INR")
	assert.Contains(t, contents, "year_start: 04-01")
	assert.Contains(t, contents, "cash_account_id: cash")
	assert.Contains(t, contents, "timezone: Asia/Kolkata")
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	body := "LEDGERBOOK_STORE_PATH=/var/lib/books.db\nLEDGERBOOK_LOG_LEVEL=debug\nLEDGERBOOK_CURRENCY=USD\n"
	require.NoError(t, os.WriteFile(envFile, []byte(body), 0o644))
	t.Setenv("LEDGERBOOK_LOG_LEVEL", "error")
	t.Setenv("LEDGERBOOK_LOG_DEVELOPMENT", "true")

	cfg := Default("x")
	require.NoError(t, cfg.ApplyEnv(envFile))

	assert.Equal(t, "/var/lib/books.db", cfg.Store.Path, "from .env")
	assert.Equal(t, "USD", cfg.Business.Currency, "from .env")
	assert.Equal(t, "error", cfg.Log.Level, "process environment wins")
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, "cash", cfg.Ledger.CashAccountID, "untouched")

	_, set := os.LookupEnv("LEDGERBOOK_STORE_PATH")
	assert.False(t, set, ".env values do not leak into the process")
}

func TestApplyEnv_MissingFileIgnored(t *testing.T) {
	cfg := Default("x")
	require.NoError(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), ".env")))
	assert.Equal(t, Default("x"), cfg)
}

func TestLocation(t *testing.T) {
	cfg := Default("x")
	cfg.Ledger.Timezone = "UTC"
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Ledger.Timezone = ""
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Ledger.Timezone = "Mars/Olympus_Mons"
	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestYearContaining(t *testing.T) {
	cfg := Default("x")

	tests := []struct {
		day        time.Time
		id, s, end string
	}{
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), "FY2025", "2025-04-01", "2026-03-31"},
		{time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC), "FY2025", "2025-04-01", "2026-03-31"},
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "FY2024", "2024-04-01", "2025-03-31"},
	}
	for _, tt := range tests {
		fy, err := cfg.YearContaining(tt.day)
		require.NoError(t, err)
		assert.Equal(t, tt.id, fy.ID)
		assert.Equal(t, tt.s, fy.StartDate)
		assert.Equal(t, tt.end, fy.EndDate)
		assert.True(t, fy.IsActive)
	}

	cfg.Fiscal.YearStart = "01-01"
	fy, err := cfg.YearContaining(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", fy.EndDate)

	cfg.Fiscal.YearStart = "april"
	_, err = cfg.YearContaining(time.Now())
	assert.Error(t, err)
}
