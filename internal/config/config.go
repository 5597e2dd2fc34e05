package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// FileName is the config file created by `ledgerbook init`.
const FileName = "ledgerbook.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LEDGERBOOK_"

// Config represents the top-level ledgerbook.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Fiscal   FiscalConfig   `yaml:"fiscal"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the business and the currency its books are kept in.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"` // ISO 4217, e.g. "INR"
}

// FiscalConfig defines where financial years begin.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "04-01"
}

// LedgerConfig controls ledger projection.
type LedgerConfig struct {
	CashAccountID string `yaml:"cash_account_id"`
	Timezone      string `yaml:"timezone"` // IANA name; decides what "today" is
}

// StoreConfig locates the bbolt database.
type StoreConfig struct {
	Path string `yaml:"path"` // relative paths resolve against the project root
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	Actor       string `yaml:"actor"` // name written to the activity log
}

// Load reads a ledgerbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: "INR",
		},
		Fiscal: FiscalConfig{
			YearStart: "04-01",
		},
		Ledger: LedgerConfig{
			CashAccountID: "cash",
			Timezone:      "Asia/Kolkata",
		},
		Store: StoreConfig{
			Path: "data/ledgerbook.db",
		},
		Log: LogConfig{
			Level: "warn",
			Actor: "cli",
		},
	}
}

// ApplyEnv overlays LEDGERBOOK_* settings. Values come from envFile (a .env file; a missing
// file is ignored) and then from the process environment, which wins.
func (c *Config) ApplyEnv(envFile string) error {
	vals := map[string]string{}
	if envFile != "" {
		read, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			vals = read
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	lookup := func(name string) (string, bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			return v, true
		}
		v, ok := vals[EnvPrefix+name]
		return v, ok
	}

	for name, dst := range map[string]*string{
		"BUSINESS_NAME":   &c.Business.Name,
		"CURRENCY":        &c.Business.Currency,
		"YEAR_START":      &c.Fiscal.YearStart,
		"CASH_ACCOUNT_ID": &c.Ledger.CashAccountID,
		"TIMEZONE":        &c.Ledger.Timezone,
		"STORE_PATH":      &c.Store.Path,
		"LOG_LEVEL":       &c.Log.Level,
		"ACTOR":           &c.Log.Actor,
	} {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup("LOG_DEVELOPMENT"); ok {
		c.Log.Development = v == "true" || v == "1"
	}
	return nil
}

// Location resolves the configured time zone. An empty name means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Ledger.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Ledger.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", c.Ledger.Timezone, err)
	}
	return loc, nil
}

// YearContaining returns the financial year, per Fiscal.YearStart, that contains day.
// Its id is "FY" followed by the calendar year it starts in.
func (c *Config) YearContaining(day time.Time) (model.FinancialYear, error) {
	var month, dom int
	if _, err := fmt.Sscanf(c.Fiscal.YearStart, "%d-%d", &month, &dom); err != nil ||
		month < 1 || month > 12 || dom < 1 || dom > 28 {
		return model.FinancialYear{}, fmt.Errorf("invalid fiscal year_start %q (want MM-DD, day 1-28)", c.Fiscal.YearStart)
	}

	day = model.Day(day)
	start := time.Date(day.Year(), time.Month(month), dom, 0, 0, 0, 0, time.UTC)
	if day.Before(start) {
		start = start.AddDate(-1, 0, 0)
	}
	end := start.AddDate(1, 0, -1)
	return model.FinancialYear{
		ID:        fmt.Sprintf("FY%d", start.Year()),
		StartDate: model.FormatDate(start),
		EndDate:   model.FormatDate(end),
		IsActive:  true,
	}, nil
}
