package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/fiscal"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/records"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store     *store.Memory
	accounts  *accounts.Registry
	years     *fiscal.Manager
	records   *records.Repository
	projector *Projector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	s := store.NewMemory()
	f := &fixture{
		store:    s,
		accounts: accounts.NewRegistry(s, log),
		years:    fiscal.NewManager(s, log),
		records:  records.NewRepository(s, log),
	}
	f.projector = NewProjector(f.accounts, f.years, f.records, log)

	require.NoError(t, f.accounts.Seed(accounts.DefaultAccounts("")))
	require.NoError(t, f.years.AddYear(model.FinancialYear{ID: "FY2025", StartDate: "2025-04-01", EndDate: "2026-03-31", IsActive: true}))
	return f
}

func (f *fixture) party(t *testing.T, id string, typ model.AccountType) {
	t.Helper()
	require.NoError(t, f.accounts.Upsert(model.Account{ID: id, Name: id, Type: typ}))
}

func (f *fixture) opening(t *testing.T, ob model.OpeningBalance) {
	t.Helper()
	ob.YearID = "FY2025"
	require.NoError(t, f.years.SaveOpeningBalances(ob))
}

func (f *fixture) add(t *testing.T, src model.Source) model.Source {
	t.Helper()
	out, err := f.records.Add(src)
	require.NoError(t, err)
	return out
}

func balances(entries []model.LedgerEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Balance.StringFixed(2) + " " + e.BalanceType.Short()
	}
	return out
}

func sourceTypes(entries []model.LedgerEntry) []model.SourceType {
	out := make([]model.SourceType, len(entries))
	for i, e := range entries {
		out[i] = e.SourceType
	}
	return out
}
