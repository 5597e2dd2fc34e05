package accounts

import "github.com/cleared-dev/ledgerbook/internal/model"

// Well-known account IDs.
const (
	CashAccountID     = "cash"
	ExpensesAccountID = "expenses"
)

// DefaultAccounts returns the system accounts every new book starts with.
func DefaultAccounts(cashID string) []model.Account {
	if cashID == "" {
		cashID = CashAccountID
	}
	return []model.Account{
		{ID: cashID, Name: "Cash", Type: model.AccountTypeCash, OpeningBalanceType: model.BalanceDebit, IsSystemAccount: true},
		{ID: ExpensesAccountID, Name: "Expenses", Type: model.AccountTypeSystem, OpeningBalanceType: model.BalanceDebit, IsSystemAccount: true},
	}
}
