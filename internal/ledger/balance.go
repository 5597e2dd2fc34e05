package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// WithRunningBalances returns a copy of entries with Balance and BalanceType filled in.
//
// The running total starts at zero (the opening entry carries the opening amount) and each entry
// adds its debit and subtracts its credit for a debit-natural account, or the reverse for a
// credit-natural one. Balance is the magnitude; BalanceType is natural while the total is not
// negative, the opposite side otherwise. Each balance depends only on the entries before it.
func WithRunningBalances(entries []model.LedgerEntry, natural model.BalanceType) []model.LedgerEntry {
	out := make([]model.LedgerEntry, len(entries))
	running := decimal.Zero
	for i, e := range entries {
		running = Step(running, e, natural)
		e.Balance, e.BalanceType = Split(running, natural)
		out[i] = e
	}
	return out
}

// Step applies one entry to a signed running total.
func Step(running decimal.Decimal, e model.LedgerEntry, natural model.BalanceType) decimal.Decimal {
	return running.Add(e.Signed(natural))
}

// Split turns a signed total into a non-negative magnitude and the side it sits on.
func Split(signed decimal.Decimal, natural model.BalanceType) (decimal.Decimal, model.BalanceType) {
	if signed.IsNegative() {
		return signed.Neg(), natural.Opposite()
	}
	return signed, natural
}

// Closing returns the last balance of a balanced entry list, or a zero natural balance when empty.
func Closing(entries []model.LedgerEntry, natural model.BalanceType) (decimal.Decimal, model.BalanceType) {
	if len(entries) == 0 {
		return decimal.Zero, natural
	}
	last := entries[len(entries)-1]
	return last.Balance, last.BalanceType
}

// Totals sums the debit and credit columns.
func Totals(entries []model.LedgerEntry) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}
