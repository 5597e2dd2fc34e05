package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType names the kind of record a ledger entry was derived from.
type SourceType string

const (
	SourceSale     SourceType = "sale"
	SourcePurchase SourceType = "purchase"
	SourcePayment  SourceType = "payment"
	SourceReceipt  SourceType = "receipt"
	SourceExpense  SourceType = "expense"
	SourceOpening  SourceType = "opening"
)

// SourceTypes lists the record kinds held by the records repository.
var SourceTypes = []SourceType{SourceSale, SourcePurchase, SourcePayment, SourceReceipt, SourceExpense}

// LedgerEntry is one derived row of an account's ledger. It is never stored.
type LedgerEntry struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Date        time.Time       `json:"date"`
	Reference   string          `json:"reference"`
	Narration   string          `json:"narration"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	BalanceType BalanceType     `json:"balanceType"`
	SourceType  SourceType      `json:"sourceType"`
	SourceID    string          `json:"sourceId"`

	// Seq is the creation order of the originating record, used as a tie breaker.
	Seq int64 `json:"-"`
}

// Signed returns the entry's contribution in the direction of natural:
// positive when it increases an account whose natural side is natural.
func (e LedgerEntry) Signed(natural BalanceType) decimal.Decimal {
	if natural == BalanceCredit {
		return e.Credit.Sub(e.Debit)
	}
	return e.Debit.Sub(e.Credit)
}

// SignedBalance returns Balance with a sign relative to natural.
func (e LedgerEntry) SignedBalance(natural BalanceType) decimal.Decimal {
	if e.BalanceType != "" && e.BalanceType != natural {
		return e.Balance.Neg()
	}
	return e.Balance
}
