package model

import "github.com/shopspring/decimal"

// AccountType classifies ledger participants.
type AccountType string

const (
	AccountTypeCustomer    AccountType = "customer"
	AccountTypeSupplier    AccountType = "supplier"
	AccountTypeAgent       AccountType = "agent"
	AccountTypeBroker      AccountType = "broker"
	AccountTypeTransporter AccountType = "transporter"
	AccountTypeCash        AccountType = "cash"
	AccountTypeSystem      AccountType = "system"
)

// AccountTypes lists every valid account type.
var AccountTypes = []AccountType{
	AccountTypeCustomer,
	AccountTypeSupplier,
	AccountTypeAgent,
	AccountTypeBroker,
	AccountTypeTransporter,
	AccountTypeCash,
	AccountTypeSystem,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, at := range AccountTypes {
		if t == at {
			return true
		}
	}
	return false
}

// IsParty reports whether t is a counterparty role (as opposed to cash or system).
func (t AccountType) IsParty() bool {
	switch t {
	case AccountTypeCustomer, AccountTypeSupplier, AccountTypeAgent, AccountTypeBroker, AccountTypeTransporter:
		return true
	}
	return false
}

// NaturalBalance returns the side that increases an account of this type.
// Customers, cash and system accounts are asset-like; every other party is liability-like.
func (t AccountType) NaturalBalance() BalanceType {
	switch t {
	case AccountTypeCustomer, AccountTypeCash, AccountTypeSystem:
		return BalanceDebit
	default:
		return BalanceCredit
	}
}

// BalanceType is the side a balance currently sits on.
type BalanceType string

const (
	BalanceDebit  BalanceType = "debit"
	BalanceCredit BalanceType = "credit"
)

// Valid reports whether b is debit or credit.
func (b BalanceType) Valid() bool {
	return b == BalanceDebit || b == BalanceCredit
}

// Opposite returns the other side.
func (b BalanceType) Opposite() BalanceType {
	if b == BalanceDebit {
		return BalanceCredit
	}
	return BalanceDebit
}

// Short returns the conventional "Dr"/"Cr" abbreviation.
func (b BalanceType) Short() string {
	if b == BalanceCredit {
		return "Cr"
	}
	return "Dr"
}

// Account is any ledger participant: a party, the cash account or a system account.
type Account struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Type               AccountType     `json:"type"`
	OpeningBalance     decimal.Decimal `json:"openingBalance"`
	OpeningBalanceType BalanceType     `json:"openingBalanceType"`
	IsSystemAccount    bool            `json:"isSystemAccount"`
	IsDeleted          bool            `json:"isDeleted"`
}
