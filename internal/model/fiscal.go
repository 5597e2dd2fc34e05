package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialYear is a bounded accounting period. Exactly one year is active at a time.
type FinancialYear struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD, inclusive
	IsActive  bool   `json:"isActive"`
}

// Start returns the parsed start date, or the zero time when it does not parse.
func (y FinancialYear) Start() time.Time {
	t, _ := ParseDate(y.StartDate)
	return t
}

// End returns the parsed end date, or the zero time when it does not parse.
func (y FinancialYear) End() time.Time {
	t, _ := ParseDate(y.EndDate)
	return t
}

// Contains reports whether day falls inside the year, bounds included.
// A year with an unparseable bound accepts every day on that side.
func (y FinancialYear) Contains(day time.Time) bool {
	day = Day(day)
	if start, ok := ParseDate(y.StartDate); ok && day.Before(start) {
		return false
	}
	if end, ok := ParseDate(y.EndDate); ok && day.After(end) {
		return false
	}
	return true
}

// OpeningBalance is the snapshot a financial year starts from.
type OpeningBalance struct {
	YearID  string                `json:"yearId" yaml:"year_id"`
	Cash    decimal.Decimal       `json:"cash" yaml:"cash"` // positive = debit (cash in hand)
	Stock   []StockOpeningBalance `json:"stock" yaml:"stock"`
	Parties []PartyOpeningBalance `json:"parties" yaml:"parties"`
}

// Party returns the opening balance recorded for partyID.
func (ob OpeningBalance) Party(partyID string) (PartyOpeningBalance, bool) {
	for _, p := range ob.Parties {
		if p.PartyID == partyID {
			return p, true
		}
	}
	return PartyOpeningBalance{}, false
}

// StockOpeningBalance is one lot carried into the year.
type StockOpeningBalance struct {
	LotNumber string          `json:"lotNumber" yaml:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity" yaml:"quantity"`
	Location  string          `json:"location" yaml:"location"`
	Rate      decimal.Decimal `json:"rate" yaml:"rate"`
	NetWeight decimal.Decimal `json:"netWeight" yaml:"net_weight"`
}

// PartyOpeningBalance is one party's balance carried into the year.
type PartyOpeningBalance struct {
	PartyID     string          `json:"partyId" yaml:"party_id"`
	PartyName   string          `json:"partyName" yaml:"party_name"`
	PartyType   AccountType     `json:"partyType" yaml:"party_type"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	BalanceType BalanceType     `json:"balanceType" yaml:"balance_type"`
}
