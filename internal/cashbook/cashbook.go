// Package cashbook specializes the ledger to the cash account: date-range views with derived
// opening and closing balances, and the day's cash-in/cash-out totals.
package cashbook

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// LedgerSource returns an account's ordered entries with running balances.
type LedgerSource interface {
	Ledger(accountID string) []model.LedgerEntry
}

// Range is an inclusive span of calendar days. A zero Start or End leaves that side open.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day falls inside r.
func (r Range) Contains(day time.Time) bool {
	day = model.Day(day)
	if !r.Start.IsZero() && day.Before(model.Day(r.Start)) {
		return false
	}
	if !r.End.IsZero() && day.After(model.Day(r.End)) {
		return false
	}
	return true
}

// Book is a cash-book page: the entries inside a range plus the balances around them.
type Book struct {
	Opening     decimal.Decimal
	OpeningType model.BalanceType
	Closing     decimal.Decimal
	ClosingType model.BalanceType
	Entries     []model.LedgerEntry
}

// Totals is money that came in and went out of cash.
type Totals struct {
	CashIn  decimal.Decimal
	CashOut decimal.Decimal
}

// Net is CashIn − CashOut.
func (t Totals) Net() decimal.Decimal {
	return t.CashIn.Sub(t.CashOut)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithLocation sets the time zone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// Aggregator builds cash-book views from the cash account's ledger.
type Aggregator struct {
	ledger LedgerSource
	cashID string
	loc    *time.Location
	now    func() time.Time
	log    *zap.Logger
}

// NewAggregator creates an Aggregator over the ledger of cashID.
func NewAggregator(ledger LedgerSource, cashID string, log *zap.Logger, opts ...Option) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Aggregator{ledger: ledger, cashID: cashID, loc: time.Local, now: time.Now, log: log}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Entries returns the cash ledger, restricted to r when r is not nil.
func (a *Aggregator) Entries(r *Range) []model.LedgerEntry {
	all := a.ledger.Ledger(a.cashID)
	if r == nil {
		return all
	}
	var out []model.LedgerEntry
	for _, e := range all {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Book returns the entries of r with derived balances. Opening is the balance of the last entry
// dated before r.Start, or the year's opening entry when nothing precedes the range. Closing is
// the balance of the last entry in the range, or Opening when the range is empty.
func (a *Aggregator) Book(r *Range) Book {
	all := a.ledger.Ledger(a.cashID)
	natural := model.AccountTypeCash.NaturalBalance()
	b := Book{OpeningType: natural}

	var prior *model.LedgerEntry
	for i, e := range all {
		inRange := r == nil || r.Contains(e.Date)
		if inRange {
			b.Entries = append(b.Entries, e)
			continue
		}
		if r != nil && !r.Start.IsZero() && model.Day(e.Date).Before(model.Day(r.Start)) {
			prior = &all[i]
		}
	}

	switch {
	case prior != nil:
		b.Opening, b.OpeningType = prior.Balance, prior.BalanceType
	case len(b.Entries) > 0 && b.Entries[0].SourceType == model.SourceOpening:
		b.Opening, b.OpeningType = b.Entries[0].Balance, b.Entries[0].BalanceType
	}

	b.Closing, b.ClosingType = b.Opening, b.OpeningType
	if n := len(b.Entries); n > 0 {
		b.Closing, b.ClosingType = b.Entries[n-1].Balance, b.Entries[n-1].BalanceType
	}

	a.log.Debug("cash book built",
		zap.Int("entries", len(b.Entries)),
		zap.String("opening", b.Opening.StringFixed(2)),
		zap.String("closing", b.Closing.StringFixed(2)))
	return b
}

// Today sums the cash entries dated on the current calendar day in the configured location.
// Cash is debit-natural, so money in is the debit column and money out the credit column.
// The opening entry is a carried balance, not a movement, and is never counted.
func (a *Aggregator) Today() Totals {
	return a.On(a.Day())
}

// On sums the cash movements dated day.
func (a *Aggregator) On(day time.Time) Totals {
	day = model.Day(day)
	t := Totals{CashIn: decimal.Zero, CashOut: decimal.Zero}
	for _, e := range a.ledger.Ledger(a.cashID) {
		if e.SourceType == model.SourceOpening || !model.Day(e.Date).Equal(day) {
			continue
		}
		t.CashIn = t.CashIn.Add(e.Debit)
		t.CashOut = t.CashOut.Add(e.Credit)
	}
	return t
}

// Day returns the current calendar date in the configured location.
func (a *Aggregator) Day() time.Time {
	return model.Day(a.now().In(a.loc))
}
