// Package ledger derives account ledgers from stored business events.
//
// Nothing here is cached: every call re-reads the sources and rebuilds the ordered entry list,
// so two reads against the same stored state always return identical results.
package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// AccountLookup resolves account identities.
type AccountLookup interface {
	Get(id string) (model.Account, bool)
}

// YearSource supplies the active financial year and its opening snapshot.
type YearSource interface {
	ActiveYear() (model.FinancialYear, bool)
	OpeningBalances(yearID string) (model.OpeningBalance, bool)
}

// SourceLister returns every stored business event, deleted ones included.
type SourceLister interface {
	All() []model.Source
}

// Projector merges every transaction source for one account into a single ordered entry list.
type Projector struct {
	accounts AccountLookup
	years    YearSource
	sources  SourceLister
	log      *zap.Logger
}

// NewProjector creates a Projector.
func NewProjector(accounts AccountLookup, years YearSource, sources SourceLister, log *zap.Logger) *Projector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Projector{accounts: accounts, years: years, sources: sources, log: log}
}

// Project returns the ordered, balance-less entries of accountID in the role given by its
// account type. An unknown account yields an empty list.
func (p *Projector) Project(accountID string) []model.LedgerEntry {
	acct, ok := p.accounts.Get(accountID)
	if !ok {
		p.log.Debug("projecting unknown account", zap.String("account", accountID))
		return nil
	}
	return p.project(acct, acct.Type)
}

// ProjectRole returns the entries of partyID acting in role. The party need not be registered:
// records that reference the id are still projected.
func (p *Projector) ProjectRole(partyID string, role model.AccountType) []model.LedgerEntry {
	acct, ok := p.accounts.Get(partyID)
	if !ok {
		acct = model.Account{ID: partyID, Type: role}
	}
	return p.project(acct, role)
}

// Ledger returns Project with running balances applied.
func (p *Projector) Ledger(accountID string) []model.LedgerEntry {
	acct, ok := p.accounts.Get(accountID)
	if !ok {
		return nil
	}
	return WithRunningBalances(p.project(acct, acct.Type), acct.Type.NaturalBalance())
}

func (p *Projector) project(acct model.Account, role model.AccountType) []model.LedgerEntry {
	fy, hasYear := p.years.ActiveYear()

	var entries []model.LedgerEntry
	if open, ok := p.opening(acct, role, fy, hasYear); ok {
		entries = append(entries, open)
	}

	for _, src := range p.sources.All() {
		if src.Deleted() {
			continue
		}
		date, ok := model.ParseDate(src.SourceDate())
		if !ok {
			p.log.Warn("skipping record with unparseable date",
				zap.String("kind", string(src.Kind())),
				zap.String("id", src.SourceID()),
				zap.String("date", src.SourceDate()))
			continue
		}
		if hasYear && !fy.Contains(date) {
			continue
		}
		for _, e := range post(src, acct.ID, role) {
			e.AccountID = acct.ID
			e.Date = date
			e.ID = fmt.Sprintf("%s/%s/%s", acct.ID, e.SourceType, e.SourceID)
			entries = append(entries, e)
		}
	}

	Sort(entries)

	if errs := Validate(entries); len(errs) > 0 {
		for _, ve := range errs {
			p.log.Error("ledger invariant violated", zap.String("account", acct.ID), zap.Error(ve))
		}
	}
	return entries
}

// opening synthesizes the account's opening entry for the active year. The year's snapshot
// wins; an account-level opening balance is used only when the snapshot has nothing for it.
func (p *Projector) opening(acct model.Account, role model.AccountType, fy model.FinancialYear, hasYear bool) (model.LedgerEntry, bool) {
	natural := role.NaturalBalance()

	var (
		amount decimal.Decimal
		side   model.BalanceType
		found  bool
	)

	if hasYear {
		if ob, ok := p.years.OpeningBalances(fy.ID); ok {
			if role == model.AccountTypeCash {
				amount, side, found = ob.Cash.Abs(), model.BalanceDebit, true
				if ob.Cash.IsNegative() {
					side = model.BalanceCredit
				}
			} else if pob, ok := ob.Party(acct.ID); ok && (pob.PartyType == "" || pob.PartyType == role) {
				amount, side, found = pob.Amount, pob.BalanceType, true
			}
		}
	}

	if !found && acct.Type == role && !acct.OpeningBalance.IsZero() {
		amount, side, found = acct.OpeningBalance, acct.OpeningBalanceType, true
	}
	if !found {
		return model.LedgerEntry{}, false
	}
	if side == "" {
		side = natural
	}

	e := model.LedgerEntry{
		ID:         acct.ID + "/opening",
		AccountID:  acct.ID,
		Reference:  "Opening Balance",
		Narration:  "Opening balance",
		SourceType: model.SourceOpening,
	}
	if hasYear {
		e.Date = fy.Start()
		e.SourceID = fy.ID
		e.Narration = "Opening balance " + fy.ID
	}
	amount = amount.Round(2)
	if side == model.BalanceCredit {
		e.Credit = amount
	} else {
		e.Debit = amount
	}
	return e, true
}

// Sort orders entries in place: opening entries first, then by date, then by creation order,
// then by source kind and id so the order never depends on how the records were stored.
func Sort(entries []model.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		aOpen, bOpen := a.SourceType == model.SourceOpening, b.SourceType == model.SourceOpening
		if aOpen != bOpen {
			return aOpen
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		if a.SourceType != b.SourceType {
			return a.SourceType < b.SourceType
		}
		return a.SourceID < b.SourceID
	})
}
