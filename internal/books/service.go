// Package books is the API the front ends consume: account ledgers, the cash book, party
// statements, opening balances, manual expenses and business totals over one store.
package books

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/activity"
	"github.com/cleared-dev/ledgerbook/internal/cashbook"
	"github.com/cleared-dev/ledgerbook/internal/fiscal"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/party"
	"github.com/cleared-dev/ledgerbook/internal/records"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

// Recorder receives an entry for every successful write.
type Recorder interface {
	Record(e activity.Entry) error
}

// Options configures a Service.
type Options struct {
	CashAccountID string
	Location      *time.Location
	Clock         func() time.Time
	Activity      Recorder
	Logger        *zap.Logger
}

// Service wires the registry, year manager and records repository over one store.
type Service struct {
	accounts  *accounts.Registry
	years     *fiscal.Manager
	records   *records.Repository
	projector *ledger.Projector
	cash      *cashbook.Aggregator
	parties   *party.View
	activity  Recorder
	cashID    string
	log       *zap.Logger
}

// New creates a Service over s.
func New(s store.Store, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cashID := opts.CashAccountID
	if cashID == "" {
		cashID = accounts.CashAccountID
	}

	svc := &Service{
		accounts: accounts.NewRegistry(s, log.Named("accounts")),
		years:    fiscal.NewManager(s, log.Named("fiscal")),
		records:  records.NewRepository(s, log.Named("records")),
		activity: opts.Activity,
		cashID:   cashID,
		log:      log,
	}
	svc.projector = ledger.NewProjector(svc.accounts, svc.years, svc.records, log.Named("ledger"))

	cashOpts := []cashbook.Option{cashbook.WithLocation(opts.Location)}
	if opts.Clock != nil {
		cashOpts = append(cashOpts, cashbook.WithClock(opts.Clock))
	}
	svc.cash = cashbook.NewAggregator(svc.projector, cashID, log.Named("cashbook"), cashOpts...)
	svc.parties = party.NewView(svc.projector, svc.records, log.Named("party"))
	return svc
}

// Accounts returns the account registry.
func (s *Service) Accounts() *accounts.Registry { return s.accounts }

// Years returns the financial-year manager.
func (s *Service) Years() *fiscal.Manager { return s.years }

// Records returns the transaction-source repository.
func (s *Service) Records() *records.Repository { return s.records }

// CashAccountID returns the id of the designated cash account.
func (s *Service) CashAccountID() string { return s.cashID }

// Initialize seeds the default accounts and, when fy is not nil and no year exists yet,
// creates the first financial year.
func (s *Service) Initialize(fy *model.FinancialYear) error {
	if err := s.accounts.Seed(accounts.DefaultAccounts(s.cashID)); err != nil {
		return fmt.Errorf("seeding accounts: %w", err)
	}
	if fy != nil && len(s.years.Years()) == 0 {
		if err := s.years.AddYear(*fy); err != nil {
			return fmt.Errorf("creating first year: %w", err)
		}
	}
	s.record(activity.Entry{Action: activity.ActionInit, Details: "default accounts seeded"})
	return nil
}

// AccountLedger returns accountID's ledger with running balances. Unknown accounts are empty.
func (s *Service) AccountLedger(accountID string) []model.LedgerEntry {
	return s.projector.Ledger(accountID)
}

// CashBookEntries returns the cash ledger, restricted to r when r is not nil.
func (s *Service) CashBookEntries(r *cashbook.Range) []model.LedgerEntry {
	return s.cash.Entries(r)
}

// CashBook returns the cash entries of r with derived opening and closing balances.
func (s *Service) CashBook(r *cashbook.Range) cashbook.Book {
	return s.cash.Book(r)
}

// TodayCashTransactions returns today's cash in and cash out.
func (s *Service) TodayCashTransactions() cashbook.Totals {
	return s.cash.Today()
}

// Today returns the current calendar date in the configured location.
func (s *Service) Today() time.Time {
	return s.cash.Day()
}

// PartyLedger returns the signed statement of partyID acting as partyType.
func (s *Service) PartyLedger(partyID string, partyType model.AccountType) []party.Row {
	return s.parties.Ledger(partyID, partyType)
}

// DeletePartyTransaction soft-deletes a row of a party statement and returns the statement
// re-projected.
func (s *Service) DeletePartyTransaction(partyID string, partyType model.AccountType, kind model.SourceType, recordID string) ([]party.Row, error) {
	rows, err := s.parties.Delete(partyID, partyType, kind, recordID)
	if err != nil {
		return nil, err
	}
	s.record(activity.Entry{Action: activity.ActionDelete, Kind: string(kind), RecordID: recordID, Details: "party " + partyID})
	return rows, nil
}

// DeleteTransaction soft-deletes a source record. It reports whether the record existed;
// an unknown record is a logged no-op.
func (s *Service) DeleteTransaction(kind model.SourceType, recordID string) (bool, error) {
	found, err := s.records.SoftDelete(kind, recordID)
	if err != nil {
		return false, err
	}
	if found {
		s.record(activity.Entry{Action: activity.ActionDelete, Kind: string(kind), RecordID: recordID})
	}
	return found, nil
}

// OpeningBalances returns the opening snapshot of yearID.
func (s *Service) OpeningBalances(yearID string) (model.OpeningBalance, bool) {
	return s.years.OpeningBalances(yearID)
}

// SaveOpeningBalances stores ob and reports success. A failure (no active year, unknown year,
// duplicate stock lot, invalid party balance) is logged and leaves the prior snapshot in place.
func (s *Service) SaveOpeningBalances(ob model.OpeningBalance) bool {
	if err := s.years.SaveOpeningBalances(ob); err != nil {
		s.log.Error("saving opening balances", zap.String("year", ob.YearID), zap.Error(err))
		return false
	}
	s.record(activity.Entry{
		Action:   activity.ActionSaveOpening,
		Kind:     string(model.SourceOpening),
		RecordID: ob.YearID,
		Details:  fmt.Sprintf("cash %s, %d lots, %d parties", ob.Cash.StringFixed(2), len(ob.Stock), len(ob.Parties)),
	})
	return true
}

// AddManualExpense records an expense. Without an account it is charged to the expenses account.
func (s *Service) AddManualExpense(e model.ManualExpense) (model.ManualExpense, error) {
	if e.AccountID == "" {
		e.AccountID = accounts.ExpensesAccountID
	}
	if !s.accounts.Exists(e.AccountID) {
		s.log.Warn("expense charged to unregistered account", zap.String("account", e.AccountID))
	}
	out, err := s.records.AddManualExpense(e)
	if err != nil {
		return out, fmt.Errorf("adding expense: %w", err)
	}
	s.record(activity.Entry{
		Action:   activity.ActionAdd,
		Kind:     string(model.SourceExpense),
		RecordID: out.ID,
		Details:  fmt.Sprintf("%s %s", firstNonEmpty(out.Category, out.AccountID), out.Amount.StringFixed(2)),
	})
	return out, nil
}

// Record stores any transaction source.
func (s *Service) Record(src model.Source) (model.Source, error) {
	if e, ok := src.(model.ManualExpense); ok {
		return s.AddManualExpense(e)
	}
	out, err := s.records.Add(src)
	if err != nil {
		return out, fmt.Errorf("adding %s: %w", src.Kind(), err)
	}
	s.record(activity.Entry{Action: activity.ActionAdd, Kind: string(out.Kind()), RecordID: out.SourceID(), Details: out.SourceDate()})
	return out, nil
}

// UpsertAccount stores an account, assigning a random id when it has none.
func (s *Service) UpsertAccount(acct model.Account) (model.Account, error) {
	if acct.ID == "" {
		acct.ID = id.NewAccountID()
	}
	if err := s.accounts.Upsert(acct); err != nil {
		return acct, err
	}
	stored, _ := s.accounts.Get(acct.ID)
	s.record(activity.Entry{Action: activity.ActionUpsertAccount, Kind: string(stored.Type), RecordID: stored.ID, Details: stored.Name})
	return stored, nil
}

// SetAccountOpening sets an account's own opening balance, used when the active year's
// snapshot has no entry for it.
func (s *Service) SetAccountOpening(accountID string, amount decimal.Decimal, bt model.BalanceType) error {
	if err := s.accounts.SetOpeningBalance(accountID, amount, bt); err != nil {
		return err
	}
	s.record(activity.Entry{Action: activity.ActionAccountOpening, RecordID: accountID, Details: amount.StringFixed(2) + " " + bt.Short()})
	return nil
}

// AddYear creates a financial year.
func (s *Service) AddYear(fy model.FinancialYear) error {
	if err := s.years.AddYear(fy); err != nil {
		return err
	}
	s.record(activity.Entry{Action: activity.ActionAddYear, RecordID: fy.ID, Details: fy.StartDate + ".." + fy.EndDate})
	return nil
}

func (s *Service) record(e activity.Entry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(e); err != nil {
		s.log.Warn("writing activity log", zap.String("action", e.Action), zap.Error(err))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
