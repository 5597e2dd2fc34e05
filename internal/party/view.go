// Package party presents one counterparty's transactions in one role as a signed statement.
package party

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// ErrOpeningRow is returned when asked to delete the opening row.
var ErrOpeningRow = errors.New("opening balances are edited, not deleted")

// Row is one line of a party statement. Amount is signed: sale and purchase value is positive,
// payments and receipts are negative, and the opening row is positive when it sits on the
// party's natural side.
type Row struct {
	ID          string
	Date        time.Time
	Reference   string
	Narration   string
	SourceType  model.SourceType
	SourceID    string
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	BalanceType model.BalanceType
}

// Projector projects a party's ledger entries in a given role.
type Projector interface {
	ProjectRole(partyID string, role model.AccountType) []model.LedgerEntry
}

// Deleter soft-deletes source records.
type Deleter interface {
	SoftDelete(kind model.SourceType, recordID string) (bool, error)
}

// View builds party statements.
type View struct {
	projector Projector
	records   Deleter
	log       *zap.Logger
}

// NewView creates a View.
func NewView(projector Projector, records Deleter, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{projector: projector, records: records, log: log}
}

// Ledger returns the statement of partyID acting as partyType: sales where it is the customer,
// sales and purchases where it is the broker, and so on, with payments and receipts addressed
// to it. Non-party types yield nothing.
func (v *View) Ledger(partyID string, partyType model.AccountType) []Row {
	if !partyType.IsParty() {
		v.log.Warn("party ledger requested for non-party type",
			zap.String("party", partyID), zap.String("type", string(partyType)))
		return nil
	}
	natural := partyType.NaturalBalance()
	entries := v.projector.ProjectRole(partyID, partyType)

	rows := make([]Row, 0, len(entries))
	running := decimal.Zero
	for _, e := range entries {
		amount := signedAmount(e, natural)
		running = running.Add(amount)
		bal, bt := ledger.Split(running, natural)
		rows = append(rows, Row{
			ID:          e.ID,
			Date:        e.Date,
			Reference:   e.Reference,
			Narration:   e.Narration,
			SourceType:  e.SourceType,
			SourceID:    e.SourceID,
			Amount:      amount,
			Balance:     bal,
			BalanceType: bt,
		})
	}
	return rows
}

// Delete soft-deletes the record behind a statement row and returns the statement re-projected
// from storage. Deleting an unknown record changes nothing.
func (v *View) Delete(partyID string, partyType model.AccountType, kind model.SourceType, recordID string) ([]Row, error) {
	if kind == model.SourceOpening {
		return nil, ErrOpeningRow
	}
	if _, err := v.records.SoftDelete(kind, recordID); err != nil {
		return nil, fmt.Errorf("deleting %s %s: %w", kind, recordID, err)
	}
	return v.Ledger(partyID, partyType), nil
}

// Closing returns the last row's balance, or a zero balance on the natural side.
func Closing(rows []Row, partyType model.AccountType) (decimal.Decimal, model.BalanceType) {
	if len(rows) == 0 {
		return decimal.Zero, partyType.NaturalBalance()
	}
	last := rows[len(rows)-1]
	return last.Balance, last.BalanceType
}

func signedAmount(e model.LedgerEntry, natural model.BalanceType) decimal.Decimal {
	value := e.Debit.Add(e.Credit)
	switch e.SourceType {
	case model.SourcePayment, model.SourceReceipt:
		return value.Neg()
	case model.SourceOpening:
		side := model.BalanceDebit
		if e.Credit.IsPositive() {
			side = model.BalanceCredit
		}
		if side != natural {
			return value.Neg()
		}
	}
	return value
}
