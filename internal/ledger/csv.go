package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Header is the CSV header for a rendered ledger.
const Header = "date,reference,narration,debit,credit,balance,balance_type,source_type,source_id"

const (
	numFields     = 9
	colDate       = 0
	colRef        = 1
	colNarration  = 2
	colDebit      = 3
	colCredit     = 4
	colBalance    = 5
	colBalType    = 6
	colSourceType = 7
	colSourceID   = 8
)

// WriteEntries writes entries (including header) as CSV.
func WriteEntries(w io.Writer, entries []model.LedgerEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts a LedgerEntry to a CSV row. Zero amounts are left blank and
// an undated opening entry has an empty date.
func MarshalEntry(e model.LedgerEntry) []string {
	row := make([]string, numFields)
	if !e.Date.IsZero() {
		row[colDate] = model.FormatDate(e.Date)
	}
	row[colRef] = e.Reference
	row[colNarration] = e.Narration
	if !e.Debit.IsZero() {
		row[colDebit] = e.Debit.StringFixed(2)
	}
	if !e.Credit.IsZero() {
		row[colCredit] = e.Credit.StringFixed(2)
	}
	row[colBalance] = e.Balance.StringFixed(2)
	if e.BalanceType != "" {
		row[colBalType] = e.BalanceType.Short()
	}
	row[colSourceType] = string(e.SourceType)
	row[colSourceID] = e.SourceID
	return row
}
