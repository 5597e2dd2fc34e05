package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Header is the CSV header for accounts.csv.
var Header = []string{"account_id", "account_name", "account_type", "opening_balance", "opening_balance_type", "system", "deleted"}

const (
	numFields      = 7
	colID          = 0
	colName        = 1
	colType        = 2
	colOpening     = 3
	colOpeningType = 4
	colSystem      = 5
	colDeleted     = 6
)

// ReadAccounts reads an accounts CSV (with header).
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accts = append(accts, acct)
	}
	return accts, nil
}

// WriteAccounts writes an accounts CSV (with header).
func WriteAccounts(w io.Writer, accts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	if !acct.OpeningBalance.IsZero() {
		row[colOpening] = acct.OpeningBalance.StringFixed(2)
	}
	row[colOpeningType] = string(acct.OpeningBalanceType)
	row[colSystem] = strconv.FormatBool(acct.IsSystemAccount)
	row[colDeleted] = strconv.FormatBool(acct.IsDeleted)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var opening decimal.Decimal
	if record[colOpening] != "" {
		var err error
		opening, err = decimal.NewFromString(record[colOpening])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing opening_balance %q: %w", record[colOpening], err)
		}
	}

	system, err := parseBool(record[colSystem])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing system %q: %w", record[colSystem], err)
	}
	deleted, err := parseBool(record[colDeleted])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing deleted %q: %w", record[colDeleted], err)
	}

	return model.Account{
		ID:                 record[colID],
		Name:               record[colName],
		Type:               model.AccountType(record[colType]),
		OpeningBalance:     opening,
		OpeningBalanceType: model.BalanceType(record[colOpeningType]),
		IsSystemAccount:    system,
		IsDeleted:          deleted,
	}, nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
