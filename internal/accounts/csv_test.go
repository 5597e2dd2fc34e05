package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accts := []model.Account{
		{ID: "c1", Name: "Ramesh Traders", Type: model.AccountTypeCustomer, OpeningBalance: decimal.NewFromInt(1000), OpeningBalanceType: model.BalanceDebit},
		{ID: "cash", Name: "Cash", Type: model.AccountTypeCash, OpeningBalanceType: model.BalanceDebit, IsSystemAccount: true},
		{ID: "s1", Name: "Old Mill", Type: model.AccountTypeSupplier, OpeningBalanceType: model.BalanceCredit, IsDeleted: true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, accts))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := range accts {
		assert.Equal(t, accts[i].ID, got[i].ID)
		assert.Equal(t, accts[i].Name, got[i].Name)
		assert.Equal(t, accts[i].Type, got[i].Type)
		assert.True(t, accts[i].OpeningBalance.Equal(got[i].OpeningBalance), "opening balance of %s", accts[i].ID)
		assert.Equal(t, accts[i].OpeningBalanceType, got[i].OpeningBalanceType)
		assert.Equal(t, accts[i].IsSystemAccount, got[i].IsSystemAccount)
		assert.Equal(t, accts[i].IsDeleted, got[i].IsDeleted)
	}
}

func TestMarshalAccount_ZeroOpeningIsBlank(t *testing.T) {
	row := MarshalAccount(model.Account{ID: "b1", Name: "Broker", Type: model.AccountTypeBroker})
	assert.Equal(t, "", row[colOpening])
	assert.Equal(t, "false", row[colSystem])
}

func TestUnmarshalAccount_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		errMsg string
	}{
		{"too few fields", []string{"a", "b"}, "expected 7 fields"},
		{"bad opening", []string{"a", "A", "customer", "abc", "debit", "", ""}, "parsing opening_balance"},
		{"bad system flag", []string{"a", "A", "customer", "", "debit", "maybe", ""}, "parsing system"},
		{"bad deleted flag", []string{"a", "A", "customer", "", "debit", "", "nah"}, "parsing deleted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalAccount(tt.record)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadAccounts_RowNumberInError(t *testing.T) {
	data := strings.Join(Header, ",") + "\n" +
		"c1,A,customer,,debit,false,false\n" +
		"c2,B,customer,x,debit,false,false\n"
	_, err := ReadAccounts(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestDefaultAccountsRoundTrip(t *testing.T) {
	defaults := DefaultAccounts("")

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, defaults))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(defaults))
	for i := range defaults {
		assert.Equal(t, defaults[i], got[i])
	}
}
