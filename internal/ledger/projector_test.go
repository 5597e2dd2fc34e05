package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func customerScenario(t *testing.T) (*fixture, model.Source) {
	t.Helper()
	f := newFixture(t)
	f.party(t, "A", model.AccountTypeCustomer)
	f.opening(t, model.OpeningBalance{Parties: []model.PartyOpeningBalance{
		{PartyID: "A", PartyType: model.AccountTypeCustomer, Amount: dec("1000"), BalanceType: model.BalanceDebit},
	}})
	sale := f.add(t, model.Sale{Date: "2025-04-02", CustomerID: "A", BillNumber: "B-1", Amount: dec("500")})
	f.add(t, model.Receipt{Date: "2025-04-03", PartyID: "A", Amount: dec("300")})
	return f, sale
}

func TestProject_CustomerScenario(t *testing.T) {
	f, _ := customerScenario(t)

	got := f.projector.Ledger("A")
	require.Len(t, got, 3)
	assert.Equal(t, []model.SourceType{model.SourceOpening, model.SourceSale, model.SourceReceipt}, sourceTypes(got))
	assert.Equal(t, []string{"1000.00 Dr", "1500.00 Dr", "1200.00 Dr"}, balances(got))

	assert.Equal(t, "B-1", got[1].Reference)
	assert.True(t, got[1].Debit.Equal(dec("500")))
	assert.True(t, got[2].Credit.Equal(dec("300")))
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), got[0].Date, "opening dated at year start")
}

func TestProject_DeleteThenReproject(t *testing.T) {
	f, sale := customerScenario(t)

	found, err := f.records.SoftDelete(model.SourceSale, sale.SourceID())
	require.NoError(t, err)
	require.True(t, found)

	got := f.projector.Ledger("A")
	assert.Equal(t, []model.SourceType{model.SourceOpening, model.SourceReceipt}, sourceTypes(got))
	assert.Equal(t, []string{"1000.00 Dr", "700.00 Dr"}, balances(got))
}

func TestProject_Idempotent(t *testing.T) {
	f, _ := customerScenario(t)
	f.add(t, model.Sale{Date: "2025-04-02", CustomerID: "A", Amount: dec("10")})
	f.add(t, model.Payment{Date: "2025-04-02", PartyID: "A", Amount: dec("5")})

	first := f.projector.Ledger("A")
	second := f.projector.Ledger("A")
	assert.Equal(t, first, second)
}

func TestProject_OpeningFirstRegardlessOfInsertOrder(t *testing.T) {
	f := newFixture(t)
	f.party(t, "S", model.AccountTypeSupplier)

	// Inserted newest first.
	f.add(t, model.Payment{Date: "2025-06-01", PartyID: "S", Amount: dec("100")})
	f.add(t, model.Purchase{Date: "2025-05-01", SupplierID: "S", LotNumber: "L7", Amount: dec("900")})
	f.add(t, model.Purchase{Date: "2025-04-01", SupplierID: "S", LotNumber: "L6", Amount: dec("50")})
	f.opening(t, model.OpeningBalance{Parties: []model.PartyOpeningBalance{
		{PartyID: "S", Amount: dec("200"), BalanceType: model.BalanceCredit},
	}})

	got := f.projector.Ledger("S")
	require.Len(t, got, 4)
	assert.Equal(t, model.SourceOpening, got[0].SourceType)
	assert.Equal(t, "L6", got[1].Reference)
	assert.Equal(t, "L7", got[2].Reference)
	assert.Equal(t, model.SourcePayment, got[3].SourceType)
	assert.Equal(t, []string{"200.00 Cr", "250.00 Cr", "1150.00 Cr", "1050.00 Cr"}, balances(got))
}

func TestProject_SameDayOrderedByCreation(t *testing.T) {
	f := newFixture(t)
	f.party(t, "A", model.AccountTypeCustomer)
	r1 := f.add(t, model.Receipt{Date: "2025-04-05", PartyID: "A", Amount: dec("1")})
	s1 := f.add(t, model.Sale{Date: "2025-04-05", CustomerID: "A", Amount: dec("2")})
	r2 := f.add(t, model.Receipt{Date: "2025-04-05", PartyID: "A", Amount: dec("3")})

	got := f.projector.Project("A")
	require.Len(t, got, 3)
	assert.Equal(t, r1.SourceID(), got[0].SourceID)
	assert.Equal(t, s1.SourceID(), got[1].SourceID)
	assert.Equal(t, r2.SourceID(), got[2].SourceID)
}

func TestProject_SoftDeleteExcludesEveryKind(t *testing.T) {
	f := newFixture(t)
	f.party(t, "B", model.AccountTypeBroker)
	srcs := []model.Source{
		f.add(t, model.Sale{Date: "2025-04-02", CustomerID: "c", BrokerID: "B", Amount: dec("10")}),
		f.add(t, model.Purchase{Date: "2025-04-02", SupplierID: "s", BrokerID: "B", Amount: dec("20")}),
		f.add(t, model.Payment{Date: "2025-04-02", PartyID: "B", Amount: dec("3")}),
		f.add(t, model.Receipt{Date: "2025-04-02", PartyID: "B", Amount: dec("4")}),
	}
	require.Len(t, f.projector.Project("B"), 4)

	for i, src := range srcs {
		_, err := f.records.SoftDelete(src.Kind(), src.SourceID())
		require.NoError(t, err)
		got := f.projector.Project("B")
		assert.Len(t, got, len(srcs)-i-1)
		for _, e := range got {
			assert.NotEqual(t, src.SourceID(), e.SourceID, "deleted record leaves no trace")
		}
	}
}

func TestProject_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	assert.Empty(t, f.projector.Project("ghost"))
	assert.Empty(t, f.projector.Ledger("ghost"))
}

func TestProject_NoRecordsOnlyOpening(t *testing.T) {
	f := newFixture(t)
	f.party(t, "A", model.AccountTypeCustomer)
	assert.Empty(t, f.projector.Project("A"), "no opening, no records")

	require.NoError(t, f.accounts.SetOpeningBalance("A", dec("75"), model.BalanceDebit))
	got := f.projector.Ledger("A")
	require.Len(t, got, 1)
	assert.Equal(t, model.SourceOpening, got[0].SourceType)
	assert.Equal(t, "75.00 Dr", balances(got)[0])
}

func TestProject_SnapshotWinsOverAccountOpening(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.accounts.Upsert(model.Account{ID: "A", Name: "A", Type: model.AccountTypeCustomer, OpeningBalance: dec("999")}))
	f.opening(t, model.OpeningBalance{Parties: []model.PartyOpeningBalance{{PartyID: "A", Amount: dec("10")}}})

	got := f.projector.Ledger("A")
	require.Len(t, got, 1, "exactly one opening entry")
	assert.Equal(t, "10.00 Dr", balances(got)[0], "snapshot amount, natural side by default")
}

func TestProject_UnparseableDateExcluded(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := newFixture(t)
	f.projector = NewProjector(f.accounts, f.years, f.records, zap.New(core))
	f.party(t, "A", model.AccountTypeCustomer)
	f.add(t, model.Sale{Date: "2025-04-02", CustomerID: "A", Amount: dec("1")})

	// A record written by some other tool with a broken date.
	require.NoError(t, f.store.Set("receipts", []byte(`[{"id":"R-X","date":"someday","partyId":"A","amount":"5"}]`)))

	got := f.projector.Project("A")
	require.Len(t, got, 1)
	assert.Equal(t, model.SourceSale, got[0].SourceType)
	assert.Equal(t, 1, logs.FilterMessage("skipping record with unparseable date").Len())
}

func TestProject_CorruptCollectionIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.party(t, "A", model.AccountTypeCustomer)
	f.add(t, model.Receipt{Date: "2025-04-02", PartyID: "A", Amount: dec("1")})
	require.NoError(t, f.store.Set("sales", []byte(`{"broken":true}`)))

	got := f.projector.Project("A")
	require.Len(t, got, 1)
	assert.Equal(t, model.SourceReceipt, got[0].SourceType)
}

func TestProject_MissingAmountIsZero(t *testing.T) {
	f := newFixture(t)
	f.party(t, "A", model.AccountTypeCustomer)
	require.NoError(t, f.store.Set("sales", []byte(`[{"id":"S-1","date":"2025-04-02","customerId":"A","amount":null}]`)))

	got := f.projector.Ledger("A")
	require.Len(t, got, 1)
	assert.True(t, got[0].Debit.IsZero())
	assert.Equal(t, "0.00 Dr", balances(got)[0])
}

func TestProject_RoundsToPaise(t *testing.T) {
	f := newFixture(t)
	f.party(t, "A", model.AccountTypeCustomer)
	f.add(t, model.Sale{Date: "2025-04-02", CustomerID: "A", Quantity: dec("3"), Rate: dec("10.333")})

	got := f.projector.Ledger("A")
	require.Len(t, got, 1)
	assert.Equal(t, "31.00", got[0].Debit.StringFixed(2))
	assert.Empty(t, Validate(got))
}

func TestProject_OutsideActiveYearExcluded(t *testing.T) {
	f := newFixture(t)
	f.party(t, "A", model.AccountTypeCustomer)
	f.add(t, model.Sale{Date: "2025-03-31", CustomerID: "A", Amount: dec("1")})
	f.add(t, model.Sale{Date: "2025-04-01", CustomerID: "A", Amount: dec("2")})
	f.add(t, model.Sale{Date: "2026-04-01", CustomerID: "A", Amount: dec("4")})

	got := f.projector.Project("A")
	require.Len(t, got, 1)
	assert.True(t, got[0].Debit.Equal(dec("2")))
}

func TestProject_Roles(t *testing.T) {
	f := newFixture(t)
	f.party(t, "C", model.AccountTypeCustomer)
	f.party(t, "S", model.AccountTypeSupplier)
	f.party(t, "G", model.AccountTypeAgent)
	f.party(t, "B", model.AccountTypeBroker)
	f.party(t, "T", model.AccountTypeTransporter)

	f.add(t, model.Purchase{Date: "2025-04-02", LotNumber: "L1", SupplierID: "S", AgentID: "G", BrokerID: "B", TransporterID: "T",
		Quantity: dec("10"), Rate: dec("100"), Freight: dec("50")})
	f.add(t, model.Sale{Date: "2025-04-03", LotNumber: "L1", CustomerID: "C", BrokerID: "B", Quantity: dec("4"), Rate: dec("150")})
	f.add(t, model.Payment{Date: "2025-04-04", PartyID: "T", Amount: dec("50"), Mode: model.ModeBank})

	tests := []struct {
		account string
		want    []string
	}{
		{"S", []string{"1000.00 Cr"}},
		{"G", []string{"1000.00 Cr"}},
		{"B", []string{"1000.00 Cr", "1600.00 Cr"}},
		{"T", []string{"50.00 Cr", "0.00 Cr"}},
		{"C", []string{"600.00 Dr"}},
	}
	for _, tt := range tests {
		t.Run(tt.account, func(t *testing.T) {
			assert.Equal(t, tt.want, balances(f.projector.Ledger(tt.account)))
		})
	}
}

func TestProject_PartyTypeOnPaymentRestrictsRole(t *testing.T) {
	f := newFixture(t)
	f.party(t, "X", model.AccountTypeSupplier)
	f.add(t, model.Payment{Date: "2025-04-02", PartyID: "X", PartyType: model.AccountTypeBroker, Amount: dec("10")})
	f.add(t, model.Payment{Date: "2025-04-03", PartyID: "X", Amount: dec("20")})

	assert.Len(t, f.projector.Project("X"), 1, "supplier role sees only the untyped payment")
	assert.Len(t, f.projector.ProjectRole("X", model.AccountTypeBroker), 2)
}

func TestProject_Cash(t *testing.T) {
	f := newFixture(t)
	f.opening(t, model.OpeningBalance{Cash: dec("5000")})
	f.add(t, model.Receipt{Date: "2025-04-02", PartyID: "A", Amount: dec("300"), Mode: model.ModeCash})
	f.add(t, model.Receipt{Date: "2025-04-02", PartyID: "A", Amount: dec("900"), Mode: model.ModeBank})
	f.add(t, model.Payment{Date: "2025-04-03", PartyID: "S", Amount: dec("1000"), Mode: model.ModeCash})
	f.add(t, model.ManualExpense{Date: "2025-04-04", AccountID: "expenses", Category: "tea", Amount: dec("40")})

	got := f.projector.Ledger("cash")
	assert.Equal(t, []model.SourceType{model.SourceOpening, model.SourceReceipt, model.SourcePayment, model.SourceExpense}, sourceTypes(got))
	assert.Equal(t, []string{"5000.00 Dr", "5300.00 Dr", "4300.00 Dr", "4260.00 Dr"}, balances(got))

	exp := f.projector.Ledger("expenses")
	assert.Equal(t, []string{"40.00 Dr"}, balances(exp))
}

func TestProject_NegativeCashOpening(t *testing.T) {
	f := newFixture(t)
	f.opening(t, model.OpeningBalance{Cash: dec("-200")})

	got := f.projector.Ledger("cash")
	require.Len(t, got, 1)
	assert.True(t, got[0].Credit.Equal(dec("200")))
	assert.Equal(t, "200.00 Cr", balances(got)[0])
}

func TestProject_NoActiveYear(t *testing.T) {
	f := newFixture(t)
	// Replace the years collection with one inactive year.
	require.NoError(t, f.store.Set("financialYears", []byte(`[{"id":"FY2025","startDate":"2025-04-01","endDate":"2026-03-31","isActive":false}]`)))
	require.NoError(t, f.accounts.Upsert(model.Account{ID: "A", Name: "A", Type: model.AccountTypeCustomer, OpeningBalance: dec("100")}))
	f.add(t, model.Sale{Date: "2024-01-01", CustomerID: "A", Amount: dec("1")})

	got := f.projector.Ledger("A")
	require.Len(t, got, 2, "every dated record is kept without a year to bound it")
	assert.True(t, got[0].Date.IsZero())
	assert.Equal(t, []string{"100.00 Dr", "101.00 Dr"}, balances(got))
}

func TestSort_Stable(t *testing.T) {
	d := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	entries := []model.LedgerEntry{
		{SourceType: model.SourceSale, SourceID: "b", Date: d, Seq: 2},
		{SourceType: model.SourceSale, SourceID: "a", Date: d, Seq: 2},
		{SourceType: model.SourceReceipt, SourceID: "c", Date: d.AddDate(0, 0, -1), Seq: 9},
		{SourceType: model.SourceOpening, Date: d.AddDate(1, 0, 0)},
	}
	Sort(entries)
	ids := []string{entries[0].SourceID, entries[1].SourceID, entries[2].SourceID, entries[3].SourceID}
	assert.Equal(t, []string{"", "c", "a", "b"}, ids)
}
