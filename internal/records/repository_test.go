package records

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestRepo(t *testing.T) (*Repository, *store.Memory) {
	t.Helper()
	s := store.NewMemory()
	return NewRepository(s, zaptest.NewLogger(t)), s
}

func TestAddSale_AssignsIDAndSeq(t *testing.T) {
	r, _ := newTestRepo(t)

	s1, err := r.AddSale(model.Sale{Date: "2025-04-10", CustomerID: "c1", Amount: dec("500")})
	require.NoError(t, err)
	assert.Equal(t, "SAL-2025-04-001", s1.ID)
	assert.Equal(t, int64(1), s1.Seq)

	s2, err := r.AddSale(model.Sale{Date: "2025-04-11", CustomerID: "c1", Amount: dec("700")})
	require.NoError(t, err)
	assert.Equal(t, "SAL-2025-04-002", s2.ID)
	assert.Equal(t, int64(2), s2.Seq)

	p, err := r.AddPayment(model.Payment{Date: "2025-04-11", PartyID: "s1", Amount: dec("50")})
	require.NoError(t, err)
	assert.Equal(t, "PAY-2025-04-001", p.ID)
	assert.Equal(t, int64(3), p.Seq, "sequence is global across kinds")
	assert.Equal(t, model.ModeCash, p.Mode, "mode defaults to cash")

	assert.Len(t, r.Sales(), 2)
	assert.Len(t, r.All(), 3)
}

func TestAdd_ExplicitIDMustBeUnique(t *testing.T) {
	r, _ := newTestRepo(t)
	_, err := r.AddReceipt(model.Receipt{ID: "R1", Date: "2025-04-10", PartyID: "c1", Amount: dec("10")})
	require.NoError(t, err)

	_, err = r.AddReceipt(model.Receipt{ID: "R1", Date: "2025-04-12", PartyID: "c1", Amount: dec("10")})
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.Len(t, r.Receipts(), 1)
}

func TestAdd_Validation(t *testing.T) {
	r, _ := newTestRepo(t)

	tests := []struct {
		name string
		src  model.Source
	}{
		{"sale without customer", model.Sale{Date: "2025-04-10", Amount: dec("1")}},
		{"sale negative", model.Sale{Date: "2025-04-10", CustomerID: "c", Amount: dec("-1")}},
		{"sale bad date", model.Sale{Date: "10/04/2025", CustomerID: "c", Amount: dec("1")}},
		{"purchase without supplier", model.Purchase{Date: "2025-04-10", Amount: dec("1")}},
		{"purchase negative freight", model.Purchase{Date: "2025-04-10", SupplierID: "s", Freight: dec("-2")}},
		{"payment without party", model.Payment{Date: "2025-04-10", Amount: dec("1")}},
		{"payment zero", model.Payment{Date: "2025-04-10", PartyID: "s"}},
		{"receipt negative", model.Receipt{Date: "2025-04-10", PartyID: "c", Amount: dec("-5")}},
		{"expense zero", model.ManualExpense{Date: "2025-04-10"}},
		{"expense missing date", model.ManualExpense{Amount: dec("5")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Add(tt.src)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
	assert.Empty(t, r.All())
}

func TestAddManualExpense(t *testing.T) {
	r, _ := newTestRepo(t)
	e, err := r.AddManualExpense(model.ManualExpense{Date: "2025-06-01", AccountID: "expenses", Category: "tea", Amount: dec("40")})
	require.NoError(t, err)
	assert.Equal(t, "EXP-2025-06-001", e.ID)
	assert.Equal(t, model.ModeCash, e.Mode)

	got := r.Expenses()
	require.Len(t, got, 1)
	assert.Equal(t, "tea", got[0].Category)
}

func TestSoftDelete(t *testing.T) {
	r, _ := newTestRepo(t)
	s, err := r.AddSale(model.Sale{Date: "2025-04-10", CustomerID: "c1", Amount: dec("500")})
	require.NoError(t, err)

	found, err := r.SoftDelete(model.SourceSale, s.ID)
	require.NoError(t, err)
	assert.True(t, found)

	sales := r.Sales()
	require.Len(t, sales, 1, "record is kept")
	assert.True(t, sales[0].IsDeleted)
	assert.Empty(t, r.Live())
}

func TestSoftDelete_UnknownIsLoggedNoop(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := store.NewMemory()
	r := NewRepository(s, zap.New(core))
	_, err := r.AddSale(model.Sale{Date: "2025-04-10", CustomerID: "c1", Amount: dec("500")})
	require.NoError(t, err)
	before, _, _ := s.Get(store.KeySales)

	found, err := r.SoftDelete(model.SourceSale, "SAL-2025-04-999")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, logs.FilterMessage("delete of unknown record ignored").Len())

	after, _, _ := s.Get(store.KeySales)
	assert.Equal(t, string(before), string(after), "nothing rewritten")
}

func TestSoftDelete_EveryKind(t *testing.T) {
	r, _ := newTestRepo(t)
	var ids []model.Source
	for _, src := range []model.Source{
		model.Sale{Date: "2025-04-10", CustomerID: "c", Amount: dec("1")},
		model.Purchase{Date: "2025-04-10", SupplierID: "s", Amount: dec("1")},
		model.Payment{Date: "2025-04-10", PartyID: "s", Amount: dec("1")},
		model.Receipt{Date: "2025-04-10", PartyID: "c", Amount: dec("1")},
		model.ManualExpense{Date: "2025-04-10", Amount: dec("1")},
	} {
		added, err := r.Add(src)
		require.NoError(t, err)
		ids = append(ids, added)
	}

	for _, src := range ids {
		found, err := r.SoftDelete(src.Kind(), src.SourceID())
		require.NoError(t, err)
		assert.True(t, found, "%s %s", src.Kind(), src.SourceID())
	}
	assert.Len(t, r.All(), 5)
	assert.Empty(t, r.Live())
}

func TestSoftDelete_BadKind(t *testing.T) {
	r, _ := newTestRepo(t)
	_, err := r.SoftDelete(model.SourceOpening, "x")
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestCorruptCollectionReadsEmpty(t *testing.T) {
	r, s := newTestRepo(t)
	require.NoError(t, s.Set(store.KeyPurchases, []byte(`{"id":"oops"}`)))

	assert.Empty(t, r.Purchases())

	_, err := r.AddPurchase(model.Purchase{Date: "2025-04-10", SupplierID: "s", Amount: dec("9")})
	require.ErrorIs(t, err, store.ErrNotList)

	data, _, err := s.Get(store.KeyPurchases)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"oops"}`, string(data), "a value that is not a list is never overwritten")

	_, err = r.SoftDelete(model.SourcePurchase, "oops")
	assert.ErrorIs(t, err, store.ErrNotList)
}

func TestWriteKeepsUnreadableEntries(t *testing.T) {
	r, s := newTestRepo(t)
	require.NoError(t, s.Set(store.KeySales, []byte(`[
		{"id":"SAL-2025-04-001","seq":1,"date":"2025-04-10","customerId":"c","amount":"100"},
		{"id":"SAL-2025-04-002","seq":2,"date":"2025-04-11","customerId":"c","amount":{"bad":1}}
	]`)))
	require.Len(t, r.Sales(), 1)

	found, err := r.SoftDelete(model.SourceSale, "SAL-2025-04-001")
	require.NoError(t, err)
	assert.True(t, found)

	data, _, err := s.Get(store.KeySales)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"SAL-2025-04-002"`)
	assert.Contains(t, string(data), `{"bad":1}`)

	added, err := r.AddSale(model.Sale{Date: "2025-04-12", CustomerID: "c", Amount: dec("5")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), added.Seq, "unreadable entries still hold their seq")
	assert.Equal(t, "SAL-2025-04-003", added.ID, "and their id")

	data, _, err = s.Get(store.KeySales)
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"bad":1}`)

	sales := r.Sales()
	require.Len(t, sales, 2)
	assert.True(t, sales[0].IsDeleted)
	assert.Equal(t, added.ID, sales[1].ID)
}

func TestSequenceContinuesAfterStoredRecords(t *testing.T) {
	r, s := newTestRepo(t)
	require.NoError(t, s.Set(store.KeySales, []byte(`[{"id":"SAL-2025-04-001","seq":1,"date":"2025-04-10","customerId":"c","amount":"100"}]`)))

	added, err := r.AddSale(model.Sale{Date: "2025-04-11", CustomerID: "c", Amount: dec("1")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), added.Seq, "missing counter does not restart at 1")
	assert.Equal(t, "SAL-2025-04-002", added.ID)
}

func TestSequenceRecoversFromCorruptCounter(t *testing.T) {
	r, s := newTestRepo(t)
	_, err := r.AddSale(model.Sale{Date: "2025-04-10", CustomerID: "c", Amount: dec("1")})
	require.NoError(t, err)
	require.NoError(t, s.Set(store.KeySequence, []byte(`"garbage"`)))

	s2, err := r.AddSale(model.Sale{Date: "2025-04-11", CustomerID: "c", Amount: dec("1")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), s2.Seq)
}

func TestKey(t *testing.T) {
	k, ok := Key(model.SourceReceipt)
	assert.True(t, ok)
	assert.Equal(t, store.KeyReceipts, k)
	_, ok = Key(model.SourceOpening)
	assert.False(t, ok)
}
