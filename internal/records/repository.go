// Package records stores the business events the ledger is projected from.
// Records are soft-deleted only; nothing is ever removed from a collection.
package records

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

// ErrInvalidRecord is returned when a record fails validation on insert.
var ErrInvalidRecord = errors.New("invalid record")

// keys maps each source kind to the collection it lives in.
var keys = map[model.SourceType]string{
	model.SourceSale:     store.KeySales,
	model.SourcePurchase: store.KeyPurchases,
	model.SourcePayment:  store.KeyPayments,
	model.SourceReceipt:  store.KeyReceipts,
	model.SourceExpense:  store.KeyExpenses,
}

// Key returns the store key holding records of kind.
func Key(kind model.SourceType) (string, bool) {
	k, ok := keys[kind]
	return k, ok
}

// Repository reads and writes transaction-source collections.
type Repository struct {
	store store.Store
	log   *zap.Logger
}

// NewRepository creates a Repository over s.
func NewRepository(s store.Store, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{store: s, log: log}
}

// Sales returns every stored sale, deleted ones included.
func (r *Repository) Sales() []model.Sale {
	return store.LoadList[model.Sale](r.store, store.KeySales, r.log)
}

// Purchases returns every stored purchase, deleted ones included.
func (r *Repository) Purchases() []model.Purchase {
	return store.LoadList[model.Purchase](r.store, store.KeyPurchases, r.log)
}

// Payments returns every stored payment, deleted ones included.
func (r *Repository) Payments() []model.Payment {
	return store.LoadList[model.Payment](r.store, store.KeyPayments, r.log)
}

// Receipts returns every stored receipt, deleted ones included.
func (r *Repository) Receipts() []model.Receipt {
	return store.LoadList[model.Receipt](r.store, store.KeyReceipts, r.log)
}

// Expenses returns every stored manual expense, deleted ones included.
func (r *Repository) Expenses() []model.ManualExpense {
	return store.LoadList[model.ManualExpense](r.store, store.KeyExpenses, r.log)
}

// All returns every record of every kind, deleted ones included.
func (r *Repository) All() []model.Source {
	var out []model.Source
	for _, s := range r.Sales() {
		out = append(out, s)
	}
	for _, p := range r.Purchases() {
		out = append(out, p)
	}
	for _, p := range r.Payments() {
		out = append(out, p)
	}
	for _, rc := range r.Receipts() {
		out = append(out, rc)
	}
	for _, e := range r.Expenses() {
		out = append(out, e)
	}
	return out
}

// Live returns every record that is not soft-deleted.
func (r *Repository) Live() []model.Source {
	var out []model.Source
	for _, s := range r.All() {
		if !s.Deleted() {
			out = append(out, s)
		}
	}
	return out
}

// AddSale validates and appends a sale, assigning its ID and sequence.
func (r *Repository) AddSale(s model.Sale) (model.Sale, error) {
	if strings.TrimSpace(s.CustomerID) == "" {
		return s, fmt.Errorf("%w: sale needs a customer", ErrInvalidRecord)
	}
	if s.Quantity.IsNegative() || s.Rate.IsNegative() || s.Amount.IsNegative() {
		return s, fmt.Errorf("%w: sale amounts must not be negative", ErrInvalidRecord)
	}
	return insert(r, store.KeySales, s, func(rec *model.Sale, recID string, seq int64) {
		rec.ID, rec.Seq = recID, seq
	})
}

// AddPurchase validates and appends a purchase, assigning its ID and sequence.
func (r *Repository) AddPurchase(p model.Purchase) (model.Purchase, error) {
	if strings.TrimSpace(p.SupplierID) == "" {
		return p, fmt.Errorf("%w: purchase needs a supplier", ErrInvalidRecord)
	}
	if p.Quantity.IsNegative() || p.Rate.IsNegative() || p.Amount.IsNegative() || p.Freight.IsNegative() {
		return p, fmt.Errorf("%w: purchase amounts must not be negative", ErrInvalidRecord)
	}
	return insert(r, store.KeyPurchases, p, func(rec *model.Purchase, recID string, seq int64) {
		rec.ID, rec.Seq = recID, seq
	})
}

// AddPayment validates and appends a payment made to a party.
func (r *Repository) AddPayment(p model.Payment) (model.Payment, error) {
	if err := validateMoney(p.PartyID, p.Amount.IsPositive(), "payment"); err != nil {
		return p, err
	}
	if p.Mode == "" {
		p.Mode = model.ModeCash
	}
	return insert(r, store.KeyPayments, p, func(rec *model.Payment, recID string, seq int64) {
		rec.ID, rec.Seq = recID, seq
	})
}

// AddReceipt validates and appends a receipt from a party.
func (r *Repository) AddReceipt(rc model.Receipt) (model.Receipt, error) {
	if err := validateMoney(rc.PartyID, rc.Amount.IsPositive(), "receipt"); err != nil {
		return rc, err
	}
	if rc.Mode == "" {
		rc.Mode = model.ModeCash
	}
	return insert(r, store.KeyReceipts, rc, func(rec *model.Receipt, recID string, seq int64) {
		rec.ID, rec.Seq = recID, seq
	})
}

// AddManualExpense validates and appends an expense. It is paid in cash unless a mode is given.
func (r *Repository) AddManualExpense(e model.ManualExpense) (model.ManualExpense, error) {
	if !e.Amount.IsPositive() {
		return e, fmt.Errorf("%w: expense amount must be positive", ErrInvalidRecord)
	}
	if e.Mode == "" {
		e.Mode = model.ModeCash
	}
	return insert(r, store.KeyExpenses, e, func(rec *model.ManualExpense, recID string, seq int64) {
		rec.ID, rec.Seq = recID, seq
	})
}

// Add dispatches to the typed Add method for src's kind.
func (r *Repository) Add(src model.Source) (model.Source, error) {
	switch s := src.(type) {
	case model.Sale:
		return r.AddSale(s)
	case model.Purchase:
		return r.AddPurchase(s)
	case model.Payment:
		return r.AddPayment(s)
	case model.Receipt:
		return r.AddReceipt(s)
	case model.ManualExpense:
		return r.AddManualExpense(s)
	default:
		return nil, fmt.Errorf("%w: unsupported record %T", ErrInvalidRecord, src)
	}
}

// SoftDelete flags the record kind/recordID as deleted. It reports whether the record was
// found; deleting an unknown record is a logged no-op.
func (r *Repository) SoftDelete(kind model.SourceType, recordID string) (bool, error) {
	var (
		found bool
		err   error
	)
	switch kind {
	case model.SourceSale:
		found, err = markDeleted(r, store.KeySales, recordID, func(s *model.Sale) { s.IsDeleted = true })
	case model.SourcePurchase:
		found, err = markDeleted(r, store.KeyPurchases, recordID, func(p *model.Purchase) { p.IsDeleted = true })
	case model.SourcePayment:
		found, err = markDeleted(r, store.KeyPayments, recordID, func(p *model.Payment) { p.IsDeleted = true })
	case model.SourceReceipt:
		found, err = markDeleted(r, store.KeyReceipts, recordID, func(rc *model.Receipt) { rc.IsDeleted = true })
	case model.SourceExpense:
		found, err = markDeleted(r, store.KeyExpenses, recordID, func(e *model.ManualExpense) { e.IsDeleted = true })
	default:
		return false, fmt.Errorf("%w: cannot delete records of kind %q", ErrInvalidRecord, kind)
	}
	if err != nil {
		return false, err
	}
	if !found {
		r.log.Warn("delete of unknown record ignored", zap.String("kind", string(kind)), zap.String("id", recordID))
		return false, nil
	}
	r.log.Info("record soft-deleted", zap.String("kind", string(kind)), zap.String("id", recordID))
	return true, nil
}

func insert[T model.Source](r *Repository, key string, rec T, assign func(*T, string, int64)) (T, error) {
	date, ok := model.ParseDate(rec.SourceDate())
	if !ok {
		return rec, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidRecord, rec.SourceDate())
	}

	list, err := store.OpenList[T](r.store, key)
	if err != nil {
		return rec, err
	}
	stored := store.LoadList[recordHeader](r.store, key, r.log)
	ids := make([]string, len(stored))
	for i, h := range stored {
		ids[i] = h.ID
	}

	recID := rec.SourceID()
	if recID == "" {
		recID = id.FormatRecordID(rec.Kind(), date.Year(), int(date.Month()), id.NextSeq(ids, rec.Kind(), date.Year(), int(date.Month())))
	} else {
		for _, existing := range ids {
			if existing == recID {
				return rec, fmt.Errorf("%w: %s %s already exists", ErrInvalidRecord, rec.Kind(), recID)
			}
		}
	}

	seq, err := r.nextSequence()
	if err != nil {
		return rec, err
	}
	assign(&rec, recID, seq)

	if err := list.Append(rec); err != nil {
		return rec, err
	}
	if err := list.Save(r.store); err != nil {
		return rec, fmt.Errorf("saving %s: %w", key, err)
	}
	r.log.Debug("record added", zap.String("kind", string(rec.Kind())), zap.String("id", recID), zap.Int64("seq", seq))
	return rec, nil
}

func markDeleted[T model.Source](r *Repository, key, recordID string, mark func(*T)) (bool, error) {
	list, err := store.OpenList[T](r.store, key)
	if err != nil {
		return false, err
	}
	found := false
	for _, rec := range list.Values() {
		if rec.SourceID() == recordID {
			if rec.Deleted() {
				return true, nil
			}
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	if _, err := list.Update(func(rec T) bool { return rec.SourceID() == recordID }, mark); err != nil {
		return false, err
	}
	if err := list.Save(r.store); err != nil {
		return false, fmt.Errorf("saving %s: %w", key, err)
	}
	return true, nil
}

// nextSequence returns the next global creation-order number. It never hands out a number
// at or below one already stored, even when the counter is missing or behind.
func (r *Repository) nextSequence() (int64, error) {
	cur, _, err := store.Load[int64](r.store, store.KeySequence)
	if err != nil {
		r.log.Warn("sequence counter unreadable, restarting from highest stored seq", zap.Error(err))
		cur = 0
	}
	next := max(cur, r.maxStoredSeq()) + 1
	if err := store.Save(r.store, store.KeySequence, next); err != nil {
		return 0, fmt.Errorf("saving sequence: %w", err)
	}
	return next, nil
}

// recordHeader is the part of a stored record that identifies it. It decodes even when the
// rest of the record does not.
type recordHeader struct {
	ID  string `json:"id"`
	Seq int64  `json:"seq"`
}

func (r *Repository) maxStoredSeq() int64 {
	var maxSeq int64
	for _, key := range keys {
		for _, h := range store.LoadList[recordHeader](r.store, key, r.log) {
			maxSeq = max(maxSeq, h.Seq)
		}
	}
	return maxSeq
}

func validateMoney(partyID string, positive bool, what string) error {
	if strings.TrimSpace(partyID) == "" {
		return fmt.Errorf("%w: %s needs a party", ErrInvalidRecord, what)
	}
	if !positive {
		return fmt.Errorf("%w: %s amount must be positive", ErrInvalidRecord, what)
	}
	return nil
}
