package accounts

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

// ErrInvalidAccount is returned when an account fails validation.
var ErrInvalidAccount = errors.New("invalid account")

// ErrNotFound is returned by writes addressed to an unknown account.
var ErrNotFound = errors.New("account not found")

// Filter narrows List. The zero Filter returns every live, non-system account.
type Filter struct {
	Type           model.AccountType
	IncludeSystem  bool
	IncludeDeleted bool
}

// Registry owns Account records and their opening balances.
type Registry struct {
	store store.Store
	log   *zap.Logger
}

// NewRegistry creates a Registry over s.
func NewRegistry(s store.Store, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{store: s, log: log}
}

// All returns every stored account, deleted ones included, in storage order.
func (r *Registry) All() []model.Account {
	return store.LoadList[model.Account](r.store, store.KeyAccounts, r.log)
}

// Get returns an account by ID. Deleted accounts are still returned; the flag is the caller's concern.
func (r *Registry) Get(id string) (model.Account, bool) {
	for _, a := range r.All() {
		if a.ID == id {
			return a, true
		}
	}
	return model.Account{}, false
}

// Exists reports whether an account ID exists.
func (r *Registry) Exists(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// List returns accounts matching f, ordered by name then ID.
func (r *Registry) List(f Filter) []model.Account {
	var result []model.Account
	for _, a := range r.All() {
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if a.IsSystemAccount && !f.IncludeSystem {
			continue
		}
		if a.IsDeleted && !f.IncludeDeleted {
			continue
		}
		result = append(result, a)
	}
	sort.SliceStable(result, func(i, j int) bool {
		ni, nj := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
		if ni != nj {
			return ni < nj
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Upsert validates acct and inserts it, or replaces the stored account with the same ID.
func (r *Registry) Upsert(acct model.Account) error {
	acct.Name = strings.TrimSpace(acct.Name)
	if acct.OpeningBalanceType == "" {
		acct.OpeningBalanceType = acct.Type.NaturalBalance()
	}
	if err := Validate(acct); err != nil {
		return err
	}

	list, err := store.OpenList[model.Account](r.store, store.KeyAccounts)
	if err != nil {
		return err
	}
	n, err := list.Update(func(a model.Account) bool { return a.ID == acct.ID }, func(a *model.Account) { *a = acct })
	if err != nil {
		return err
	}
	replaced := n > 0
	if !replaced {
		if err := list.Append(acct); err != nil {
			return err
		}
	}

	if err := list.Save(r.store); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}
	r.log.Debug("account saved", zap.String("account", acct.ID), zap.Bool("new", !replaced))
	return nil
}

// SetOpeningBalance sets an account's opening balance magnitude and side.
func (r *Registry) SetOpeningBalance(id string, amount decimal.Decimal, bt model.BalanceType) error {
	acct, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	acct.OpeningBalance = amount
	acct.OpeningBalanceType = bt
	return r.Upsert(acct)
}

// SoftDelete flags an account as deleted. Accounts are never removed.
func (r *Registry) SoftDelete(id string) error {
	acct, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	acct.IsDeleted = true
	return r.Upsert(acct)
}

// Seed upserts any of accts whose ID is not stored yet.
func (r *Registry) Seed(accts []model.Account) error {
	for _, a := range accts {
		if r.Exists(a.ID) {
			continue
		}
		if err := r.Upsert(a); err != nil {
			return fmt.Errorf("seeding %s: %w", a.ID, err)
		}
	}
	return nil
}

// Validate checks the fields every stored account must satisfy.
func Validate(acct model.Account) error {
	switch {
	case strings.TrimSpace(acct.ID) == "":
		return fmt.Errorf("%w: id required", ErrInvalidAccount)
	case strings.TrimSpace(acct.Name) == "":
		return fmt.Errorf("%w: name required", ErrInvalidAccount)
	case !acct.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAccount, acct.Type)
	case acct.OpeningBalance.IsNegative():
		return fmt.Errorf("%w: opening balance %s is negative", ErrInvalidAccount, acct.OpeningBalance)
	case acct.OpeningBalanceType != "" && !acct.OpeningBalanceType.Valid():
		return fmt.Errorf("%w: unknown balance type %q", ErrInvalidAccount, acct.OpeningBalanceType)
	}
	return nil
}
