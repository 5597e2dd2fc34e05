// Package fiscal manages financial years and their opening-balance snapshots.
package fiscal

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

var (
	// ErrNoActiveYear is returned when an operation needs an active financial year and none exists.
	ErrNoActiveYear = errors.New("no active financial year")
	// ErrUnknownYear is returned when a year ID does not exist.
	ErrUnknownYear = errors.New("unknown financial year")
	// ErrDuplicateLot is returned when a stock snapshot repeats a lot number.
	ErrDuplicateLot = errors.New("duplicate lot number")
	// ErrInvalidYear is returned when a year fails validation.
	ErrInvalidYear = errors.New("invalid financial year")
	// ErrInvalidOpening is returned when an opening snapshot fails validation.
	ErrInvalidOpening = errors.New("invalid opening balance")
)

// Manager owns financial-year boundaries and opening-balance snapshots.
type Manager struct {
	store store.Store
	log   *zap.Logger
}

// NewManager creates a Manager over s.
func NewManager(s store.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: s, log: log}
}

// Years returns every financial year ordered by start date.
func (m *Manager) Years() []model.FinancialYear {
	years := store.LoadList[model.FinancialYear](m.store, store.KeyFinancialYears, m.log)
	sort.SliceStable(years, func(i, j int) bool {
		return years[i].StartDate < years[j].StartDate
	})
	return years
}

// Year returns the year with the given ID.
func (m *Manager) Year(id string) (model.FinancialYear, bool) {
	for _, y := range m.Years() {
		if y.ID == id {
			return y, true
		}
	}
	return model.FinancialYear{}, false
}

// ActiveYear returns the active year. If stored data ever holds more than one active year,
// the latest-starting one wins and the inconsistency is logged.
func (m *Manager) ActiveYear() (model.FinancialYear, bool) {
	var active []model.FinancialYear
	for _, y := range m.Years() {
		if y.IsActive {
			active = append(active, y)
		}
	}
	if len(active) == 0 {
		return model.FinancialYear{}, false
	}
	if len(active) > 1 {
		m.log.Warn("more than one active financial year", zap.Int("count", len(active)))
	}
	return active[len(active)-1], true
}

// AddYear stores a new financial year. When fy is active every other year is deactivated.
func (m *Manager) AddYear(fy model.FinancialYear) error {
	fy.ID = strings.TrimSpace(fy.ID)
	if fy.ID == "" {
		return fmt.Errorf("%w: id required", ErrInvalidYear)
	}
	start, ok := model.ParseDate(fy.StartDate)
	if !ok {
		return fmt.Errorf("%w: start date %q", ErrInvalidYear, fy.StartDate)
	}
	end, ok := model.ParseDate(fy.EndDate)
	if !ok {
		return fmt.Errorf("%w: end date %q", ErrInvalidYear, fy.EndDate)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: ends %s before it starts %s", ErrInvalidYear, fy.EndDate, fy.StartDate)
	}

	years, err := store.OpenList[model.FinancialYear](m.store, store.KeyFinancialYears)
	if err != nil {
		return err
	}
	for _, y := range years.Values() {
		if y.ID == fy.ID {
			return fmt.Errorf("%w: %s already exists", ErrInvalidYear, fy.ID)
		}
	}
	if fy.IsActive {
		if _, err := years.Update(
			func(y model.FinancialYear) bool { return y.IsActive },
			func(y *model.FinancialYear) { y.IsActive = false },
		); err != nil {
			return err
		}
	}
	if err := years.Append(fy); err != nil {
		return err
	}

	if err := years.Save(m.store); err != nil {
		return fmt.Errorf("saving financial years: %w", err)
	}
	m.log.Info("financial year added", zap.String("year", fy.ID), zap.Bool("active", fy.IsActive))
	return nil
}

// OpeningBalances returns the snapshot stored for yearID.
func (m *Manager) OpeningBalances(yearID string) (model.OpeningBalance, bool) {
	ob, ok, err := store.Load[model.OpeningBalance](m.store, store.OpeningKey(yearID))
	if err != nil {
		m.log.Warn("opening balances unreadable, treating as absent", zap.String("year", yearID), zap.Error(err))
		return model.OpeningBalance{}, false
	}
	return ob, ok
}

// ActiveOpeningBalances returns the active year together with its snapshot.
func (m *Manager) ActiveOpeningBalances() (model.FinancialYear, model.OpeningBalance, bool) {
	fy, ok := m.ActiveYear()
	if !ok {
		return model.FinancialYear{}, model.OpeningBalance{}, false
	}
	ob, ok := m.OpeningBalances(fy.ID)
	return fy, ob, ok
}

// SaveOpeningBalances validates and stores ob, replacing the year's previous snapshot.
// On any error the previous snapshot is left untouched.
func (m *Manager) SaveOpeningBalances(ob model.OpeningBalance) error {
	if _, ok := m.ActiveYear(); !ok {
		return ErrNoActiveYear
	}
	if _, ok := m.Year(ob.YearID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownYear, ob.YearID)
	}
	if err := ValidateOpening(ob); err != nil {
		return err
	}

	if err := store.Save(m.store, store.OpeningKey(ob.YearID), ob); err != nil {
		return fmt.Errorf("saving opening balances: %w", err)
	}
	m.log.Info("opening balances saved",
		zap.String("year", ob.YearID),
		zap.Int("lots", len(ob.Stock)),
		zap.Int("parties", len(ob.Parties)))
	return nil
}

// ValidateOpening checks lot uniqueness and party amounts of a snapshot.
func ValidateOpening(ob model.OpeningBalance) error {
	lots := make(map[string]bool, len(ob.Stock))
	for _, s := range ob.Stock {
		lot := strings.TrimSpace(s.LotNumber)
		if lot == "" {
			return fmt.Errorf("%w: stock item without lot number", ErrInvalidOpening)
		}
		if lots[lot] {
			return fmt.Errorf("%w: %s", ErrDuplicateLot, lot)
		}
		lots[lot] = true
		if s.Quantity.IsNegative() || s.Rate.IsNegative() {
			return fmt.Errorf("%w: lot %s has a negative quantity or rate", ErrInvalidOpening, lot)
		}
	}

	parties := make(map[string]bool, len(ob.Parties))
	for _, p := range ob.Parties {
		if strings.TrimSpace(p.PartyID) == "" {
			return fmt.Errorf("%w: party without id", ErrInvalidOpening)
		}
		if parties[p.PartyID] {
			return fmt.Errorf("%w: party %s listed twice", ErrInvalidOpening, p.PartyID)
		}
		parties[p.PartyID] = true
		if p.Amount.IsNegative() {
			return fmt.Errorf("%w: party %s amount %s is negative", ErrInvalidOpening, p.PartyID, p.Amount)
		}
		if p.BalanceType != "" && !p.BalanceType.Valid() {
			return fmt.Errorf("%w: party %s balance type %q", ErrInvalidOpening, p.PartyID, p.BalanceType)
		}
	}
	return nil
}
