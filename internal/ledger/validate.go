package ledger

import (
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// ValidationError describes a single invariant violation in a projected ledger.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// Validate enforces 5 invariants on an ordered entry list.
func Validate(entries []model.LedgerEntry) []ValidationError {
	var errs []ValidationError

	// Invariant 1: at most one opening entry, and it comes first.
	openings := 0
	for i, e := range entries {
		if e.SourceType != model.SourceOpening {
			continue
		}
		openings++
		if i != 0 {
			errs = append(errs, ValidationError{
				Invariant:   1,
				EntryID:     e.ID,
				Description: fmt.Sprintf("opening entry at position %d, want 0", i),
			})
		}
	}
	if openings > 1 {
		errs = append(errs, ValidationError{
			Invariant:   1,
			EntryID:     entries[0].AccountID,
			Description: fmt.Sprintf("%d opening entries, want at most 1", openings),
		})
	}

	for i, e := range entries {
		// Invariant 2: dated entries are in chronological order.
		if i > 0 && e.SourceType != model.SourceOpening && entries[i-1].SourceType != model.SourceOpening &&
			e.Date.Before(entries[i-1].Date) {
			errs = append(errs, ValidationError{
				Invariant:   2,
				EntryID:     e.ID,
				Description: fmt.Sprintf("dated %s after an entry dated %s", model.FormatDate(e.Date), model.FormatDate(entries[i-1].Date)),
			})
		}

		// Invariant 3: no negative amounts.
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   3,
				EntryID:     e.ID,
				Description: fmt.Sprintf("negative amount (debit %s, credit %s)", e.Debit, e.Credit),
			})
		}

		// Invariant 4: debit and credit are never both positive.
		if e.Debit.IsPositive() && e.Credit.IsPositive() {
			errs = append(errs, ValidationError{
				Invariant:   4,
				EntryID:     e.ID,
				Description: "entry has both debit and credit",
			})
		}

		// Invariant 5: amounts carry at most two decimal places.
		if !e.Debit.Equal(e.Debit.Round(2)) || !e.Credit.Equal(e.Credit.Round(2)) {
			errs = append(errs, ValidationError{
				Invariant:   5,
				EntryID:     e.ID,
				Description: fmt.Sprintf("amount finer than 0.01 (debit %s, credit %s)", e.Debit, e.Credit),
			})
		}
	}

	return errs
}
