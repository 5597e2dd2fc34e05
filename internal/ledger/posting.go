package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// post converts one source record into the entries it contributes to accountID acting in role.
// Amounts land in the column dictated by the role's natural side:
//
//	sale        customer → debit            broker → credit
//	purchase    supplier/agent/broker → credit (total), transporter → credit (freight)
//	payment     party → debit               cash (mode=cash) → credit
//	receipt     party → credit              cash (mode=cash) → debit
//	expense     its account → debit         cash (mode=cash) → credit
//
// Every entry has exactly one of debit or credit set, rounded to two decimals.
func post(src model.Source, accountID string, role model.AccountType) []model.LedgerEntry {
	isCash := role == model.AccountTypeCash

	switch s := src.(type) {
	case model.Sale:
		ref := firstNonEmpty(s.BillNumber, s.ID)
		narr := firstNonEmpty(s.Narration, lotNarration("Sale", s.LotNumber, s.Quantity))
		switch {
		case role == model.AccountTypeCustomer && s.CustomerID == accountID:
			return debit(src, ref, narr, s.Total())
		case role == model.AccountTypeBroker && s.BrokerID == accountID:
			return credit(src, ref, narr, s.Total())
		}

	case model.Purchase:
		ref := firstNonEmpty(s.LotNumber, s.ID)
		narr := firstNonEmpty(s.Narration, lotNarration("Purchase", s.LotNumber, s.Quantity))
		switch {
		case role == model.AccountTypeSupplier && s.SupplierID == accountID,
			role == model.AccountTypeAgent && s.AgentID == accountID,
			role == model.AccountTypeBroker && s.BrokerID == accountID:
			return credit(src, ref, narr, s.Total())
		case role == model.AccountTypeTransporter && s.TransporterID == accountID:
			return credit(src, ref, firstNonEmpty(s.Narration, "Freight for lot "+s.LotNumber), s.Freight)
		}

	case model.Payment:
		ref := firstNonEmpty(s.Reference, s.ID)
		switch {
		case isCash && s.Mode == model.ModeCash:
			return credit(src, ref, firstNonEmpty(s.Narration, "Paid to "+s.PartyID), s.Amount)
		case s.PartyID == accountID && matchesRole(s.PartyType, role):
			return debit(src, ref, firstNonEmpty(s.Narration, "Payment ("+string(s.Mode)+")"), s.Amount)
		}

	case model.Receipt:
		ref := firstNonEmpty(s.Reference, s.ID)
		switch {
		case isCash && s.Mode == model.ModeCash:
			return debit(src, ref, firstNonEmpty(s.Narration, "Received from "+s.PartyID), s.Amount)
		case s.PartyID == accountID && matchesRole(s.PartyType, role):
			return credit(src, ref, firstNonEmpty(s.Narration, "Receipt ("+string(s.Mode)+")"), s.Amount)
		}

	case model.ManualExpense:
		narr := firstNonEmpty(s.Narration, s.Category, "Expense")
		switch {
		case isCash && s.Mode == model.ModeCash:
			return credit(src, s.ID, narr, s.Amount)
		case !isCash && s.AccountID == accountID:
			return debit(src, s.ID, narr, s.Amount)
		}
	}
	return nil
}

func debit(src model.Source, ref, narr string, amount decimal.Decimal) []model.LedgerEntry {
	return []model.LedgerEntry{entryFor(src, ref, narr, amount, decimal.Zero)}
}

func credit(src model.Source, ref, narr string, amount decimal.Decimal) []model.LedgerEntry {
	return []model.LedgerEntry{entryFor(src, ref, narr, decimal.Zero, amount)}
}

func entryFor(src model.Source, ref, narr string, dr, cr decimal.Decimal) model.LedgerEntry {
	return model.LedgerEntry{
		Reference:  ref,
		Narration:  narr,
		Debit:      dr.Round(2),
		Credit:     cr.Round(2),
		SourceType: src.Kind(),
		SourceID:   src.SourceID(),
		Seq:        src.SourceSeq(),
	}
}

// matchesRole reports whether a payment/receipt addressed to recorded party type applies to role.
// Records without a party type apply to any role of that party.
func matchesRole(recorded, role model.AccountType) bool {
	return recorded == "" || recorded == role
}

func lotNarration(verb, lot string, qty decimal.Decimal) string {
	if lot == "" {
		return verb
	}
	if qty.IsZero() {
		return fmt.Sprintf("%s, lot %s", verb, lot)
	}
	return fmt.Sprintf("%s, lot %s × %s", verb, lot, qty.String())
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
