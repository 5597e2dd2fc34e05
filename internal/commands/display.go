package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// formatMoney renders amount in currency, e.g. "₹1,500.00". Codes go-money does not know
// fall back to the plain amount followed by the code.
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

// formatBalance renders a balance with its side, e.g. "₹1,500.00 Dr".
func formatBalance(amount decimal.Decimal, bt model.BalanceType, currency string) string {
	return formatMoney(amount, currency) + " " + bt.Short()
}

// column renders a debit or credit cell, blank when zero.
func column(amount decimal.Decimal, currency string) string {
	if amount.IsZero() {
		return ""
	}
	return formatMoney(amount, currency)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return model.FormatDate(t)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func parseDay(s string) (time.Time, error) {
	t, ok := model.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", name, s)
	}
	return d, nil
}

func parseSourceType(s string) (model.SourceType, error) {
	kind := model.SourceType(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range model.SourceTypes {
		if k == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown record kind %q (want one of %s)", s, joinKinds(model.SourceTypes))
}

func parsePartyType(s string) (model.AccountType, error) {
	t := model.AccountType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsParty() {
		return "", fmt.Errorf("unknown party type %q", s)
	}
	return t, nil
}

func parseBalanceType(s string) (model.BalanceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "dr", "debit":
		return model.BalanceDebit, nil
	case "cr", "credit":
		return model.BalanceCredit, nil
	}
	return "", fmt.Errorf("invalid balance side %q (want debit or credit)", s)
}

func parseMode(s string) (model.PaymentMode, error) {
	switch m := model.PaymentMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", model.ModeCash, model.ModeBank:
		return m, nil
	}
	return "", fmt.Errorf("invalid mode %q (want cash or bank)", s)
}

func joinKinds(kinds []model.SourceType) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
