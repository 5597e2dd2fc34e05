package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Import files are matched by header name, so columns may come in any order and optional
// columns may be left out. Dates are YYYY-MM-DD or DD/MM/YYYY.
var dateLayouts = []string{model.DateLayout, "02/01/2006", "2/1/2006"}

// SalesParser reads columns id, date, bill_number, customer_id, broker_id, lot_number,
// quantity, rate, amount, narration.
type SalesParser struct{}

// Kind returns model.SourceSale.
func (SalesParser) Kind() model.SourceType { return model.SourceSale }

// Parse reads a sales CSV.
func (SalesParser) Parse(r io.Reader) ([]model.Source, error) {
	return parseTable(r, []string{"date", "customer_id"}, func(c *cells) (model.Source, error) {
		s := model.Sale{
			ID:         c.str("id"),
			Date:       c.date(),
			BillNumber: c.str("bill_number"),
			CustomerID: c.str("customer_id"),
			BrokerID:   c.str("broker_id"),
			LotNumber:  c.str("lot_number"),
			Quantity:   c.dec("quantity"),
			Rate:       c.dec("rate"),
			Amount:     c.dec("amount"),
			Narration:  c.str("narration"),
		}
		return s, c.err
	})
}

// PurchasesParser reads columns id, date, lot_number, supplier_id, agent_id, broker_id,
// transporter_id, quantity, rate, amount, freight, location, narration.
type PurchasesParser struct{}

// Kind returns model.SourcePurchase.
func (PurchasesParser) Kind() model.SourceType { return model.SourcePurchase }

// Parse reads a purchases CSV.
func (PurchasesParser) Parse(r io.Reader) ([]model.Source, error) {
	return parseTable(r, []string{"date", "supplier_id"}, func(c *cells) (model.Source, error) {
		p := model.Purchase{
			ID:            c.str("id"),
			Date:          c.date(),
			LotNumber:     c.str("lot_number"),
			SupplierID:    c.str("supplier_id"),
			AgentID:       c.str("agent_id"),
			BrokerID:      c.str("broker_id"),
			TransporterID: c.str("transporter_id"),
			Quantity:      c.dec("quantity"),
			Rate:          c.dec("rate"),
			Amount:        c.dec("amount"),
			Freight:       c.dec("freight"),
			Location:      c.str("location"),
			Narration:     c.str("narration"),
		}
		return p, c.err
	})
}

// PaymentsParser reads columns id, date, party_id, party_type, amount, mode, reference, narration.
type PaymentsParser struct{}

// Kind returns model.SourcePayment.
func (PaymentsParser) Kind() model.SourceType { return model.SourcePayment }

// Parse reads a payments CSV.
func (PaymentsParser) Parse(r io.Reader) ([]model.Source, error) {
	return parseTable(r, []string{"date", "party_id", "amount"}, func(c *cells) (model.Source, error) {
		p := model.Payment{
			ID:        c.str("id"),
			Date:      c.date(),
			PartyID:   c.str("party_id"),
			PartyType: c.partyType(),
			Amount:    c.dec("amount"),
			Mode:      c.mode(),
			Reference: c.str("reference"),
			Narration: c.str("narration"),
		}
		return p, c.err
	})
}

// ReceiptsParser reads the same columns as PaymentsParser.
type ReceiptsParser struct{}

// Kind returns model.SourceReceipt.
func (ReceiptsParser) Kind() model.SourceType { return model.SourceReceipt }

// Parse reads a receipts CSV.
func (ReceiptsParser) Parse(r io.Reader) ([]model.Source, error) {
	return parseTable(r, []string{"date", "party_id", "amount"}, func(c *cells) (model.Source, error) {
		rc := model.Receipt{
			ID:        c.str("id"),
			Date:      c.date(),
			PartyID:   c.str("party_id"),
			PartyType: c.partyType(),
			Amount:    c.dec("amount"),
			Mode:      c.mode(),
			Reference: c.str("reference"),
			Narration: c.str("narration"),
		}
		return rc, c.err
	})
}

// ExpensesParser reads columns id, date, account_id, category, amount, mode, narration.
type ExpensesParser struct{}

// Kind returns model.SourceExpense.
func (ExpensesParser) Kind() model.SourceType { return model.SourceExpense }

// Parse reads an expenses CSV.
func (ExpensesParser) Parse(r io.Reader) ([]model.Source, error) {
	return parseTable(r, []string{"date", "amount"}, func(c *cells) (model.Source, error) {
		e := model.ManualExpense{
			ID:        c.str("id"),
			Date:      c.date(),
			AccountID: c.str("account_id"),
			Category:  c.str("category"),
			Amount:    c.dec("amount"),
			Mode:      c.mode(),
			Narration: c.str("narration"),
		}
		return e, c.err
	})
}

// parseTable reads a header-led CSV and converts each non-blank row with build.
func parseTable(r io.Reader, required []string, build func(*cells) (model.Source, error)) ([]model.Source, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var out []model.Source
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		src, err := build(&cells{cols: cols, rec: rec})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, src)
	}
	return out, nil
}

// cells reads a row's values by column name, remembering the first conversion error.
type cells struct {
	cols map[string]int
	rec  []string
	err  error
}

func (r *cells) str(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *cells) dec(name string) decimal.Decimal {
	s := strings.ReplaceAll(r.str(name), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("parsing %s %q: %w", name, s, err)
	}
	return d
}

func (r *cells) date() string {
	s := r.str("date")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.FormatDate(t)
		}
	}
	if r.err == nil {
		r.err = fmt.Errorf("parsing date %q", s)
	}
	return s
}

func (r *cells) mode() model.PaymentMode {
	switch m := strings.ToLower(r.str("mode")); m {
	case "":
		return ""
	case string(model.ModeCash), string(model.ModeBank):
		return model.PaymentMode(m)
	default:
		if r.err == nil {
			r.err = fmt.Errorf("unknown mode %q", m)
		}
		return ""
	}
}

func (r *cells) partyType() model.AccountType {
	t := model.AccountType(strings.ToLower(r.str("party_type")))
	if t != "" && !t.IsParty() && r.err == nil {
		r.err = fmt.Errorf("unknown party type %q", t)
	}
	return t
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
