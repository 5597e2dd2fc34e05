package books

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Lot is one stock lot's position: what came in (opening stock and purchases), what was sold,
// and what the remainder is worth at the lot's average inbound rate.
type Lot struct {
	LotNumber string
	Location  string
	Inbound   decimal.Decimal
	Sold      decimal.Decimal
	Remaining decimal.Decimal
	Rate      decimal.Decimal
	Value     decimal.Decimal
}

// TotalSalesValue sums the value of live sales in the active year.
func (s *Service) TotalSalesValue() decimal.Decimal {
	total := decimal.Zero
	for _, sale := range s.records.Sales() {
		if s.counts(sale) {
			total = total.Add(sale.Total())
		}
	}
	return total.Round(2)
}

// TotalPurchaseValue sums the value of live purchases in the active year.
func (s *Service) TotalPurchaseValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.records.Purchases() {
		if s.counts(p) {
			total = total.Add(p.Total())
		}
	}
	return total.Round(2)
}

// TotalInventoryValue is the value of every lot still in stock.
func (s *Service) TotalInventoryValue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Stock() {
		total = total.Add(l.Value)
	}
	return total
}

// Stock returns every lot known from the active year's opening stock or its purchases, ordered
// by lot number. Sales against a lot reduce it; a lot never goes below zero.
func (s *Service) Stock() []Lot {
	type acc struct {
		lot     Lot
		inValue decimal.Decimal
	}
	lots := make(map[string]*acc)
	get := func(number string) *acc {
		key := strings.TrimSpace(number)
		a, ok := lots[key]
		if !ok {
			a = &acc{lot: Lot{LotNumber: key, Inbound: decimal.Zero, Sold: decimal.Zero}, inValue: decimal.Zero}
			lots[key] = a
		}
		return a
	}

	if _, ob, ok := s.years.ActiveOpeningBalances(); ok {
		for _, st := range ob.Stock {
			a := get(st.LotNumber)
			a.lot.Inbound = a.lot.Inbound.Add(st.Quantity)
			a.inValue = a.inValue.Add(st.Quantity.Mul(st.Rate))
			if a.lot.Location == "" {
				a.lot.Location = st.Location
			}
		}
	}

	for _, p := range s.records.Purchases() {
		if !s.counts(p) || strings.TrimSpace(p.LotNumber) == "" {
			continue
		}
		a := get(p.LotNumber)
		a.lot.Inbound = a.lot.Inbound.Add(p.Quantity)
		a.inValue = a.inValue.Add(p.Total())
		if a.lot.Location == "" {
			a.lot.Location = p.Location
		}
	}

	for _, sale := range s.records.Sales() {
		if !s.counts(sale) {
			continue
		}
		if a, ok := lots[strings.TrimSpace(sale.LotNumber)]; ok {
			a.lot.Sold = a.lot.Sold.Add(sale.Quantity)
		}
	}

	out := make([]Lot, 0, len(lots))
	for _, a := range lots {
		l := a.lot
		l.Rate = decimal.Zero
		if l.Inbound.IsPositive() {
			l.Rate = a.inValue.DivRound(l.Inbound, 4)
		}
		l.Remaining = decimal.Max(decimal.Zero, l.Inbound.Sub(l.Sold))
		l.Value = l.Remaining.Mul(l.Rate).Round(2)
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LotNumber < out[j].LotNumber })
	return out
}

// counts reports whether src is live and dated inside the active year. Without an active year
// every live record with a valid date counts.
func (s *Service) counts(src model.Source) bool {
	if src.Deleted() {
		return false
	}
	day, ok := model.ParseDate(src.SourceDate())
	if !ok {
		return false
	}
	if fy, ok := s.years.ActiveYear(); ok {
		return fy.Contains(day)
	}
	return true
}
