package model

import "github.com/shopspring/decimal"

// Source is a business event that feeds the ledger. The set of implementations is closed:
// Sale, Purchase, Payment, Receipt and ManualExpense.
type Source interface {
	Kind() SourceType
	SourceID() string
	SourceSeq() int64
	SourceDate() string
	Deleted() bool
	sealed()
}

// PaymentMode says how money moved.
type PaymentMode string

const (
	ModeCash PaymentMode = "cash"
	ModeBank PaymentMode = "bank"
)

// Sale is goods sold from a lot to a customer, optionally through a broker.
type Sale struct {
	ID         string          `json:"id"`
	Seq        int64           `json:"seq"`
	Date       string          `json:"date"`
	BillNumber string          `json:"billNumber"`
	CustomerID string          `json:"customerId"`
	BrokerID   string          `json:"brokerId,omitempty"`
	LotNumber  string          `json:"lotNumber"`
	Quantity   decimal.Decimal `json:"quantity"`
	Rate       decimal.Decimal `json:"rate"`
	Amount     decimal.Decimal `json:"amount"`
	Narration  string          `json:"narration,omitempty"`
	IsDeleted  bool            `json:"isDeleted"`
}

// Total is Amount when set, otherwise Quantity × Rate.
func (s Sale) Total() decimal.Decimal {
	return total(s.Amount, s.Quantity, s.Rate)
}

func (s Sale) Kind() SourceType   { return SourceSale }
func (s Sale) SourceID() string   { return s.ID }
func (s Sale) SourceSeq() int64   { return s.Seq }
func (s Sale) SourceDate() string { return s.Date }
func (s Sale) Deleted() bool      { return s.IsDeleted }
func (Sale) sealed()              {}

// Purchase is a lot bought from a supplier, possibly through an agent or broker,
// with freight owed to a transporter.
type Purchase struct {
	ID            string          `json:"id"`
	Seq           int64           `json:"seq"`
	Date          string          `json:"date"`
	LotNumber     string          `json:"lotNumber"`
	SupplierID    string          `json:"supplierId"`
	AgentID       string          `json:"agentId,omitempty"`
	BrokerID      string          `json:"brokerId,omitempty"`
	TransporterID string          `json:"transporterId,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	Amount        decimal.Decimal `json:"amount"`
	Freight       decimal.Decimal `json:"freight"`
	Location      string          `json:"location,omitempty"`
	Narration     string          `json:"narration,omitempty"`
	IsDeleted     bool            `json:"isDeleted"`
}

// Total is Amount when set, otherwise Quantity × Rate.
func (p Purchase) Total() decimal.Decimal {
	return total(p.Amount, p.Quantity, p.Rate)
}

func (p Purchase) Kind() SourceType   { return SourcePurchase }
func (p Purchase) SourceID() string   { return p.ID }
func (p Purchase) SourceSeq() int64   { return p.Seq }
func (p Purchase) SourceDate() string { return p.Date }
func (p Purchase) Deleted() bool      { return p.IsDeleted }
func (Purchase) sealed()              {}

// Payment is money paid out to a party.
type Payment struct {
	ID        string          `json:"id"`
	Seq       int64           `json:"seq"`
	Date      string          `json:"date"`
	PartyID   string          `json:"partyId"`
	PartyType AccountType     `json:"partyType,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      PaymentMode     `json:"mode"`
	Reference string          `json:"reference,omitempty"`
	Narration string          `json:"narration,omitempty"`
	IsDeleted bool            `json:"isDeleted"`
}

func (p Payment) Kind() SourceType   { return SourcePayment }
func (p Payment) SourceID() string   { return p.ID }
func (p Payment) SourceSeq() int64   { return p.Seq }
func (p Payment) SourceDate() string { return p.Date }
func (p Payment) Deleted() bool      { return p.IsDeleted }
func (Payment) sealed()              {}

// Receipt is money received from a party.
type Receipt struct {
	ID        string          `json:"id"`
	Seq       int64           `json:"seq"`
	Date      string          `json:"date"`
	PartyID   string          `json:"partyId"`
	PartyType AccountType     `json:"partyType,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      PaymentMode     `json:"mode"`
	Reference string          `json:"reference,omitempty"`
	Narration string          `json:"narration,omitempty"`
	IsDeleted bool            `json:"isDeleted"`
}

func (r Receipt) Kind() SourceType   { return SourceReceipt }
func (r Receipt) SourceID() string   { return r.ID }
func (r Receipt) SourceSeq() int64   { return r.Seq }
func (r Receipt) SourceDate() string { return r.Date }
func (r Receipt) Deleted() bool      { return r.IsDeleted }
func (Receipt) sealed()              {}

// ManualExpense is an expense entered by hand, charged to AccountID.
type ManualExpense struct {
	ID        string          `json:"id"`
	Seq       int64           `json:"seq"`
	Date      string          `json:"date"`
	AccountID string          `json:"accountId"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      PaymentMode     `json:"mode"`
	Narration string          `json:"narration,omitempty"`
	IsDeleted bool            `json:"isDeleted"`
}

func (e ManualExpense) Kind() SourceType   { return SourceExpense }
func (e ManualExpense) SourceID() string   { return e.ID }
func (e ManualExpense) SourceSeq() int64   { return e.Seq }
func (e ManualExpense) SourceDate() string { return e.Date }
func (e ManualExpense) Deleted() bool      { return e.IsDeleted }
func (ManualExpense) sealed()              {}

func total(amount, qty, rate decimal.Decimal) decimal.Decimal {
	if !amount.IsZero() {
		return amount
	}
	return qty.Mul(rate)
}
