package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

var prefixes = map[model.SourceType]string{
	model.SourceSale:     "SAL",
	model.SourcePurchase: "PUR",
	model.SourcePayment:  "PAY",
	model.SourceReceipt:  "RCT",
	model.SourceExpense:  "EXP",
}

// Prefix returns the record ID prefix for a source kind, e.g. "SAL".
func Prefix(kind model.SourceType) string {
	if p, ok := prefixes[kind]; ok {
		return p
	}
	return strings.ToUpper(string(kind))
}

// FormatRecordID returns a record ID like "SAL-2025-04-001".
func FormatRecordID(kind model.SourceType, year, month, seq int) string {
	return fmt.Sprintf("%s-%04d-%02d-%03d", Prefix(kind), year, month, seq)
}

// ParseRecordID parses "SAL-2025-04-001" into its prefix, year, month and sequence.
func ParseRecordID(id string) (prefix string, year, month, seq int, err error) {
	parts := strings.SplitN(id, "-", 4)
	if len(parts) != 4 || parts[0] == "" {
		return "", 0, 0, 0, fmt.Errorf("invalid record ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid year in record ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid month in record ID %q: %w", id, err)
	}

	seq, err = strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid sequence in record ID %q: %w", id, err)
	}

	return parts[0], year, month, seq, nil
}

// NextSeq returns one more than the highest sequence among ids for the given kind, year and month.
// IDs that do not parse are ignored.
func NextSeq(ids []string, kind model.SourceType, year, month int) int {
	want := Prefix(kind)
	maxSeq := 0
	for _, s := range ids {
		p, y, m, seq, err := ParseRecordID(s)
		if err != nil || p != want || y != year || m != month {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

// NewAccountID returns a random account ID for accounts created without one.
func NewAccountID() string {
	return uuid.NewString()
}
