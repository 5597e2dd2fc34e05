package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func TestFormatRecordID(t *testing.T) {
	tests := []struct {
		kind             model.SourceType
		year, month, seq int
		want             string
	}{
		{model.SourceSale, 2025, 4, 1, "SAL-2025-04-001"},
		{model.SourcePurchase, 2025, 12, 99, "PUR-2025-12-099"},
		{model.SourcePayment, 2026, 1, 123, "PAY-2026-01-123"},
		{model.SourceReceipt, 2026, 3, 7, "RCT-2026-03-007"},
		{model.SourceExpense, 2025, 6, 10, "EXP-2025-06-010"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRecordID(tt.kind, tt.year, tt.month, tt.seq))
	}
}

func TestParseRecordID(t *testing.T) {
	p, y, m, s, err := ParseRecordID("SAL-2025-04-017")
	require.NoError(t, err)
	assert.Equal(t, "SAL", p)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 4, m)
	assert.Equal(t, 17, s)
}

func TestParseRecordID_Invalid(t *testing.T) {
	tests := []string{
		"",
		"SAL",
		"SAL-2025-04",
		"-2025-04-001",
		"SAL-abcd-04-001",
		"SAL-2025-xx-001",
		"SAL-2025-04-yyy",
	}
	for _, s := range tests {
		_, _, _, _, err := ParseRecordID(s)
		assert.Error(t, err, "ParseRecordID(%q) should fail", s)
	}
}

func TestNextSeq(t *testing.T) {
	ids := []string{
		"SAL-2025-04-001",
		"SAL-2025-04-003",
		"SAL-2025-05-009",
		"PUR-2025-04-020",
		"legacy-id",
	}
	assert.Equal(t, 4, NextSeq(ids, model.SourceSale, 2025, 4))
	assert.Equal(t, 10, NextSeq(ids, model.SourceSale, 2025, 5))
	assert.Equal(t, 1, NextSeq(ids, model.SourceSale, 2025, 6))
	assert.Equal(t, 21, NextSeq(ids, model.SourcePurchase, 2025, 4))
	assert.Equal(t, 1, NextSeq(nil, model.SourceExpense, 2025, 4))
}

func TestRoundTrip(t *testing.T) {
	for _, kind := range model.SourceTypes {
		s := FormatRecordID(kind, 2025, 11, 42)
		p, y, m, seq, err := ParseRecordID(s)
		require.NoError(t, err)
		assert.Equal(t, Prefix(kind), p)
		assert.Equal(t, 2025, y)
		assert.Equal(t, 11, m)
		assert.Equal(t, 42, seq)
	}
}

func TestNewAccountID(t *testing.T) {
	a, b := NewAccountID(), NewAccountID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
