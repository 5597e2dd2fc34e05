// Package store is the key-value persistence collaborator the ledger reads from and writes to.
// Values are JSON documents addressed by string keys.
package store

import (
	"encoding/json"
	"fmt"
)

// Keys for each entity collection.
const (
	KeyAccounts       = "accounts"
	KeyFinancialYears = "financialYears"
	KeySales          = "sales"
	KeyPurchases      = "purchases"
	KeyPayments       = "payments"
	KeyReceipts       = "receipts"
	KeyExpenses       = "expenses"
	KeySequence       = "sequence"

	openingPrefix = "openingBalances/"
)

// OpeningKey returns the key holding a financial year's opening-balance snapshot.
func OpeningKey(yearID string) string {
	return openingPrefix + yearID
}

// Store is a get/set addressable key-value store.
// Get reports false when the key has never been set.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// Load decodes the JSON value at key into a T. Missing keys yield the zero T and false.
func Load[T any](s Store, key string) (T, bool, error) {
	var v T
	data, ok, err := s.Get(key)
	if err != nil {
		return v, false, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok {
		return v, false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return v, true, nil
}

// Save encodes v as JSON and writes it at key.
func Save[T any](s Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.Set(key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
