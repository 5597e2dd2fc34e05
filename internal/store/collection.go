package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotList is returned when a write targets a key whose value is not a JSON array.
var ErrNotList = errors.New("collection is not a list")

// LoadList reads the JSON array at key and decodes each element into a T.
//
// Reads never fail on bad data: a missing key, a read error or a value that is not an array
// yields an empty list, and an element that does not decode is skipped. Every such case is
// logged as a warning.
func LoadList[T any](s Store, key string, log *zap.Logger) []T {
	if log == nil {
		log = zap.NewNop()
	}

	data, ok, err := s.Get(key)
	if err != nil {
		log.Warn("reading collection failed, treating as empty", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok || len(data) == 0 {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn("collection is not a list, treating as empty", zap.String("key", key), zap.Error(err))
		return nil
	}

	out := make([]T, 0, len(raw))
	for i, elem := range raw {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			log.Warn("skipping malformed record", zap.String("key", key), zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}

// List is a stored collection opened for writing. Elements that do not decode as T are
// kept as their original bytes and written back unchanged by Save.
type List[T any] struct {
	key  string
	raw  []json.RawMessage
	vals []T
	ok   []bool
}

// OpenList reads the JSON array at key for a read-modify-write. A missing key is an empty
// list; a value that is not an array is refused with ErrNotList.
func OpenList[T any](s Store, key string) (*List[T], error) {
	l := &List[T]{key: key}
	data, found, err := s.Get(key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if !found || len(data) == 0 {
		return l, nil
	}
	if err := json.Unmarshal(data, &l.raw); err != nil {
		return nil, fmt.Errorf("%s: %w", key, ErrNotList)
	}

	l.vals = make([]T, len(l.raw))
	l.ok = make([]bool, len(l.raw))
	for i, elem := range l.raw {
		l.ok[i] = json.Unmarshal(elem, &l.vals[i]) == nil
	}
	return l, nil
}

// Values returns the elements that decode, in stored order.
func (l *List[T]) Values() []T {
	out := make([]T, 0, len(l.vals))
	for i, v := range l.vals {
		if l.ok[i] {
			out = append(out, v)
		}
	}
	return out
}

// Len counts every stored element, readable or not.
func (l *List[T]) Len() int { return len(l.raw) }

// Update applies change to each readable element that match accepts and returns how many
// were changed. Only changed elements are re-encoded.
func (l *List[T]) Update(match func(T) bool, change func(*T)) (int, error) {
	n := 0
	for i := range l.vals {
		if !l.ok[i] || !match(l.vals[i]) {
			continue
		}
		change(&l.vals[i])
		data, err := json.Marshal(l.vals[i])
		if err != nil {
			return n, fmt.Errorf("encoding %s element %d: %w", l.key, i, err)
		}
		l.raw[i] = data
		n++
	}
	return n, nil
}

// Append adds v at the end of the list.
func (l *List[T]) Append(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s element: %w", l.key, err)
	}
	l.raw = append(l.raw, data)
	l.vals = append(l.vals, v)
	l.ok = append(l.ok, true)
	return nil
}

// Save writes the list back to s.
func (l *List[T]) Save(s Store) error {
	raw := l.raw
	if raw == nil {
		raw = []json.RawMessage{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", l.key, err)
	}
	if err := s.Set(l.key, data); err != nil {
		return fmt.Errorf("writing %s: %w", l.key, err)
	}
	return nil
}
