// Package sku canonicalizes ERP item keys so records from SIESA and
// WooCommerce can be joined despite whitespace and leading-zero drift.
// Normalization is applied at lookup time only; stored keys keep their
// original formatting.
package sku

import "strings"

// Normalize trims surrounding whitespace and uppercases the raw key.
// It is idempotent: Normalize(Normalize(k)) == Normalize(k).
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// StripZeros returns the normalized key without leading zeros, or "" when the
// stripped form is empty or identical to the normalized key. Callers use the
// non-empty result as a secondary lookup variant.
func StripZeros(key string) string {
	stripped := strings.TrimLeft(key, "0")
	if stripped == "" || stripped == key {
		return ""
	}
	return stripped
}

// Index is a lookup table keyed by normalized keys with zero-stripped
// fallback variants. The fallback variant is only registered when the slot is
// free, so the first writer wins on collisions such as "0123" vs "123".
type Index[T any] struct {
	entries map[string]T
}

// NewIndex returns an empty index sized for n entries.
func NewIndex[T any](n int) *Index[T] {
	return &Index[T]{entries: make(map[string]T, n)}
}

// Add registers value under the normalized raw key and, when distinct and
// unclaimed, under its zero-stripped variant.
func (ix *Index[T]) Add(raw string, value T) {
	key := Normalize(raw)
	ix.entries[key] = value

	if alt := StripZeros(key); alt != "" {
		if _, taken := ix.entries[alt]; !taken {
			ix.entries[alt] = value
		}
	}
}

// Lookup resolves raw against the index: exact normalized key first, then the
// zero-stripped variant. First match wins.
func (ix *Index[T]) Lookup(raw string) (T, bool) {
	key := Normalize(raw)
	if v, ok := ix.entries[key]; ok {
		return v, true
	}
	if alt := StripZeros(key); alt != "" {
		if v, ok := ix.entries[alt]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Len reports the number of registered slots, fallback variants included.
func (ix *Index[T]) Len() int {
	return len(ix.entries)
}
