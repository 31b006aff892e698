// Package core holds the domain types of the household ledger and the
// normalizers that turn raw spreadsheet cells into typed values.
//
// Amounts are whole currency units (Korean won carries no minor unit), so
// money is an int64 throughout. The normalizers are total functions: they
// return a validity flag instead of an error, because the backing
// spreadsheet is hand-edited and typos must degrade, not fail.
package core

import (
	"strings"
)

// currencyGlyphs are stripped from raw amount cells before parsing.
const currencyGlyphs = "₩€$¥£원"

// NormalizeAmount parses a raw spreadsheet cell into whole currency units.
//
// String input is cleaned of whitespace, thousands-separator commas and
// currency glyphs; anything from the first '.' onward is discarded (the
// integer part is kept as-is, no rounding). A leading '-' that survives the
// cleanup keeps the sign. Numeric input is coerced directly, truncating
// toward zero.
//
// The second return value reports whether the input parsed cleanly. Invalid
// input yields (0, false), never an error.
//
// Examples:
//
//	NormalizeAmount("12,000")   -> 12000, true
//	NormalizeAmount("₩12,000")  -> 12000, true
//	NormalizeAmount("12000.00") -> 12000, true
//	NormalizeAmount(" 1,200 ")  -> 1200, true
//	NormalizeAmount("abc")      -> 0, false
func NormalizeAmount(raw any) (int64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string:
		return parseAmountString(v)
	default:
		return 0, false
	}
}

// AmountOrZero is NormalizeAmount with the fail-soft default applied.
func AmountOrZero(raw any) int64 {
	n, _ := NormalizeAmount(raw)
	return n
}

func parseAmountString(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ',' || r == ' ' || r == ' ':
			// thousands separator or stray whitespace
		case strings.ContainsRune(currencyGlyphs, r):
			// currency glyph
		default:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	// Truncate the fractional suffix; the integer part stands alone.
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		cleaned = cleaned[:i]
	}
	if cleaned == "" {
		return 0, false
	}

	neg := false
	if cleaned[0] == '-' {
		neg = true
		cleaned = cleaned[1:]
	}
	if cleaned == "" {
		return 0, false
	}

	var n int64
	for i := 0; i < len(cleaned); i++ {
		c := cleaned[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		// Guard against overflow on pathological input.
		if n > ((1<<63-1)-int64(c-'0'))/10 {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// FormatWon renders whole won with thousands separators, e.g. "₩12,000".
func FormatWon(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := []byte{'0'}
	if amount > 0 {
		digits = digits[:0]
	}
	for amount > 0 {
		digits = append(digits, byte('0'+amount%10))
		amount /= 10
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteRune('₩')
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteByte(digits[i])
		if i > 0 && i%3 == 0 {
			b.WriteByte(',')
		}
	}
	return b.String()
}
