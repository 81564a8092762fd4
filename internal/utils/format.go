package utils

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// FormatThousand rounds to whole units and groups digits by thousands
// with a space, e.g. 1234567.4 -> "1 234 567"
func FormatThousand(v float64) string {
	d := decimal.NewFromFloat(v).Round(0)
	s := d.Abs().String()

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatCZK formats an amount in Czech crowns
func FormatCZK(v float64) string {
	return FormatThousand(v) + " Kč"
}

// ParseThousand parses a number that may contain grouping whitespace.
// An empty string is 0.
func ParseThousand(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}
