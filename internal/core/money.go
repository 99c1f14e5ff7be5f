// Package core holds the ledger domain: transactions, categories and the
// statistics fold that drives both the dashboard and the report payload.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency-agnostic positive magnitude stored in cents.
// All arithmetic happens on cents; floats appear only at display and
// rate-computation boundaries.
type Money struct {
	Cents int64 `json:"cents"`
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Decimal renders the amount as a plain two-decimal string with no
// currency symbol, e.g. 1234 -> "12.34". This is the report-facing format.
func (m Money) Decimal() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// ParseDecimalToCents converts a decimal string to cents. Both dot and comma
// separators are accepted; anything past the second decimal is half-up
// rounded. Zero and negative values are rejected.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || whole > (1<<63-1)/100 {
		return 0, ErrInvalidAmount
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		frac += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		frac++
	}

	cents := whole*100 + frac
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
