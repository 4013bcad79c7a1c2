package core

import (
	"fmt"
	"strconv"
	"strings"
)

// CurrencyFormat selects one rendering convention per deployment. Every
// amount shown to a user goes through the same format.
type CurrencyFormat string

const (
	// FormatARS renders $10.000,30 (Argentine grouping and decimal comma).
	FormatARS CurrencyFormat = "ars"
	// FormatPlain renders $10,000.30.
	FormatPlain CurrencyFormat = "plain"
)

// ParseCurrencyFormat maps a config value to a CurrencyFormat.
func ParseCurrencyFormat(s string) (CurrencyFormat, error) {
	switch f := CurrencyFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatARS, nil
	case FormatARS, FormatPlain:
		return f, nil
	default:
		return "", fmt.Errorf("unknown currency format %q", s)
	}
}

// Format renders m with a leading "$" and two decimals.
func (f CurrencyFormat) Format(m Money) string {
	thousands, dec := ".", ","
	if f == FormatPlain {
		thousands, dec = ",", "."
	}
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := "$" + groupDigits(strconv.FormatInt(cents/100, 10), thousands) + dec + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
