// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and from loosely typed storage cells, converting between cents and
// decimal representations.
package core

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input to a strictly positive Money value.
//
// It accepts dot (12.34) and comma (12,34) decimal separators, grouped
// thousands in either convention (1.234,56 or 1,234.56) and an optional
// leading "$". The third decimal is rounded half away from zero.
//
// Examples:
//
//	ParseAmount("12.34")    -> 1234 cents
//	ParseAmount("1.234,56") -> 123456 cents
//	ParseAmount("12.345")   -> 1235 cents
func ParseAmount(s string) (Money, error) {
	m, ok := parseMoneyText(s)
	if !ok {
		return Money{}, ErrInvalidAmount
	}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// CoerceMoney converts a stored cell value (number or text) to Money.
// Unlike ParseAmount it accepts zero and negative values; ok is false only
// when the value cannot be read as a number at all.
func CoerceMoney(v any) (Money, bool) {
	switch x := v.(type) {
	case nil:
		return Money{}, false
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Money{}, false
		}
		return fromDecimal(decimal.NewFromFloat(x))
	case float32:
		return CoerceMoney(float64(x))
	case int:
		return fromDecimal(decimal.NewFromInt(int64(x)))
	case int64:
		return fromDecimal(decimal.NewFromInt(x))
	case json.Number:
		return parseMoneyText(x.String())
	case string:
		return parseMoneyText(x)
	default:
		return Money{}, false
	}
}

// Decimal returns the amount as an exact decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount as a float64 for display and spreadsheet cells.
// Use cents for calculations.
func (m Money) Float() float64 {
	return m.Decimal().InexactFloat64()
}

// String renders the plain decimal form used by CSV, e.g. "2500.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Add returns m + o, saturating at the int64 limits instead of wrapping.
func (m Money) Add(o Money) Money {
	sum := m.Cents + o.Cents
	switch {
	case o.Cents > 0 && sum < m.Cents:
		return Money{Cents: math.MaxInt64}
	case o.Cents < 0 && sum > m.Cents:
		return Money{Cents: math.MinInt64}
	}
	return Money{Cents: sum}
}

// fromDecimal rounds d to cents. ok is false when the result does not fit
// in int64.
func fromDecimal(d decimal.Decimal) (Money, bool) {
	cents := d.Shift(2).Round(0).BigInt()
	if !cents.IsInt64() {
		return Money{}, false
	}
	return Money{Cents: cents.Int64()}, true
}

func parseMoneyText(s string) (Money, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return Money{}, false
	}
	norm, ok := normalizeDecimal(s)
	if !ok {
		return Money{}, false
	}
	d, err := decimal.NewFromString(norm)
	if err != nil {
		return Money{}, false
	}
	return fromDecimal(d)
}

// normalizeDecimal rewrites s so that "." is the only decimal separator and
// no grouping separators remain. When both separators appear the last one
// is the decimal mark; a separator repeated more than once is grouping.
// Grouped digits must come in threes after the first group.
func normalizeDecimal(s string) (string, bool) {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")
	var decimalSep, groupSep string
	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			decimalSep, groupSep = ",", "."
		} else {
			decimalSep, groupSep = ".", ","
		}
	case commas > 1:
		groupSep = ","
	case commas == 1:
		decimalSep = ","
	case dots > 1:
		groupSep = "."
	default:
		decimalSep = "."
	}

	intPart, frac, hasFrac := s, "", false
	if decimalSep != "" {
		if strings.Count(s, decimalSep) > 1 {
			return "", false
		}
		intPart, frac, hasFrac = strings.Cut(s, decimalSep)
	}
	if groupSep != "" && strings.Contains(intPart, groupSep) {
		groups := strings.Split(intPart, groupSep)
		first := strings.TrimLeft(groups[0], "+-")
		if len(first) < 1 || len(first) > 3 {
			return "", false
		}
		for _, g := range groups[1:] {
			if len(g) != 3 {
				return "", false
			}
		}
		intPart = strings.Join(groups, "")
	}
	if !hasFrac {
		return intPart, true
	}
	return intPart + "." + frac, true
}
