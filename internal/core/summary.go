package core

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is an Expense as loaded from a store, with its 1-based store
// position and any values that could not be coerced.
type Entry struct {
	Expense
	Position int
	Warnings []ParseWarning
}

// HasAmount is false when the stored amount could not be parsed. Such
// entries are excluded from sums.
func (e Entry) HasAmount() bool {
	return !e.hasWarning("amount")
}

// HasDate is false when the stored date could not be parsed.
func (e Entry) HasDate() bool {
	return !e.hasWarning("date") && !e.Date.IsEmpty()
}

func (e Entry) hasWarning(field string) bool {
	for _, w := range e.Warnings {
		if w.Field == field {
			return true
		}
	}
	return false
}

// Snapshot is the full ledger at one point in time, in store order.
type Snapshot []Entry

// Warnings collects every parse warning in the snapshot.
func (s Snapshot) Warnings() []ParseWarning {
	var out []ParseWarning
	for _, e := range s {
		out = append(out, e.Warnings...)
	}
	return out
}

// Dimension is a grouping key for aggregations.
type Dimension string

const (
	DimCategory      Dimension = "category"
	DimPaymentMethod Dimension = "payment_method"
	DimMonth         Dimension = "month"
	DimExpenseType   Dimension = "type"
)

// ParseDimension maps a query value to a Dimension.
func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(strings.ToLower(strings.TrimSpace(s))); d {
	case DimCategory, DimPaymentMethod, DimMonth, DimExpenseType:
		return d, nil
	case "":
		return DimCategory, nil
	default:
		return "", fmt.Errorf("unknown dimension %q", s)
	}
}

// CategoryAmount represents an amount aggregated under one key.
type CategoryAmount struct {
	Name   string
	Amount Money
}

func (e Entry) key(d Dimension) (string, bool) {
	switch d {
	case DimCategory:
		return e.Category, true
	case DimPaymentMethod:
		return e.PaymentMethod, true
	case DimExpenseType:
		return string(e.Type), true
	case DimMonth:
		if !e.HasDate() {
			return "", false
		}
		return e.Date.MonthKey(), true
	default:
		return "", false
	}
}

// AggregateBy sums amounts per dimension value. Entries without an amount
// are left out rather than counted as zero.
func AggregateBy(s Snapshot, d Dimension) map[string]Money {
	out := make(map[string]Money)
	for _, e := range s {
		if !e.HasAmount() {
			continue
		}
		k, ok := e.key(d)
		if !ok {
			continue
		}
		out[k] = out[k].Add(e.Amount)
	}
	return out
}

// SortedByAmount orders an aggregation by descending sum, ties by key.
func SortedByAmount(m map[string]Money) []CategoryAmount {
	out := toList(m)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Chronological orders a month aggregation by its YYYY-MM key.
func Chronological(m map[string]Money) []CategoryAmount {
	out := toList(m)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func toList(m map[string]Money) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(m))
	for k, v := range m {
		out = append(out, CategoryAmount{Name: k, Amount: v})
	}
	return out
}

// Top returns the key with the largest sum for d.
func Top(s Snapshot, d Dimension) (string, error) {
	sorted := SortedByAmount(AggregateBy(s, d))
	if len(sorted) == 0 {
		return "", ErrEmptySnapshot
	}
	return sorted[0].Name, nil
}

// Total sums every present amount.
func Total(s Snapshot) Money {
	var t Money
	for _, e := range s {
		if e.HasAmount() {
			t = t.Add(e.Amount)
		}
	}
	return t
}
