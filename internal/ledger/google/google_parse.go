package google

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gastos/internal/core"
)

// Column headers of the ledger sheet, in order.
var headers = []string{"Fecha", "Categoría", "Descripción", "Monto", "Método de Pago"}

const (
	colDate = iota
	colCategory
	colDescription
	colAmount
	colPaymentMethod
)

// Sheets counts serial dates from 1899-12-30.
var sheetsEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

func headerRow() []any {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return row
}

// expenseRow encodes e in the sheet's wire form. Extended fields have no
// column in the sheet and are not persisted.
func expenseRow(e core.Expense) []any {
	return []any{
		e.Date.Format(core.SheetDateLayout),
		e.Category,
		e.Description,
		e.Amount.Float(),
		e.PaymentMethod,
	}
}

// parseRows turns a values matrix into a snapshot. The first row is always
// the header; columns are located by header name, falling back to the
// canonical order when a name is missing.
func parseRows(values [][]any) core.Snapshot {
	if len(values) < 2 {
		return core.Snapshot{}
	}
	cols := columnIndexes(toStrings(values[0]))
	out := make(core.Snapshot, 0, len(values)-1)
	for i, row := range values[1:] {
		if isBlank(row) {
			continue
		}
		out = append(out, parseRow(i+1, row, cols))
	}
	return out
}

func parseRow(position int, row []any, cols [5]int) core.Entry {
	e := core.Entry{
		Position: position,
		Expense: core.Expense{
			Category:      cellString(row, cols[colCategory]),
			Description:   cellString(row, cols[colDescription]),
			PaymentMethod: cellString(row, cols[colPaymentMethod]),
			Type:          core.Variable,
			Installments:  1,
		},
	}

	rawDate := cell(row, cols[colDate])
	if d, ok := coerceDate(rawDate); ok {
		e.Date = d
	} else {
		e.Warnings = append(e.Warnings, core.ParseWarning{Position: position, Field: "date", Value: cellString(row, cols[colDate])})
	}

	rawAmount := cell(row, cols[colAmount])
	if m, ok := core.CoerceMoney(rawAmount); ok {
		e.Amount = m
	} else {
		e.Warnings = append(e.Warnings, core.ParseWarning{Position: position, Field: "amount", Value: cellString(row, cols[colAmount])})
	}
	return e
}

// coerceDate accepts day-first text and Sheets serial numbers.
func coerceDate(v any) (core.Date, bool) {
	switch x := v.(type) {
	case string:
		d, err := core.ParseDate(x)
		return d, err == nil
	case float64:
		if x < 1 || math.IsNaN(x) || math.IsInf(x, 0) {
			return core.Date{}, false
		}
		return core.DateOf(sheetsEpoch.AddDate(0, 0, int(x))), true
	default:
		return core.Date{}, false
	}
}

func columnIndexes(header []string) [5]int {
	var cols [5]int
	for i, want := range headers {
		cols[i] = i
		if idx := indexOf(header, want); idx >= 0 {
			cols[i] = idx
		}
	}
	return cols
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func cellString(row []any, idx int) string {
	v := cell(row, idx)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func isBlank(row []any) bool {
	for _, v := range row {
		if v != nil && strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}
