package local

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gastos/internal/core"
)

// record is the on-disk form of an expense.
type record struct {
	Fecha      string      `json:"fecha"`
	Concepto   string      `json:"concepto"`
	Categoria  string      `json:"categoria"`
	Importe    json.Number `json:"importe"`
	TipoGasto  string      `json:"tipo_gasto"`
	MetodoPago string      `json:"metodo_pago"`
	Cuotas     int         `json:"cuotas"`
	Notas      string      `json:"notas"`
	Timestamp  string      `json:"timestamp,omitempty"`
}

func encodeRecord(e core.Expense) record {
	r := record{
		Fecha:      e.Date.Format(core.ISODateLayout),
		Concepto:   e.Description,
		Categoria:  e.Category,
		Importe:    json.Number(e.Amount.String()),
		TipoGasto:  string(e.Type),
		MetodoPago: e.PaymentMethod,
		Cuotas:     e.Installments,
		Notas:      e.Notes,
	}
	if !e.CreatedAt.IsZero() {
		r.Timestamp = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	return r
}

// decodeRecord is lenient: values that cannot be coerced are left missing
// and reported as warnings on the entry.
func decodeRecord(position int, raw json.RawMessage) core.Entry {
	e := core.Entry{
		Position: position,
		Expense:  core.Expense{Type: core.Variable, Installments: 1},
	}

	fields := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		e.Warnings = append(e.Warnings,
			core.ParseWarning{Position: position, Field: "date", Value: string(raw)},
			core.ParseWarning{Position: position, Field: "amount", Value: string(raw)})
		return e
	}

	e.Description = text(fields["concepto"])
	e.Category = text(fields["categoria"])
	e.PaymentMethod = text(fields["metodo_pago"])
	e.Notes = text(fields["notas"])

	if d, err := core.ParseDate(text(fields["fecha"])); err == nil {
		e.Date = d
	} else {
		e.Warnings = append(e.Warnings, core.ParseWarning{Position: position, Field: "date", Value: text(fields["fecha"])})
	}

	if m, ok := core.CoerceMoney(fields["importe"]); ok {
		e.Amount = m
	} else {
		e.Warnings = append(e.Warnings, core.ParseWarning{Position: position, Field: "amount", Value: text(fields["importe"])})
	}

	if v := text(fields["tipo_gasto"]); v != "" {
		if t, err := core.ParseExpenseType(v); err == nil {
			e.Type = t
		} else {
			e.Warnings = append(e.Warnings, core.ParseWarning{Position: position, Field: "type", Value: v})
		}
	}
	if v := text(fields["cuotas"]); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			e.Installments = n
		} else {
			e.Warnings = append(e.Warnings, core.ParseWarning{Position: position, Field: "installments", Value: v})
		}
	}
	if v := text(fields["timestamp"]); v != "" {
		if ts, ok := parseTimestamp(v); ok {
			e.CreatedAt = ts.UTC()
		} else {
			e.Warnings = append(e.Warnings, core.ParseWarning{Position: position, Field: "timestamp", Value: v})
		}
	}
	return e
}

// Timestamps without a zone were written in the machine's local time.
var zonelessLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"}

func parseTimestamp(v string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return ts, true
	}
	for _, layout := range zonelessLayouts {
		if ts, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func text(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
