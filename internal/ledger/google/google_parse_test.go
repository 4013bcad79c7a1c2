package google

import (
	"testing"

	"gastos/internal/core"
)

func TestParseRows(t *testing.T) {
	values := [][]any{
		{"Fecha", "Categoría", "Descripción", "Monto", "Método de Pago"},
		{"05/01/2024", "Alimentos", "Super", 15000.0, "BBVA"},
		{45301.0, "Transporte", "Taxi", "2500,50", "Efectivo"},
		{},
		{"ayer", "Salud", "Farmacia", "n/a", "BBVA"},
		{"12/02/2024", "Hogar", "Lámpara"},
	}
	snap := parseRows(values)
	if len(snap) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(snap))
	}

	first := snap[0]
	if first.Position != 1 || !first.Date.Equal(core.NewDate(2024, 1, 5).Time) || first.Amount.Cents != 1500000 {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if first.Type != core.Variable || first.Installments != 1 {
		t.Fatalf("remote rows should default type and installments: %+v", first)
	}

	serial := snap[1]
	if !serial.Date.Equal(core.NewDate(2024, 1, 10).Time) || serial.Amount.Cents != 250050 {
		t.Fatalf("unexpected serial-date entry: %+v", serial)
	}

	broken := snap[2]
	if broken.Position != 4 {
		t.Fatalf("blank rows must still count toward positions, got %d", broken.Position)
	}
	if broken.HasDate() || broken.HasAmount() || len(broken.Warnings) != 2 {
		t.Fatalf("expected date and amount warnings: %+v", broken.Warnings)
	}
	if broken.Warnings[1].Value != "n/a" {
		t.Fatalf("warning should carry raw value, got %q", broken.Warnings[1].Value)
	}

	short := snap[3]
	if short.HasAmount() || short.PaymentMethod != "" {
		t.Fatalf("short row should miss amount and payment method: %+v", short)
	}
}

func TestParseRowsReorderedHeader(t *testing.T) {
	values := [][]any{
		{"Monto", "Fecha", "Método de Pago", "Descripción", "Categoría"},
		{100.5, "01/03/2024", "Efectivo", "Pan", "Alimentos"},
	}
	snap := parseRows(values)
	if len(snap) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(snap))
	}
	e := snap[0]
	if e.Amount.Cents != 10050 || e.Category != "Alimentos" || e.Description != "Pan" || e.PaymentMethod != "Efectivo" {
		t.Fatalf("columns not mapped by header: %+v", e)
	}
}

func TestParseRowsHeaderOnly(t *testing.T) {
	if snap := parseRows([][]any{headerRow()}); len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %d", len(snap))
	}
	if snap := parseRows(nil); snap == nil || len(snap) != 0 {
		t.Fatalf("expected empty non-nil snapshot")
	}
}

func TestExpenseRowWireForm(t *testing.T) {
	row := expenseRow(core.Expense{
		Date:          core.NewDate(2024, 1, 5),
		Category:      "Alimentos",
		Description:   "Super",
		Amount:        core.Money{Cents: 1500000},
		PaymentMethod: "BBVA",
	})
	if row[0] != "05/01/2024" || row[3] != 15000.0 || row[4] != "BBVA" {
		t.Fatalf("unexpected row: %#v", row)
	}
}
