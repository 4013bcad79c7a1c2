package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"gastos/internal/core"
)

var csvHeader = []string{
	"Fecha", "Categoría", "Concepto", "Importe", "Método de Pago",
	"Tipo de Gasto", "Cuotas", "Notas", "Timestamp",
}

// ToCSV renders the snapshot as UTF-8 CSV, one row per entry in store
// order. Missing values become empty cells.
func ToCSV(snap core.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range snap {
		if err := w.Write(csvRow(e)); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", e.Position, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func csvRow(e core.Entry) []string {
	row := []string{
		dateCell(e),
		e.Category,
		e.Description,
		amountCell(e),
		e.PaymentMethod,
		string(e.Type),
		strconv.Itoa(e.Installments),
		e.Notes,
		"",
	}
	if !e.CreatedAt.IsZero() {
		row[8] = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	return row
}

func dateCell(e core.Entry) string {
	if !e.HasDate() {
		return ""
	}
	return e.Date.Format(core.ISODateLayout)
}

func amountCell(e core.Entry) string {
	if !e.HasAmount() {
		return ""
	}
	return e.Amount.String()
}
