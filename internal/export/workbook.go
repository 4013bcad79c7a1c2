package export

import (
	"fmt"

	"gastos/internal/core"

	"github.com/xuri/excelize/v2"
)

const (
	emptySheet   = "Gastos"
	undatedSheet = "Sin fecha"
)

var workbookHeader = []any{"Fecha", "Concepto", "Categoría", "Importe", "Método de Pago", "Notas"}

// ToWorkbook renders the snapshot as an XLSX workbook with one sheet per
// calendar month (YYYY-MM, oldest first). Entries without a date go to a
// trailing "Sin fecha" sheet. An empty snapshot yields a single "Gastos"
// sheet holding only the header.
func ToWorkbook(snap core.Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	groups, order := groupByMonth(snap)
	if len(order) == 0 {
		order = []string{emptySheet}
	}

	for i, sheet := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, groups[sheet]); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// groupByMonth keeps load order inside each group.
func groupByMonth(snap core.Snapshot) (map[string]core.Snapshot, []string) {
	groups := make(map[string]core.Snapshot)
	var undated core.Snapshot
	for _, e := range snap {
		if !e.HasDate() {
			undated = append(undated, e)
			continue
		}
		k := e.Date.MonthKey()
		groups[k] = append(groups[k], e)
	}

	months := make(map[string]core.Money, len(groups))
	for k := range groups {
		months[k] = core.Money{}
	}
	var order []string
	for _, ca := range core.Chronological(months) {
		order = append(order, ca.Name)
	}
	if len(undated) > 0 {
		groups[undatedSheet] = undated
		order = append(order, undatedSheet)
	}
	return groups, order
}

func writeSheet(f *excelize.File, sheet string, entries core.Snapshot) error {
	if err := f.SetSheetRow(sheet, "A1", &workbookHeader); err != nil {
		return fmt.Errorf("write header on %s: %w", sheet, err)
	}
	for i, e := range entries {
		var amount any
		if e.HasAmount() {
			amount = e.Amount.Float()
		}
		row := []any{dateCell(e), e.Description, e.Category, amount, e.PaymentMethod, e.Notes}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+2, sheet, err)
		}
	}
	return nil
}
