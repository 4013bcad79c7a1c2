package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"gastos/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixture() core.Snapshot {
	undated := core.Entry{Position: 4, Expense: core.Expense{
		Category: "Salud", Description: "Farmacia", Amount: core.Money{Cents: 120000},
		PaymentMethod: "BBVA", Type: core.Variable, Installments: 1,
	}, Warnings: []core.ParseWarning{{Position: 4, Field: "date", Value: "ayer"}}}

	noAmount := core.Entry{Position: 3, Expense: core.Expense{
		Date: core.NewDate(2024, 1, 20), Category: "Hogar", Description: "Lámpara",
		PaymentMethod: "Efectivo", Type: core.Variable, Installments: 1,
	}, Warnings: []core.ParseWarning{{Position: 3, Field: "amount", Value: "n/a"}}}

	return core.Snapshot{
		{Position: 1, Expense: core.Expense{
			Date: core.NewDate(2024, 2, 3), Category: "Alimentos", Description: "Super",
			Amount: core.Money{Cents: 1500050}, PaymentMethod: "BBVA", Type: core.Variable, Installments: 1,
			Notes: "semanal, grande", CreatedAt: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		}},
		{Position: 2, Expense: core.Expense{
			Date: core.NewDate(2024, 1, 10), Category: "Hogar", Description: "Heladera",
			Amount: core.Money{Cents: 45000000}, PaymentMethod: "Tarjeta de Crédito", Type: core.Card, Installments: 12,
		}},
		noAmount,
		undated,
	}
}

func TestToCSV(t *testing.T) {
	b, err := ToCSV(fixture())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, []string{"Fecha", "Categoría", "Concepto", "Importe", "Método de Pago", "Tipo de Gasto", "Cuotas", "Notas", "Timestamp"}, records[0])
	assert.Equal(t, []string{"2024-02-03", "Alimentos", "Super", "15000.50", "BBVA", "variable", "1", "semanal, grande", "2024-02-03T10:00:00Z"}, records[1])
	assert.Equal(t, "tarjeta", records[2][5])
	assert.Equal(t, "12", records[2][6])
	assert.Equal(t, "", records[3][3], "missing amount is an empty cell")
	assert.Equal(t, "", records[4][0], "missing date is an empty cell")
}

func TestToCSVEmpty(t *testing.T) {
	b, err := ToCSV(nil)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestToWorkbookGroupsByMonth(t *testing.T) {
	b, err := ToWorkbook(fixture())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2024-01", "2024-02", "Sin fecha"}, f.GetSheetList())

	jan, err := f.GetRows("2024-01")
	require.NoError(t, err)
	require.Len(t, jan, 3)
	assert.Equal(t, []string{"Fecha", "Concepto", "Categoría", "Importe", "Método de Pago", "Notas"}, jan[0])
	assert.Equal(t, "Heladera", jan[1][1])
	assert.Equal(t, "450000", jan[1][3])
	assert.Equal(t, "Lámpara", jan[2][1])
	assert.Equal(t, "", jan[2][3])

	feb, err := f.GetRows("2024-02")
	require.NoError(t, err)
	require.Len(t, feb, 2)
	assert.Equal(t, "2024-02-03", feb[1][0])
	assert.Equal(t, "15000.5", feb[1][3])

	undated, err := f.GetRows("Sin fecha")
	require.NoError(t, err)
	require.Len(t, undated, 2)
	assert.Equal(t, "Farmacia", undated[1][1])
}

func TestToWorkbookEmpty(t *testing.T) {
	b, err := ToWorkbook(core.Snapshot{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Gastos"}, f.GetSheetList())
	rows, err := f.GetRows("Gastos")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Fecha", rows[0][0])
}
