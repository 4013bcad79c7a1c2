package local

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gastos/internal/core"
	"gastos/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(desc string, cents int64, day int) core.Expense {
	return core.Expense{
		Date:          core.NewDate(2024, 1, day),
		Category:      "Alimentos",
		Description:   desc,
		Amount:        core.Money{Cents: cents},
		PaymentMethod: "BBVA",
		Type:          core.Variable,
		Installments:  1,
		CreatedAt:     time.Date(2024, 1, day, 9, 30, 0, 0, time.UTC),
	}
}

func TestInitializeCreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "gastos.json")
	s := New(path)
	ctx := context.Background()

	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Initialize(ctx))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string][]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Contains(t, doc, "gastos")
	assert.Empty(t, doc["gastos"])

	snap, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestLoadAllMissingFileIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope.json"))
	snap, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestAppendLoadDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.json")
	s := New(path)
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))

	card := expense("Heladera", 45000000, 8)
	card.Type = core.Card
	card.Installments = 12
	card.Notes = "12 cuotas sin interés"

	for _, e := range []core.Expense{expense("Super", 1500000, 5), card, expense("Verdulería", 320050, 9)} {
		require.NoError(t, s.Append(ctx, e))
	}

	snap, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap, 3)
	assert.Equal(t, 2, snap[1].Position)
	assert.Equal(t, "Heladera", snap[1].Description)
	assert.Equal(t, core.Card, snap[1].Type)
	assert.Equal(t, 12, snap[1].Installments)
	assert.Equal(t, "12 cuotas sin interés", snap[1].Notes)
	assert.Equal(t, int64(45000000), snap[1].Amount.Cents)
	assert.True(t, snap[1].CreatedAt.Equal(card.CreatedAt))
	assert.Equal(t, int64(320050), snap[2].Amount.Cents)

	require.NoError(t, s.Delete(ctx, 1))
	snap, err = s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, "Heladera", snap[0].Description)
	assert.Equal(t, 1, snap[0].Position)

	err = s.Delete(ctx, 3)
	assert.ErrorIs(t, err, ledger.ErrPositionOutOfRange)
	err = s.Delete(ctx, 0)
	assert.ErrorIs(t, err, ledger.ErrPositionOutOfRange)
}

func TestWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.json")
	s := New(path)
	require.NoError(t, s.Append(context.Background(), expense("Super", 1500050, 5)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Gastos []map[string]any `json:"gastos"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	require.Len(t, doc.Gastos, 1)
	got := doc.Gastos[0]
	assert.Equal(t, "2024-01-05", got["fecha"])
	assert.Equal(t, "Super", got["concepto"])
	assert.Equal(t, "Alimentos", got["categoria"])
	assert.Equal(t, 15000.5, got["importe"])
	assert.Equal(t, "variable", got["tipo_gasto"])
	assert.Equal(t, "BBVA", got["metodo_pago"])
	assert.Equal(t, float64(1), got["cuotas"])
	assert.Equal(t, "2024-01-05T09:30:00Z", got["timestamp"])
}

func TestLoadAllCoercesLegacyValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.json")
	legacy := `{"gastos": [
		{"fecha": "05/01/2024", "concepto": "Super", "categoria": "Alimentos", "importe": "15.000,50", "metodo_pago": "BBVA", "timestamp": "2024-01-05T12:34:56.123456"},
		{"fecha": "ayer", "concepto": "Taxi", "categoria": "Transporte", "importe": "mucho", "metodo_pago": "Efectivo"},
		{"fecha": "2024-02-01", "concepto": "Luz", "categoria": "Servicios", "importe": 8000, "tipo_gasto": "fijo", "metodo_pago": "Débito", "timestamp": "el lunes"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s := New(path)
	snap, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 3)

	assert.Equal(t, int64(1500050), snap[0].Amount.Cents)
	assert.True(t, snap[0].Date.Equal(core.NewDate(2024, 1, 5).Time))
	assert.Equal(t, core.Variable, snap[0].Type)
	assert.Equal(t, 1, snap[0].Installments)
	assert.True(t, snap[0].CreatedAt.Equal(time.Date(2024, 1, 5, 12, 34, 56, 123456000, time.Local)), "zoneless timestamp: %v", snap[0].CreatedAt)
	assert.Empty(t, snap[0].Warnings)

	assert.False(t, snap[1].HasAmount())
	assert.False(t, snap[1].HasDate())
	require.Len(t, snap[1].Warnings, 2)
	assert.Equal(t, "mucho", snap[1].Warnings[1].Value)

	assert.Equal(t, core.Fixed, snap[2].Type)
	assert.True(t, snap[2].CreatedAt.IsZero())
	require.Len(t, snap[2].Warnings, 1)
	assert.Equal(t, core.ParseWarning{Position: 3, Field: "timestamp", Value: "el lunes"}, snap[2].Warnings[0])
	assert.True(t, snap[2].HasAmount())
	assert.Equal(t, int64(2300050), core.Total(snap).Cents)

	// Unparseable values survive a rewrite.
	require.NoError(t, s.Delete(context.Background(), 1))
	snap, err = s.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, "mucho", snap[0].Warnings[1].Value)
}

func TestCorruptDocumentIsStoreError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(path).LoadAll(context.Background())
	var se *core.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "load", se.Op)
	assert.False(t, core.IsUnavailable(err))
}
