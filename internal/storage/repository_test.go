package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gastos/internal/core"
	"gastos/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "db", "gastos.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	created := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	in := []core.Expense{
		{Date: core.NewDate(2024, 1, 5), Category: "Alimentos", Description: "Super", Amount: core.Money{Cents: 1500000}, PaymentMethod: "BBVA", Type: core.Variable, Installments: 1, CreatedAt: created},
		{Date: core.NewDate(2024, 1, 6), Category: "Hogar", Description: "Heladera", Amount: core.Money{Cents: 45000000}, PaymentMethod: "Tarjeta de Crédito", Type: core.Card, Installments: 12, Notes: "sin interés"},
		{Date: core.NewDate(2024, 1, 10), Category: "Transporte", Description: "Taxi", Amount: core.Money{Cents: 250050}, PaymentMethod: "Efectivo", Type: core.Variable, Installments: 1},
	}
	for _, e := range in {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	snap, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap))
	}
	for i, e := range snap {
		want := in[i]
		if e.Position != i+1 {
			t.Fatalf("entry %d: position %d", i, e.Position)
		}
		if !e.Date.Equal(want.Date.Time) || e.Description != want.Description || e.Amount != want.Amount ||
			e.Type != want.Type || e.Installments != want.Installments || e.Notes != want.Notes {
			t.Fatalf("entry %d does not round-trip: %+v", i, e.Expense)
		}
		if len(e.Warnings) != 0 {
			t.Fatalf("entry %d: unexpected warnings %v", i, e.Warnings)
		}
	}
	if !snap[0].CreatedAt.Equal(created) {
		t.Fatalf("created_at lost: %v", snap[0].CreatedAt)
	}

	if err := repo.Delete(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	snap, _ = repo.LoadAll(ctx)
	if len(snap) != 2 || snap[1].Description != "Taxi" || snap[1].Position != 2 {
		t.Fatalf("unexpected snapshot after delete: %+v", snap)
	}
	if n, err := repo.Count(ctx); err != nil || n != 2 {
		t.Fatalf("count: %d err=%v", n, err)
	}
}

func TestRepositoryDeleteOutOfRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, pos := range []int{0, 1, -3} {
		err := repo.Delete(ctx, pos)
		if !errors.Is(err, ledger.ErrPositionOutOfRange) {
			t.Fatalf("position %d: expected out of range, got %v", pos, err)
		}
	}
}

func TestRepositoryEmptyLoad(t *testing.T) {
	snap, err := newTestRepo(t).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap == nil || len(snap) != 0 {
		t.Fatalf("expected empty non-nil snapshot, got %#v", snap)
	}
}

func TestRepositoryNullAmountIsWarning(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if _, err := repo.db.ExecContext(ctx,
		`INSERT INTO expenses (fecha, categoria, concepto, importe_cents, metodo_pago) VALUES ('??', 'Otros', 'Importado', NULL, 'Efectivo')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	snap, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap) != 1 || snap[0].HasAmount() || snap[0].HasDate() {
		t.Fatalf("expected entry with missing amount and date: %+v", snap)
	}
	if core.Total(snap).Cents != 0 {
		t.Fatalf("missing amounts must not be summed")
	}
}

func TestRunMigrationsReportsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.db")
	for i := 0; i < 2; i++ {
		version, err := RunMigrations(path)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if version != SchemaVersion {
			t.Fatalf("run %d: version %d, want %d", i, version, SchemaVersion)
		}
	}
}

func TestInitializeRejectsDirtySchema(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if _, err := repo.db.ExecContext(ctx, `UPDATE schema_migrations SET dirty = 1`); err != nil {
		t.Fatalf("mark dirty: %v", err)
	}

	err := repo.Initialize(ctx)
	var se *core.StoreError
	if !errors.As(err, &se) || se.Op != "initialize" {
		t.Fatalf("expected initialize StoreError, got %v", err)
	}
	if !strings.Contains(err.Error(), "dirty") {
		t.Fatalf("error should name the dirty schema: %v", err)
	}
}
