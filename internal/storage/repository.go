package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gastos/internal/core"
	"gastos/internal/ledger"

	_ "modernc.org/sqlite"
)

const name = "sqlite"

// SQLiteRepository is a ledger store backed by a SQLite file. Positions are
// ordinals over rows ordered by insertion id.
type SQLiteRepository struct {
	db     *sql.DB
	dbPath string
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// a single writer keeps position-based deletes consistent
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("SQLite ledger opened", "db_path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db, dbPath: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Name() string { return name }

// Initialize applies pending migrations. The schema is already current
// after NewSQLiteRepository, so this is normally a no-op.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	version, err := RunMigrations(r.dbPath)
	if err != nil {
		return &core.StoreError{Store: name, Op: "initialize", Err: err}
	}
	slog.DebugContext(ctx, "SQLite schema up to date", "db_path", r.dbPath, "schema_version", version)
	return nil
}

func (r *SQLiteRepository) Append(ctx context.Context, e core.Expense) error {
	var createdAt string
	if !e.CreatedAt.IsZero() {
		createdAt = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (fecha, categoria, concepto, importe_cents, metodo_pago, tipo_gasto, cuotas, notas, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Date.Format(core.ISODateLayout),
		e.Category,
		e.Description,
		e.Amount.Cents,
		e.PaymentMethod,
		string(e.Type),
		e.Installments,
		e.Notes,
		createdAt,
	)
	if err != nil {
		return &core.StoreError{Store: name, Op: "append", Err: fmt.Errorf("insert expense: %w", err)}
	}
	attrs := []any{
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
	}
	if id, err := res.LastInsertId(); err == nil {
		attrs = append(attrs, "id", id)
	} else {
		slog.WarnContext(ctx, "SQLite did not report the inserted row id", "error", err)
	}
	slog.InfoContext(ctx, "Expense saved to SQLite", attrs...)
	return nil
}

func (r *SQLiteRepository) LoadAll(ctx context.Context) (core.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT fecha, categoria, concepto, importe_cents, metodo_pago, tipo_gasto, cuotas, notas, created_at
		FROM expenses
		ORDER BY id`)
	if err != nil {
		return nil, &core.StoreError{Store: name, Op: "load", Err: fmt.Errorf("query expenses: %w", err)}
	}
	defer rows.Close()

	snap := core.Snapshot{}
	for rows.Next() {
		var (
			fecha, tipo, createdAt string
			cents                  sql.NullInt64
			cuotas                 int
			e                      core.Entry
		)
		if err := rows.Scan(&fecha, &e.Category, &e.Description, &cents, &e.PaymentMethod, &tipo, &cuotas, &e.Notes, &createdAt); err != nil {
			return nil, &core.StoreError{Store: name, Op: "load", Err: fmt.Errorf("scan expense: %w", err)}
		}
		e.Position = len(snap) + 1
		decodeRow(&e, fecha, cents, tipo, cuotas, createdAt)
		snap = append(snap, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Store: name, Op: "load", Err: fmt.Errorf("iterate expenses: %w", err)}
	}

	for _, w := range snap.Warnings() {
		slog.WarnContext(ctx, "Unparseable value in SQLite ledger",
			"position", w.Position, "field", w.Field, "value", w.Value)
	}
	return snap, nil
}

func decodeRow(e *core.Entry, fecha string, cents sql.NullInt64, tipo string, cuotas int, createdAt string) {
	if d, err := core.ParseDate(fecha); err == nil {
		e.Date = d
	} else {
		e.Warnings = append(e.Warnings, core.ParseWarning{Position: e.Position, Field: "date", Value: fecha})
	}
	if cents.Valid {
		e.Amount = core.Money{Cents: cents.Int64}
	} else {
		e.Warnings = append(e.Warnings, core.ParseWarning{Position: e.Position, Field: "amount"})
	}
	e.Type = core.Variable
	if t, err := core.ParseExpenseType(tipo); err == nil {
		e.Type = t
	} else {
		e.Warnings = append(e.Warnings, core.ParseWarning{Position: e.Position, Field: "type", Value: tipo})
	}
	e.Installments = max(cuotas, 1)
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		e.CreatedAt = ts.UTC()
	}
}

// Delete removes the row at position, counted over rows ordered by id.
func (r *SQLiteRepository) Delete(ctx context.Context, position int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.StoreError{Store: name, Op: "delete", Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer tx.Rollback()

	if position < 1 {
		return ledger.CheckPosition(name, position, 0)
	}
	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM expenses ORDER BY id LIMIT 1 OFFSET ?`, position-1).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return &core.StoreError{Store: name, Op: "delete", Err: ledger.ErrPositionOutOfRange}
	}
	if err != nil {
		return &core.StoreError{Store: name, Op: "delete", Err: fmt.Errorf("locate position %d: %w", position, err)}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return &core.StoreError{Store: name, Op: "delete", Err: fmt.Errorf("delete expense %d: %w", id, err)}
	}
	if err := tx.Commit(); err != nil {
		return &core.StoreError{Store: name, Op: "delete", Err: fmt.Errorf("commit: %w", err)}
	}

	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", strconv.FormatInt(id, 10), "position", position)
	return nil
}

// Count returns the number of stored expenses.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}
