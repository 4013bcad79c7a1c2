package ledger

import (
	"context"
	"errors"

	"gastos/internal/core"
)

// ErrPositionOutOfRange is wrapped in a core.StoreError when Delete is
// given a position that does not hold a record.
var ErrPositionOutOfRange = errors.New("position out of range")

// Ports for outbound adapters.
type (
	// Store is the capability every backing medium provides. Positions are
	// 1-based over data records; headers are not counted.
	Store interface {
		// Initialize creates the medium and writes its header or schema
		// when empty. Calling it on an initialized store is a no-op.
		Initialize(ctx context.Context) error
		// LoadAll returns every record in store order. No data is an empty
		// snapshot, not an error.
		LoadAll(ctx context.Context) (core.Snapshot, error)
		// Append adds one record at the end.
		Append(ctx context.Context, e core.Expense) error
		// Delete removes the record at position and shifts later ones down.
		Delete(ctx context.Context, position int) error
		// Name identifies the backend in logs and errors.
		Name() string
	}
)

// CheckPosition returns a StoreError wrapping ErrPositionOutOfRange when
// position is not within 1..count.
func CheckPosition(store string, position, count int) error {
	if position < 1 || position > count {
		return &core.StoreError{Store: store, Op: "delete", Err: ErrPositionOutOfRange}
	}
	return nil
}
