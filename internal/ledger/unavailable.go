package ledger

import (
	"context"

	"gastos/internal/core"
)

type unavailable struct {
	err *core.StoreUnavailableError
}

// Unavailable returns a Store whose every operation fails with the same
// StoreUnavailableError. It stands in for a backend whose connection could
// not be acquired, so callers short-circuit instead of retrying.
func Unavailable(name string, cause error) Store {
	return unavailable{err: &core.StoreUnavailableError{Store: name, Err: cause}}
}

func (u unavailable) Initialize(context.Context) error { return u.err }

func (u unavailable) LoadAll(context.Context) (core.Snapshot, error) { return nil, u.err }

func (u unavailable) Append(context.Context, core.Expense) error { return u.err }

func (u unavailable) Delete(context.Context, int) error { return u.err }

func (u unavailable) Name() string { return u.err.Store }
