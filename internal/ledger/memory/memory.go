package memory

import (
	"context"
	"sync"

	"gastos/internal/core"
	"gastos/internal/ledger"
)

const name = "memory"

// Store keeps the ledger in process memory. Used for demos and tests.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
}

var _ ledger.Store = (*Store)(nil)

func New(seed ...core.Expense) *Store {
	return &Store{items: append([]core.Expense(nil), seed...)}
}

func (s *Store) Name() string { return name }

func (s *Store) Initialize(context.Context) error { return nil }

// LoadAll returns a copy of the stored records with their positions.
func (s *Store) LoadAll(context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(core.Snapshot, len(s.items))
	for i, e := range s.items {
		out[i] = core.Entry{Expense: e, Position: i + 1}
	}
	return out, nil
}

// Append stores the expense at the end of the ledger.
func (s *Store) Append(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return nil
}

func (s *Store) Delete(_ context.Context, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ledger.CheckPosition(name, position, len(s.items)); err != nil {
		return err
	}
	s.items = append(s.items[:position-1], s.items[position:]...)
	return nil
}
