package local

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gastos/internal/core"
	"gastos/internal/ledger"
)

const name = "local"

// Store keeps the ledger in a single JSON document of the form
// {"gastos": [...]}. Every write rewrites the whole file through a temp file
// and a rename; concurrent processes are last-save-wins.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ ledger.Store = (*Store)(nil)

// document keeps records raw so values this process cannot parse survive a
// rewrite untouched.
type document struct {
	Gastos []json.RawMessage `json:"gastos"`
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Name() string { return name }

func (s *Store) Path() string { return s.path }

// Initialize creates the document with an empty record list when the file is
// missing or empty.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return &core.StoreError{Store: name, Op: "initialize", Err: err}
	}
	if err := s.write(document{}); err != nil {
		return &core.StoreError{Store: name, Op: "initialize", Err: err}
	}
	slog.InfoContext(ctx, "Initialized local ledger file", "path", s.path)
	return nil
}

func (s *Store) LoadAll(ctx context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	doc, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, &core.StoreError{Store: name, Op: "load", Err: err}
	}

	snap := make(core.Snapshot, 0, len(doc.Gastos))
	for i, raw := range doc.Gastos {
		snap = append(snap, decodeRecord(i+1, raw))
	}
	for _, w := range snap.Warnings() {
		slog.WarnContext(ctx, "Unparseable value in local ledger",
			"path", s.path, "position", w.Position, "field", w.Field, "value", w.Value)
	}
	return snap, nil
}

func (s *Store) Append(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return &core.StoreError{Store: name, Op: "append", Err: err}
	}
	raw, err := json.Marshal(encodeRecord(e))
	if err != nil {
		return &core.StoreError{Store: name, Op: "append", Err: fmt.Errorf("encode record: %w", err)}
	}
	doc.Gastos = append(doc.Gastos, raw)
	if err := s.write(doc); err != nil {
		return &core.StoreError{Store: name, Op: "append", Err: err}
	}
	slog.InfoContext(ctx, "Expense appended to local ledger",
		"path", s.path,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return nil
}

func (s *Store) Delete(ctx context.Context, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return &core.StoreError{Store: name, Op: "delete", Err: err}
	}
	if err := ledger.CheckPosition(name, position, len(doc.Gastos)); err != nil {
		return err
	}
	doc.Gastos = append(doc.Gastos[:position-1], doc.Gastos[position:]...)
	if err := s.write(doc); err != nil {
		return &core.StoreError{Store: name, Op: "delete", Err: err}
	}
	slog.InfoContext(ctx, "Expense deleted from local ledger", "path", s.path, "position", position)
	return nil
}

// read returns an empty document when the file does not exist yet.
func (s *Store) read() (document, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return document{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return document{}, nil
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return document{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	if doc.Gastos == nil {
		doc.Gastos = []json.RawMessage{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".gastos-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
