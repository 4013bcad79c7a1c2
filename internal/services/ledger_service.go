package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/log"
)

// ExpenseInput is a record as entered by a user, before validation.
type ExpenseInput struct {
	Date          string `json:"date"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Type          string `json:"type"`
	Installments  int    `json:"installments"`
	Notes         string `json:"notes"`
}

// LedgerService validates input and coordinates the single active store.
// It holds no cached snapshot; every read goes to the store.
type LedgerService struct {
	store    ledger.Store
	taxonomy core.Taxonomy
	currency core.CurrencyFormat
	now      func() time.Time
	logger   *log.Logger
}

// Option customizes a LedgerService.
type Option func(*LedgerService)

func WithTaxonomy(t core.Taxonomy) Option {
	return func(s *LedgerService) { s.taxonomy = t }
}

func WithCurrencyFormat(f core.CurrencyFormat) Option {
	return func(s *LedgerService) { s.currency = f }
}

// WithClock replaces time.Now, used for "today" and creation stamps.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l.WithComponent(log.ComponentLedger) }
}

func NewLedgerService(store ledger.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:    store,
		taxonomy: core.DefaultTaxonomy(),
		currency: core.FormatARS,
		now:      time.Now,
		logger:   log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) StoreName() string { return s.store.Name() }

func (s *LedgerService) Taxonomy() core.Taxonomy { return s.taxonomy }

// Validate turns raw input into a normalized record ready to append.
func (s *LedgerService) Validate(in ExpenseInput) (core.Expense, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return core.Expense{}, &core.ValidationError{Field: "description", Err: core.ErrEmptyDescription}
	}

	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Expense{}, &core.ValidationError{Field: "amount", Err: err}
	}

	category, err := s.taxonomy.Category(in.Category)
	if err != nil {
		return core.Expense{}, &core.ValidationError{Field: "category", Err: err}
	}

	payment, err := s.taxonomy.PaymentMethod(in.PaymentMethod)
	if err != nil {
		return core.Expense{}, &core.ValidationError{Field: "payment_method", Err: err}
	}

	typ, err := core.ParseExpenseType(in.Type)
	if err != nil {
		return core.Expense{}, &core.ValidationError{Field: "type", Err: err}
	}

	installments := 1
	if typ == core.Card {
		switch {
		case in.Installments < 0:
			return core.Expense{}, &core.ValidationError{Field: "installments", Err: core.ErrInvalidInstallments}
		case in.Installments > 0:
			installments = in.Installments
		}
	}

	date := core.DateOf(s.now())
	if strings.TrimSpace(in.Date) != "" {
		if date, err = core.ParseDate(in.Date); err != nil {
			return core.Expense{}, &core.ValidationError{Field: "date", Err: err}
		}
	}

	e := core.Expense{
		Date:          date,
		Category:      category,
		Description:   desc,
		Amount:        amount,
		PaymentMethod: payment,
		Type:          typ,
		Installments:  installments,
		Notes:         strings.TrimSpace(in.Notes),
	}
	e.Stamp(s.now())
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// check re-validates a record built outside Validate.
func (s *LedgerService) check(e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.taxonomy.Category(e.Category); err != nil {
		return &core.ValidationError{Field: "category", Err: err}
	}
	if _, err := s.taxonomy.PaymentMethod(e.PaymentMethod); err != nil {
		return &core.ValidationError{Field: "payment_method", Err: err}
	}
	return nil
}

// Append persists a validated record. Store failures are returned wrapped
// and never retried.
func (s *LedgerService) Append(ctx context.Context, e core.Expense) error {
	if err := s.check(e); err != nil {
		return err
	}
	e.Stamp(s.now())
	if err := s.store.Append(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Append failed", log.FieldStore, s.store.Name(), log.FieldError, err)
		return fmt.Errorf("append expense: %w", err)
	}
	log.NewStructuredLogger(s.logger).LogExpenseCreated(ctx, s.store.Name(), e.Description, e.Amount.Cents, e.Category, e.PaymentMethod)
	return nil
}

// Add validates in and appends the resulting record.
func (s *LedgerService) Add(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	e, err := s.Validate(in)
	if err != nil {
		s.logger.DebugContext(ctx, "Rejected expense input", log.FieldOperation, log.OpValidate, log.FieldError, err)
		return core.Expense{}, err
	}
	if err := s.Append(ctx, e); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// LoadAll reloads the full ledger. Unparseable values show up as warnings
// on the affected entries.
func (s *LedgerService) LoadAll(ctx context.Context) (core.Snapshot, error) {
	snap, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	s.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldStore, s.store.Name(),
		log.FieldEntries, len(snap),
		log.FieldWarnings, len(snap.Warnings()))
	return snap, nil
}

// Delete removes the record at the 1-based position reported by LoadAll.
func (s *LedgerService) Delete(ctx context.Context, position int) error {
	if err := s.store.Delete(ctx, position); err != nil {
		return fmt.Errorf("delete expense at position %d: %w", position, err)
	}
	s.logger.InfoContext(ctx, "Expense deleted", log.FieldStore, s.store.Name(), log.FieldPosition, position)
	return nil
}

func (s *LedgerService) Initialize(ctx context.Context) error {
	if err := s.store.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize %s store: %w", s.store.Name(), err)
	}
	return nil
}

func (s *LedgerService) AggregateBy(snap core.Snapshot, d core.Dimension) map[string]core.Money {
	return core.AggregateBy(snap, d)
}

func (s *LedgerService) Top(snap core.Snapshot, d core.Dimension) (string, error) {
	return core.Top(snap, d)
}

func (s *LedgerService) Total(snap core.Snapshot) core.Money {
	return core.Total(snap)
}

func (s *LedgerService) Filter(snap core.Snapshot, f core.Filter) core.Snapshot {
	return f.Apply(snap)
}

func (s *LedgerService) FormatCurrency(m core.Money) string {
	return s.currency.Format(m)
}
