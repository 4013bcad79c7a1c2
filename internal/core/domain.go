package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Wire layouts for dates. The spreadsheet keeps the day-first form the
// ledger has always used; the JSON document and SQLite use ISO dates.
const (
	SheetDateLayout = "02/01/2006"
	ISODateLayout   = "2006-01-02"
)

const (
	Fixed    ExpenseType = "fijo"
	Variable ExpenseType = "variable"
	Card     ExpenseType = "tarjeta"
)

type (
	ExpenseType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		Date          Date
		Category      string
		Description   string
		Amount        Money
		PaymentMethod string
		Type          ExpenseType
		Installments  int
		Notes         string
		CreatedAt     time.Time
	}
)

var (
	ErrInvalidDay           = errors.New("invalid day")
	ErrInvalidMonth         = errors.New("invalid month")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyDescription     = errors.New("empty description")
	ErrEmptyCategory        = errors.New("empty category")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrEmptyPaymentMethod   = errors.New("empty payment method")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrInvalidExpenseType   = errors.New("invalid expense type")
	ErrInvalidInstallments  = errors.New("installments must be at least 1")
)

// MaxDescriptionLength bounds free-text fields coming from forms, in characters.
const MaxDescriptionLength = 200

// MaxAmountCents bounds a single expense: $10.000.000.000.000,00.
const MaxAmountCents int64 = 1_000_000_000_000_000

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// IsEmpty reports a missing date (unparseable or never set).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// MonthKey returns the YYYY-MM bucket used by monthly aggregations.
func (d Date) MonthKey() string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format("2006-01")
}

// ParseDate accepts ISO (2006-01-02), day-first (02/01/2006) and RFC 3339
// timestamps, in that order.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	for _, layout := range []string{ISODateLayout, SheetDateLayout, "2/1/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, ErrInvalidDate
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

// ParseExpenseType maps user input to an ExpenseType. Empty input means
// Variable; English aliases are accepted.
func ParseExpenseType(s string) (ExpenseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Variable, nil
	case "fijo", "fixed":
		return Fixed, nil
	case "variable":
		return Variable, nil
	case "tarjeta", "card":
		return Card, nil
	default:
		return "", ErrInvalidExpenseType
	}
}

func (t ExpenseType) IsValid() bool {
	switch t {
	case Fixed, Variable, Card:
		return true
	default:
		return false
	}
}

// ExpenseTypes lists the valid expense types in display order.
func ExpenseTypes() []ExpenseType {
	return []ExpenseType{Fixed, Variable, Card}
}

// Validate checks the record invariants. Category and payment method
// membership in a closed set is checked by Taxonomy, not here.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Err: err}
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return &ValidationError{Field: "description", Err: ErrEmptyDescription}
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Err: errors.New("description too long (max 200 characters)")}
	}
	if err := e.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Err: err}
	}
	if strings.TrimSpace(e.Category) == "" {
		return &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}
	if strings.TrimSpace(e.PaymentMethod) == "" {
		return &ValidationError{Field: "payment_method", Err: ErrEmptyPaymentMethod}
	}
	if !e.Type.IsValid() {
		return &ValidationError{Field: "type", Err: ErrInvalidExpenseType}
	}
	if e.Installments < 1 {
		return &ValidationError{Field: "installments", Err: ErrInvalidInstallments}
	}
	if e.Type != Card && e.Installments != 1 {
		return &ValidationError{Field: "installments", Err: errors.New("installments only apply to card expenses")}
	}
	return nil
}

// Stamp fills CreatedAt once; an already stamped record keeps its time.
func (e *Expense) Stamp(now time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now.UTC().Truncate(time.Second)
	}
}
