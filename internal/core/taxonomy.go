package core

import "strings"

// Default closed sets used when the deployment does not configure its own.
var (
	DefaultCategories = []string{
		"Alimentos", "Transporte", "Servicios", "Salud", "Educación",
		"Entretenimiento", "Hogar", "Ropa", "Otros",
	}
	DefaultPaymentMethods = []string{
		"Efectivo", "Transferencia", "Tarjeta de Débito", "Tarjeta de Crédito",
		"BBVA", "Galicia", "Mercado Pago",
	}
)

// Taxonomy holds the closed sets a record's category and payment method
// must belong to. An empty set accepts any non-empty text.
type Taxonomy struct {
	Categories     []string
	PaymentMethods []string
}

// DefaultTaxonomy returns the built-in category and payment method sets.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Categories:     append([]string(nil), DefaultCategories...),
		PaymentMethods: append([]string(nil), DefaultPaymentMethods...),
	}
}

// Category returns the canonical spelling of s, matched case-insensitively.
func (t Taxonomy) Category(s string) (string, error) {
	return lookup(t.Categories, s, ErrEmptyCategory, ErrUnknownCategory)
}

// PaymentMethod returns the canonical spelling of s, matched case-insensitively.
func (t Taxonomy) PaymentMethod(s string) (string, error) {
	return lookup(t.PaymentMethods, s, ErrEmptyPaymentMethod, ErrUnknownPaymentMethod)
}

func lookup(set []string, s string, errEmpty, errUnknown error) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmpty
	}
	if len(set) == 0 {
		return s, nil
	}
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return v, nil
		}
	}
	return "", errUnknown
}

// Filter narrows a snapshot for table views. Zero fields match everything.
type Filter struct {
	Category      string
	PaymentMethod string
	Type          ExpenseType
	Month         string // YYYY-MM
	From          Date
	To            Date
	Query         string
}

// Apply returns the entries of s that match f, keeping store order.
func (f Filter) Apply(s Snapshot) Snapshot {
	out := make(Snapshot, 0, len(s))
	q := strings.ToLower(strings.TrimSpace(f.Query))
	for _, e := range s {
		if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
			continue
		}
		if f.PaymentMethod != "" && !strings.EqualFold(e.PaymentMethod, f.PaymentMethod) {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Month != "" && e.Date.MonthKey() != f.Month {
			continue
		}
		if !f.inRange(e) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Description), q) &&
			!strings.Contains(strings.ToLower(e.Notes), q) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (f Filter) inRange(e Entry) bool {
	if f.From.IsEmpty() && f.To.IsEmpty() {
		return true
	}
	if !e.HasDate() {
		return false
	}
	if !f.From.IsEmpty() && e.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsEmpty() && e.Date.After(f.To.Time) {
		return false
	}
	return true
}
