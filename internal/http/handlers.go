package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gastos/internal/core"
	"gastos/internal/export"
	"gastos/internal/log"
	"gastos/internal/services"
)

type moneyView struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

type entryView struct {
	Position      int        `json:"position,omitempty"`
	Date          string     `json:"date"`
	Category      string     `json:"category"`
	Description   string     `json:"description"`
	Amount        *moneyView `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
	Type          string     `json:"type"`
	Installments  int        `json:"installments"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     string     `json:"created_at,omitempty"`
	Warnings      []string   `json:"warnings,omitempty"`
}

type listResponse struct {
	Store    string      `json:"store"`
	Count    int         `json:"count"`
	Total    moneyView   `json:"total"`
	Expenses []entryView `json:"expenses"`
}

func (s *Server) money(m core.Money) moneyView {
	return moneyView{Cents: m.Cents, Formatted: s.state.Ledger.FormatCurrency(m)}
}

func (s *Server) entryView(e core.Entry) entryView {
	v := entryView{
		Position:      e.Position,
		Category:      e.Category,
		Description:   e.Description,
		PaymentMethod: e.PaymentMethod,
		Type:          string(e.Type),
		Installments:  e.Installments,
		Notes:         e.Notes,
	}
	if e.HasDate() {
		v.Date = e.Date.Format(core.ISODateLayout)
	}
	if e.HasAmount() {
		m := s.money(e.Amount)
		v.Amount = &m
	}
	if !e.CreatedAt.IsZero() {
		v.CreatedAt = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	for _, w := range e.Warnings {
		v.Warnings = append(v.Warnings, w.String())
	}
	return v
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	snap, err := s.state.Ledger.LoadAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	filtered := s.state.Ledger.Filter(snap, filter)

	resp := listResponse{
		Store:    s.state.Ledger.StoreName(),
		Count:    len(filtered),
		Total:    s.money(s.state.Ledger.Total(filtered)),
		Expenses: make([]entryView, 0, len(filtered)),
	}
	for _, e := range filtered {
		resp.Expenses = append(resp.Expenses, s.entryView(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseFilter(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()
	f := core.Filter{
		Category:      strings.TrimSpace(q.Get("category")),
		PaymentMethod: strings.TrimSpace(q.Get("payment_method")),
		Query:         strings.TrimSpace(q.Get("q")),
	}
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t, err := core.ParseExpenseType(v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid type %q", v)
		}
		f.Type = t
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		if _, err := time.Parse("2006-01", v); err != nil {
			return core.Filter{}, fmt.Errorf("invalid month %q: want YYYY-MM", v)
		}
		f.Month = v
	}
	for key, dst := range map[string]*core.Date{"from": &f.From, "to": &f.To} {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			d, err := core.ParseDate(v)
			if err != nil {
				return core.Filter{}, fmt.Errorf("invalid %s date %q", key, v)
			}
			*dst = d
		}
	}
	return f, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.state.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var in services.ExpenseInput
	if err := dec.Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
			return
		}
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	e, err := s.state.Ledger.Add(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.entryView(core.Entry{Expense: e}))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(r.PathValue("position"))
	if err != nil {
		badRequest(w, "position must be an integer")
		return
	}
	if err := s.state.Ledger.Delete(r.Context(), position); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	dim, err := core.ParseDimension(r.URL.Query().Get("by"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	snap, err := s.state.Ledger.LoadAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := s.state.Ledger.Summarize(snap, dim)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	tax := s.state.Ledger.Taxonomy()
	types := make([]string, 0, len(core.ExpenseTypes()))
	for _, t := range core.ExpenseTypes() {
		types = append(types, string(t))
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"categories":      nonNil(tax.Categories),
		"payment_methods": nonNil(tax.PaymentMethods),
		"types":           types,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "text/csv; charset=utf-8", "gastos.csv", export.ToCSV)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "gastos.xlsx", export.ToWorkbook)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, contentType, filename string, render func(core.Snapshot) ([]byte, error)) {
	snap, err := s.state.Ledger.LoadAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := render(snap)
	if err != nil {
		writeError(w, r, fmt.Errorf("render %s: %w", filename, err))
		return
	}
	log.FromContext(r.Context()).WithComponent(log.ComponentExport).InfoContext(r.Context(), "Ledger exported",
		log.FieldOperation, log.OpExport, "file", filename, log.FieldEntries, len(snap))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
