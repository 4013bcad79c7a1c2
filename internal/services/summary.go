package services

import (
	"errors"

	"gastos/internal/core"
)

// SeriesPoint is one aggregated key with its formatted amount.
type SeriesPoint struct {
	Key       string `json:"key"`
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

// Summary is the metrics view of a snapshot grouped by one dimension.
type Summary struct {
	Dimension core.Dimension `json:"dimension"`
	Entries   int            `json:"entries"`
	Warnings  int            `json:"warnings"`
	Total     SeriesPoint    `json:"total"`
	Top       string         `json:"top,omitempty"`
	Series    []SeriesPoint  `json:"series"`
}

// Summarize aggregates snap by d. The month series is chronological; the
// others are sorted by amount, largest first.
func (s *LedgerService) Summarize(snap core.Snapshot, d core.Dimension) (Summary, error) {
	sums := s.AggregateBy(snap, d)
	var ordered []core.CategoryAmount
	if d == core.DimMonth {
		ordered = core.Chronological(sums)
	} else {
		ordered = core.SortedByAmount(sums)
	}

	total := s.Total(snap)
	out := Summary{
		Dimension: d,
		Entries:   len(snap),
		Warnings:  len(snap.Warnings()),
		Total:     SeriesPoint{Key: "total", Cents: total.Cents, Formatted: s.FormatCurrency(total)},
		Series:    make([]SeriesPoint, 0, len(ordered)),
	}
	for _, ca := range ordered {
		out.Series = append(out.Series, SeriesPoint{Key: ca.Name, Cents: ca.Amount.Cents, Formatted: s.FormatCurrency(ca.Amount)})
	}

	top, err := s.Top(snap, d)
	switch {
	case errors.Is(err, core.ErrEmptySnapshot):
	case err != nil:
		return Summary{}, err
	default:
		out.Top = top
	}
	return out, nil
}
