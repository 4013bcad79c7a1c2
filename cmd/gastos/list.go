package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gastos/internal/cli"
	"gastos/internal/core"
)

// filterFlags holds the snapshot filters shared by list, summary and export.
type filterFlags struct {
	category string
	payment  string
	typ      string
	month    string
	from     string
	to       string
	query    string
}

func (ff *filterFlags) register(f *pflag.FlagSet) {
	f.StringVarP(&ff.category, "category", "c", "", "only this category")
	f.StringVarP(&ff.payment, "payment", "p", "", "only this payment method")
	f.StringVar(&ff.typ, "type", "", "only this expense type")
	f.StringVarP(&ff.month, "month", "m", "", "only this month (YYYY-MM)")
	f.StringVar(&ff.from, "from", "", "from this date, inclusive")
	f.StringVar(&ff.to, "to", "", "up to this date, inclusive")
	f.StringVarP(&ff.query, "query", "q", "", "text to look for in description or notes")
}

func (ff *filterFlags) filter() (core.Filter, error) {
	f := core.Filter{Category: ff.category, PaymentMethod: ff.payment, Query: ff.query}
	if ff.typ != "" {
		t, err := core.ParseExpenseType(ff.typ)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid --type %q", ff.typ)
		}
		f.Type = t
	}
	if ff.month != "" {
		if _, err := time.Parse("2006-01", ff.month); err != nil {
			return core.Filter{}, fmt.Errorf("invalid --month %q: want YYYY-MM", ff.month)
		}
		f.Month = ff.month
	}
	var err error
	if ff.from != "" {
		if f.From, err = core.ParseDate(ff.from); err != nil {
			return core.Filter{}, fmt.Errorf("invalid --from %q", ff.from)
		}
	}
	if ff.to != "" {
		if f.To, err = core.ParseDate(ff.to); err != nil {
			return core.Filter{}, fmt.Errorf("invalid --to %q", ff.to)
		}
	}
	return f, nil
}

func listCmd() *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded expenses",
		Long: `List recorded expenses with their positions. The position is what
"gastos delete" takes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := ff.filter()
			if err != nil {
				return err
			}
			return withLedger(cmd, func(l *cli.Ledger) error {
				snap, err := l.LoadAll(cmd.Context())
				if err != nil {
					return err
				}
				printEntries(cmd, l, l.Filter(snap, filter))
				return nil
			})
		},
	}
	ff.register(cmd.Flags())
	return cmd
}

func printEntries(cmd *cobra.Command, l *cli.Ledger, snap core.Snapshot) {
	out := cmd.OutOrStdout()
	if len(snap) == 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render("No expenses recorded."))
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tFecha\tCategoría\tConcepto\tImporte\tMétodo de Pago\tTipo")
	for _, e := range snap {
		date, amount := "?", "?"
		if e.HasDate() {
			date = e.Date.Format(core.SheetDateLayout)
		}
		if e.HasAmount() {
			amount = l.FormatCurrency(e.Amount)
		}
		typ := string(e.Type)
		if e.Type == core.Card && e.Installments > 1 {
			typ = fmt.Sprintf("%s (%d cuotas)", e.Type, e.Installments)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", e.Position, date, e.Category, e.Description, amount, e.PaymentMethod, typ)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "\n%s %s (%d)\n", cli.TitleStyle.Render("Total:"), l.FormatCurrency(l.Total(snap)), len(snap))
	for _, warn := range snap.Warnings() {
		fmt.Fprintln(out, cli.FormatWarning("! "+warn.String()))
	}
}
