package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gastos/internal/cli"
	"gastos/internal/core"
)

func summaryCmd() *cobra.Command {
	var (
		ff filterFlags
		by string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals grouped by category, payment method or month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dim, err := core.ParseDimension(by)
			if err != nil {
				return err
			}
			filter, err := ff.filter()
			if err != nil {
				return err
			}
			return withLedger(cmd, func(l *cli.Ledger) error {
				snap, err := l.LoadAll(cmd.Context())
				if err != nil {
					return err
				}
				summary, err := l.Summarize(l.Filter(snap, filter), dim)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Gastos por %s", dim)))
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
				for _, p := range summary.Series {
					fmt.Fprintf(w, "%s\t%s\t\n", p.Key, p.Formatted)
				}
				_ = w.Flush()
				fmt.Fprintf(out, "\n%s %s (%d)\n", cli.TitleStyle.Render("Total:"), summary.Total.Formatted, summary.Entries)
				if summary.Top != "" {
					fmt.Fprintf(out, "%s %s\n", cli.TitleStyle.Render("Top:"), summary.Top)
				}
				if summary.Warnings > 0 {
					fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("! %d values could not be read", summary.Warnings)))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "category", "category, payment_method, month or type")
	ff.register(cmd.Flags())
	return cmd
}
