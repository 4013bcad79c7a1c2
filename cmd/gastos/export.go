package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gastos/internal/cli"
	"gastos/internal/core"
	"gastos/internal/export"
	"gastos/internal/log"
)

func exportCmd() *cobra.Command {
	var (
		ff     filterFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as CSV or as an XLSX workbook with one sheet per month",
		Example: `  gastos export --format csv -o gastos.csv
  gastos export --format xlsx --month 2024-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var render func(core.Snapshot) ([]byte, error)
			switch strings.ToLower(format) {
			case "csv":
				render = export.ToCSV
			case "xlsx":
				render = export.ToWorkbook
			default:
				return fmt.Errorf("invalid --format %q: must be csv or xlsx", format)
			}
			if output == "" {
				output = "gastos." + strings.ToLower(format)
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
				snap = l.Filter(snap, filter)
				body, err := render(snap)
				if err != nil {
					return fmt.Errorf("render %s: %w", format, err)
				}

				if output == "-" {
					_, err := cmd.OutOrStdout().Write(body)
					return err
				}
				if err := os.WriteFile(output, body, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				l.Logger.WithComponent(log.ComponentExport).Info("Ledger exported",
					log.FieldOperation, log.OpExport, "file", output, log.FieldEntries, len(snap))
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("✓ Exported %d expenses to %s", len(snap), output)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default gastos.<format>)`)
	ff.register(cmd.Flags())
	return cmd
}
