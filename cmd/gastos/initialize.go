package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gastos/internal/cli"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Prepare the configured store",
		Long: `Prepare the configured store: write the header row of an empty sheet,
create an empty local document or run the SQLite migrations.
Running it again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(l *cli.Ledger) error {
				if err := l.Initialize(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("✓ %s store ready", l.StoreName())))
				return nil
			})
		},
	}
}
