package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gastos/internal/cli"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gastos",
		Short: "Personal expense ledger",
		Long: `gastos records personal expenses in a ledger backed by Google Sheets,
a local JSON document or SQLite, and reports totals by category,
payment method and month.

Configuration is read from the environment (and a .env file if present).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(addCmd())
	root.AddCommand(listCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(summaryCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(authCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError("Error: "+err.Error()))
		os.Exit(1)
	}
}

// withLedger opens the configured ledger for the duration of fn. Logs go
// to stderr so command output stays clean.
func withLedger(cmd *cobra.Command, fn func(*cli.Ledger) error) error {
	l, err := cli.Bootstrap(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := l.Close(); closeErr != nil {
			l.Logger.Error("Failed to close backend", "error", closeErr)
		}
	}()
	return fn(l)
}
