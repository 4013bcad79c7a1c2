package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gastos/internal/cli"
	"gastos/internal/ledger"
)

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <position>",
		Aliases: []string{"rm"},
		Short:   "Delete the expense at a position",
		Long: `Delete the expense at the given 1-based position, as shown by
"gastos list" without filters. Later records move up by one.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}
	cmd.Flags().BoolP("force", "f", false, "skip confirmation prompt")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	position, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid position %q: must be an integer", args[0])
	}
	force, _ := cmd.Flags().GetBool("force")
	out := cmd.OutOrStdout()

	return withLedger(cmd, func(l *cli.Ledger) error {
		ctx := cmd.Context()
		snap, err := l.LoadAll(ctx)
		if err != nil {
			return err
		}
		if err := ledger.CheckPosition(l.StoreName(), position, len(snap)); err != nil {
			return err
		}
		e := snap[position-1]

		if !force {
			amount := "?"
			if e.HasAmount() {
				amount = l.FormatCurrency(e.Amount)
			}
			fmt.Fprintf(out, "Delete #%d %s %s (%s)? (y/N): ", position, e.Description, amount, e.Category)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "s" {
				fmt.Fprintln(out, "Operation canceled.")
				return nil
			}
		}

		if err := l.Delete(ctx, position); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("✓ Deleted #%d %s", position, e.Description)))
		return nil
	})
}
