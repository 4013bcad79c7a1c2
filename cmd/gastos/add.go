package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gastos/internal/cli"
	"gastos/internal/core"
	"gastos/internal/services"
)

func addCmd() *cobra.Command {
	var in services.ExpenseInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Example: `  gastos add -d "Supermercado" -a 15000,50 -c Alimentos -p Efectivo
  gastos add -d Heladera -a 450000 -c Hogar -p "Tarjeta de Crédito" --type tarjeta --installments 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(l *cli.Ledger) error {
				e, err := l.Add(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("✓ Recorded %s %s (%s, %s)",
					e.Description, l.FormatCurrency(e.Amount), e.Category, e.Date.Format(core.SheetDateLayout))))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.Description, "description", "d", "", "what the expense was for")
	f.StringVarP(&in.Amount, "amount", "a", "", "amount, e.g. 15000,50 or 15.000,50")
	f.StringVarP(&in.Category, "category", "c", "", "expense category")
	f.StringVarP(&in.PaymentMethod, "payment", "p", "", "payment method")
	f.StringVar(&in.Date, "date", "", "date as DD/MM/YYYY or YYYY-MM-DD (default today)")
	f.StringVar(&in.Type, "type", "", "fijo, variable or tarjeta (default variable)")
	f.IntVar(&in.Installments, "installments", 0, "installments for card expenses")
	f.StringVar(&in.Notes, "notes", "", "free-form notes")
	return cmd
}
