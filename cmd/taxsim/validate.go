package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/labfinance/taxsim/internal/domain"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [workspace]",
		Short: "Validate a workspace file and its tax parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(cmd, args)
			if err != nil {
				return err
			}
			params := "built-in defaults"
			if ws.TaxParameters != nil {
				params = ws.TaxParameters.Version
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Workspace %s is valid: %d categories, %d entries, %d aggregates, parameters %s\n",
				ws.Unit, len(ws.Categories), len(ws.Entries), len(ws.Aggregates), params)

			// these are routed by name and fall back to salaries
			for _, c := range ws.Categories {
				if c.IsPersonnel() && !c.IsInformal && c.PayrollSubtype == domain.PayrollSubtypeUnset {
					fmt.Fprintf(w, "warning: personnel category %q has no payroll_subtype\n", c.Name)
				}
			}
			return nil
		},
	}
}
