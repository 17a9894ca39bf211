package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/output"
)

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit [workspace]",
		Short: "Audit the Fator R month by month over the trailing twelve months",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInputs(cmd, args, calculation.WindowLength)
			if err != nil {
				return err
			}
			result, err := in.engine.Audit(calculation.AuditRequest{
				Reference:  in.reference,
				Entries:    in.data.Entries,
				Aggregates: in.data.Aggregates,
				Catalog:    in.data.Catalog,
				Params:     in.workspace.TaxParameters,
			})
			if err != nil {
				return err
			}
			return render(cmd, &output.Report{Audit: result})
		},
	}
}

func trendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend [workspace]",
		Short: "Show RBT12, Folha12 and Fator R for consecutive reference months",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, _ := cmd.Flags().GetInt("points")
			if points <= 0 {
				return fmt.Errorf("--points must be positive, got %d", points)
			}
			naive, _ := cmd.Flags().GetBool("naive")

			in, err := loadInputs(cmd, args, points+calculation.WindowLength-1)
			if err != nil {
				return err
			}
			trend, err := in.engine.Trend(calculation.TrendRequest{
				Reference:  in.reference,
				Points:     points,
				Entries:    in.data.Entries,
				Aggregates: in.data.Aggregates,
				Naive:      naive,
			})
			if err != nil {
				return err
			}
			return render(cmd, &output.Report{Trend: trend})
		},
	}
	cmd.Flags().Int("points", calculation.DefaultTrendPoints, "Number of reference months")
	cmd.Flags().Bool("naive", false, "Recompute every window from scratch instead of sliding")
	return cmd
}
