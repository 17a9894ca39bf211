package main

import (
	"github.com/spf13/cobra"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/output"
)

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [workspace]",
		Short: "Compare the four tax regimes for the reference month",
		Long: `Computes RBT12, Folha12 and the Fator R over the twelve months ending at the
reference month, then the monthly tax under Simples Nacional, Lucro Presumido,
Lucro Real and CBS/IBS, the pro-labore advice and the diagnostics.

Examples:
  taxsim simulate workspace.yaml
  taxsim simulate workspace.yaml --reference 2025-03 --basis rbt12_average -f json
  taxsim simulate workspace.yaml --csv ledger.csv --parameters params-2026.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInputs(cmd, args, calculation.WindowLength)
			if err != nil {
				return err
			}
			sim, err := in.engine.Simulate(in.simulationRequest(cmd))
			if err != nil {
				return err
			}
			return render(cmd, &output.Report{Simulation: sim})
		},
	}
	cmd.Flags().String("basis", "", "Monthly revenue basis (current_month, rbt12_average)")
	return cmd
}

func adviseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise [workspace]",
		Short: "Show the pro-labore adjustment and the Anexo III savings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInputs(cmd, args, calculation.WindowLength)
			if err != nil {
				return err
			}
			advice, err := in.engine.Advise(in.simulationRequest(cmd))
			if err != nil {
				return err
			}
			return render(cmd, &output.Report{Advice: advice})
		},
	}
	cmd.Flags().String("basis", "", "Monthly revenue basis (current_month, rbt12_average)")
	return cmd
}
