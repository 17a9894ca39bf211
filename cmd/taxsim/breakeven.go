package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/labfinance/taxsim/internal/breakeven"
	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
)

func breakevenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven [workspace]",
		Short: "Find the monthly revenue or payroll at which two regimes swap places",
		Long: `Scales the monthly revenue or payroll of the whole twelve-month window and
searches for the value at which the cheaper regime changes.

Without --against the regime is compared with every other regime.

Examples:
  taxsim breakeven workspace.yaml --target payroll
  taxsim breakeven workspace.yaml --target revenue --against cbs_ibs --min 20000 --max 120000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			switch format {
			case "table", "json", "json-compact":
			default:
				return fmt.Errorf("unknown output format %q (valid: table, json, json-compact)", format)
			}

			req, err := crossoverRequest(cmd)
			if err != nil {
				return err
			}
			in, err := loadInputs(cmd, args, calculation.WindowLength)
			if err != nil {
				return err
			}
			req.Base = in.simulationRequest(cmd)
			if req.RegimeA == "" {
				req.RegimeA = domain.DefaultTaxConfig().Regime
				if in.workspace.TaxConfig != nil {
					req.RegimeA = in.workspace.TaxConfig.Regime
				}
			}

			solver := breakeven.NewDefaultSolver(in.engine)
			var result any
			if req.RegimeB == "" {
				result, err = solver.CrossoverAll(cmd.Context(), req)
			} else {
				result, err = solver.Crossover(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			text, err := formatBreakeven(result, format)
			if err != nil {
				return err
			}
			if path, _ := cmd.Flags().GetString("output"); path != "" {
				if err := os.WriteFile(path, []byte(text), 0644); err != nil {
					return fmt.Errorf("failed to write break-even report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().String("target", string(breakeven.TargetPayroll), "Quantity to vary (revenue, payroll)")
	cmd.Flags().String("regime", "", "Regime to compare (default: the workspace regime)")
	cmd.Flags().String("against", "", "Other regime (default: every other regime)")
	cmd.Flags().String("min", "", "Lowest monthly value searched (default: a tenth of the current value)")
	cmd.Flags().String("max", "", "Highest monthly value searched (default: ten times the current value)")
	cmd.Flags().Int("max-iterations", 0, "Maximum bisection steps (default 100)")
	cmd.Flags().String("basis", "", "Monthly revenue basis (current_month, rbt12_average)")
	return cmd
}

// crossoverRequest reads the solver flags; Base is filled by the caller
func crossoverRequest(cmd *cobra.Command) (breakeven.CrossoverRequest, error) {
	target, _ := cmd.Flags().GetString("target")
	regime, _ := cmd.Flags().GetString("regime")
	against, _ := cmd.Flags().GetString("against")
	maxIter, _ := cmd.Flags().GetInt("max-iterations")

	req := breakeven.CrossoverRequest{
		Target:        breakeven.Target(strings.ToLower(target)),
		RegimeA:       domain.Regime(regime),
		RegimeB:       domain.Regime(against),
		MaxIterations: maxIter,
	}
	if !req.Target.Valid() {
		return req, fmt.Errorf("unknown target %q (valid: revenue, payroll)", target)
	}
	if maxIter < 0 {
		return req, fmt.Errorf("--max-iterations cannot be negative")
	}

	var err error
	if req.Bounds.Min, err = decimalFlag(cmd, "min"); err != nil {
		return req, err
	}
	if req.Bounds.Max, err = decimalFlag(cmd, "max"); err != nil {
		return req, err
	}
	return req, nil
}

func decimalFlag(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return &d, nil
}

func formatBreakeven(result any, format string) (string, error) {
	switch format {
	case "json":
		return breakeven.FormatJSON(result, true)
	case "json-compact":
		return breakeven.FormatJSON(result, false)
	}
	tf := &breakeven.TableFormatter{}
	switch r := result.(type) {
	case *breakeven.MultiResult:
		return tf.FormatMulti(r), nil
	case *breakeven.CrossoverResult:
		return tf.Format(r), nil
	}
	return "", fmt.Errorf("unexpected break-even result %T", result)
}
