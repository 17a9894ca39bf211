package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/compare"
	"github.com/labfinance/taxsim/internal/config"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <base-workspace> <workspace>...",
		Short: "Compare the tax burden of several units of the chain",
		Long: `Simulates every workspace at the same reference month and compares each unit
with the base unit: current regime burden, lowest-burden regime, potential
savings and the chain totals.

With --csv or --dsn the same ledger is read for every unit, filtered by the
unit_id of each workspace.

Examples:
  taxsim compare centro.yaml norte.yaml sul.yaml
  taxsim compare centro.yaml norte.yaml --base "Laboratório Norte" -f csv`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if !validCompareFormat(format) {
				return fmt.Errorf("unknown output format %q (valid: table, csv, json, json-compact)", format)
			}

			override, err := referenceOverride(cmd)
			if err != nil {
				return err
			}
			parametersFile, _ := cmd.Flags().GetString("parameters")
			engine := newEngine(cmd)

			units := make([]compare.UnitInput, 0, len(args))
			reference := override
			for _, path := range args {
				ws, err := config.NewInputParser().LoadWorkspaceWithParameters(path, parametersFile)
				if err != nil {
					return err
				}
				// every unit is simulated at the first unit's month
				if reference.IsZero() {
					reference = ws.ReferenceMonth(override, time.Now())
				}
				data, err := loadDataset(cmd, engine, ws, reference, calculation.WindowLength)
				if err != nil {
					return err
				}
				units = append(units, compare.UnitInput{
					Label:  ws.Unit,
					Source: path,
					Request: calculation.SimulationRequest{
						Reference:    reference,
						Entries:      data.Entries,
						Aggregates:   data.Aggregates,
						Params:       ws.TaxParameters,
						Config:       ws.TaxConfig,
						RevenueBasis: ws.RevenueBasis,
					},
				})
			}

			base, _ := cmd.Flags().GetString("base")
			compSet, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), units, compare.CompareOptions{
				Reference: reference,
				BaseUnit:  base,
			})
			if err != nil {
				return err
			}

			text, err := formatComparison(compSet, format)
			if err != nil {
				return err
			}
			if path, _ := cmd.Flags().GetString("output"); path != "" {
				if err := os.WriteFile(path, []byte(text), 0644); err != nil {
					return fmt.Errorf("failed to write comparison: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().String("base", "", "Name of the base unit (default: the first workspace)")
	return cmd
}

func validCompareFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "table", "console", "text", "csv", "json", "json-compact":
		return true
	}
	return false
}

func formatComparison(compSet *compare.ComparisonSet, format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return (&compare.CSVFormatter{}).Format(compSet)
	case "json":
		return (&compare.JSONFormatter{Pretty: true}).Format(compSet)
	case "json-compact":
		return (&compare.JSONFormatter{}).Format(compSet)
	default:
		return (&compare.TableFormatter{}).Format(compSet), nil
	}
}
