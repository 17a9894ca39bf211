package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/compare"
	"github.com/labfinance/taxsim/internal/transform"
)

func whatifCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatif [workspace]",
		Short: "Simulate the unit after hypothetical changes and compare with today",
		Long: `Applies what-if transforms to the twelve-month window of the unit and compares
the modified scenario with the current one.

Transforms (--apply, repeatable, applied in order):
  raise_prolabore:amount=5000   add to the monthly pro-labore of every month
  raise_salaries:amount=-1000   add to the monthly salaries of every month
  scale_revenue:factor=1.10     multiply every revenue field
  set_regime:regime=cbs_ibs     change the current regime
  set_iss_rate:rate=0.02        change the ISS rate
  set_basis:basis=rbt12_average change the Simples revenue basis

Examples:
  taxsim whatif workspace.yaml --apply raise_prolabore:amount=5000
  taxsim whatif workspace.yaml --template growth_10pct_reforma -f json
  taxsim whatif --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := transform.NewTransformRegistry()
			templates := transform.CreateBuiltInTemplates()

			if list, _ := cmd.Flags().GetBool("list"); list {
				return listTransforms(cmd, registry, templates)
			}

			format, _ := cmd.Flags().GetString("format")
			if !validCompareFormat(format) {
				return fmt.Errorf("unknown output format %q (valid: table, csv, json, json-compact)", format)
			}

			var transforms []transform.ScenarioTransform
			if name, _ := cmd.Flags().GetString("template"); name != "" {
				tpl, ok := templates.Get(name)
				if !ok {
					return fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(templates.List(), ", "))
				}
				transforms = append(transforms, tpl.Transforms...)
			}
			specs, _ := cmd.Flags().GetStringArray("apply")
			parsed, err := registry.ParseTransformSpecs(specs)
			if err != nil {
				return err
			}
			transforms = append(transforms, parsed...)
			if len(transforms) == 0 {
				return fmt.Errorf("no transform given: use --apply or --template")
			}

			in, err := loadInputs(cmd, args, calculation.WindowLength)
			if err != nil {
				return err
			}
			base, err := transform.NewScenario(in.engine, "Atual", in.simulationRequest(cmd))
			if err != nil {
				return err
			}
			modified, err := transform.ApplyTransforms(base, transforms)
			if err != nil {
				return err
			}

			compSet, err := compare.NewCompareEngine(in.engine).Compare(cmd.Context(), []compare.UnitInput{
				{Label: "Atual", Source: in.workspace.Unit, Request: named(base, "Atual")},
				{Label: "Cenário", Source: transform.Describe(transforms), Request: named(modified, "Cenário")},
			}, compare.CompareOptions{Reference: in.reference})
			if err != nil {
				return err
			}

			text, err := formatComparison(compSet, format)
			if err != nil {
				return err
			}
			if strings.EqualFold(format, "table") {
				text = fmt.Sprintf("%s - %s\n\n", in.workspace.Unit, transform.Describe(transforms)) + text
			}
			if path, _ := cmd.Flags().GetString("output"); path != "" {
				if err := os.WriteFile(path, []byte(text), 0644); err != nil {
					return fmt.Errorf("failed to write what-if report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringArray("apply", nil, "Transform spec name:key=value,... (repeatable)")
	cmd.Flags().String("template", "", "Built-in template applied before --apply")
	cmd.Flags().Bool("list", false, "List the transforms and templates")
	cmd.Flags().String("basis", "", "Monthly revenue basis (current_month, rbt12_average)")
	return cmd
}

// named returns the scenario's request with the unit name replaced by label
func named(s *transform.Scenario, label string) calculation.SimulationRequest {
	c := s.DeepCopy()
	if c.Request.Config != nil {
		c.Request.Config.UnitName = label
	}
	return c.Request
}

func listTransforms(cmd *cobra.Command, registry *transform.TransformRegistry, templates *transform.TemplateRegistry) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Transforms:")
	for _, name := range registry.List() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w, "Templates:")
	for _, name := range templates.List() {
		tpl, _ := templates.Get(name)
		fmt.Fprintf(w, "  %-22s %s\n", name, tpl.Description)
	}
	return nil
}
