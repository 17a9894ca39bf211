package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/config"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/labfinance/taxsim/internal/output"
)

// inputs is what every computing command needs
type inputs struct {
	workspace *config.Workspace
	data      *config.Dataset
	reference domain.YearMonth
	engine    *calculation.Engine
}

func workspacePath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if p := os.Getenv(envWorkspace); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("no workspace file given and %s is not set", envWorkspace)
}

func loadWorkspace(cmd *cobra.Command, args []string) (*config.Workspace, error) {
	path, err := workspacePath(args)
	if err != nil {
		return nil, err
	}
	parametersFile, _ := cmd.Flags().GetString("parameters")
	return config.NewInputParser().LoadWorkspaceWithParameters(path, parametersFile)
}

// loadInputs parses the workspace and reads span months of ledger data ending
// at the reference month.
func loadInputs(cmd *cobra.Command, args []string, span int) (*inputs, error) {
	ws, err := loadWorkspace(cmd, args)
	if err != nil {
		return nil, err
	}

	override, err := referenceOverride(cmd)
	if err != nil {
		return nil, err
	}
	reference := ws.ReferenceMonth(override, time.Now())

	engine := newEngine(cmd)
	data, err := loadDataset(cmd, engine, ws, reference, span)
	if err != nil {
		return nil, err
	}
	return &inputs{workspace: ws, data: data, reference: reference, engine: engine}, nil
}

// referenceOverride parses --reference; the zero month means unset
func referenceOverride(cmd *cobra.Command) (domain.YearMonth, error) {
	ref, _ := cmd.Flags().GetString("reference")
	if ref == "" {
		return domain.YearMonth{}, nil
	}
	return domain.ParseYearMonth(ref)
}

func newEngine(cmd *cobra.Command) *calculation.Engine {
	engine := calculation.NewEngine()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine
}

// loadDataset reads the ledger of ws from the --csv or --dsn source, or from the workspace itself
func loadDataset(cmd *cobra.Command, engine *calculation.Engine, ws *config.Workspace, reference domain.YearMonth, span int) (*config.Dataset, error) {
	csvPath, _ := cmd.Flags().GetString("csv")
	dsn, _ := cmd.Flags().GetString("dsn")
	data, err := ws.LoadDataset(cmd.Context(), config.SourceOptions{CSVPath: csvPath, DSN: dsn}, reference, span)
	if err != nil {
		return nil, err
	}
	if data.Unresolved > 0 {
		engine.Logger.Warnf("%s: %d ledger entries reference categories missing from the catalog", ws.Unit, data.Unresolved)
	}
	return data, nil
}

// revenueBasis returns the --basis flag when set, else the workspace basis
func (in *inputs) revenueBasis(cmd *cobra.Command) domain.RevenueBasis {
	if basis, _ := cmd.Flags().GetString("basis"); basis != "" {
		return domain.RevenueBasis(basis)
	}
	return in.workspace.RevenueBasis
}

func (in *inputs) simulationRequest(cmd *cobra.Command) calculation.SimulationRequest {
	return calculation.SimulationRequest{
		Reference:    in.reference,
		Entries:      in.data.Entries,
		Aggregates:   in.data.Aggregates,
		Params:       in.workspace.TaxParameters,
		Config:       in.workspace.TaxConfig,
		RevenueBasis: in.revenueBasis(cmd),
	}
}

// render writes the report in the --format to stdout or to --output
func render(cmd *cobra.Command, report *output.Report) error {
	format, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unknown output format %q (valid: %s)", format, strings.Join(output.AvailableFormats(), ", "))
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		written, err := output.WriteFormatted(f, report, path, "")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", written)
		return nil
	}

	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
