package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/labfinance/taxsim/internal/config"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/labfinance/taxsim/internal/tui"
)

const (
	envWorkspace = "TAXSIM_WORKSPACE"
	envDSN       = "TAXSIM_DSN"
)

func newRootCmd(launch func(tui.Options) error) *cobra.Command {
	root := &cobra.Command{
		Use:   "taxsim-tui [workspace]",
		Short: "Interactive viewer for the tax regime simulation",
		Long: `Opens the monthly simulation, audit and trend of a unit in the terminal.

The workspace file may be given as an argument or through ` + envWorkspace + `;
` + envDSN + ` selects a PostgreSQL ledger. Both may be set in a .env file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options(cmd, args)
			if err != nil {
				return err
			}
			return launch(opts)
		},
	}

	flags := root.Flags()
	flags.String("parameters", "", "Path to a tax parameters file overriding the workspace")
	flags.String("reference", "", "Reference month YYYY-MM (default: workspace reference)")
	flags.String("csv", "", "Read ledger entries from this CSV export")
	flags.String("dsn", os.Getenv(envDSN), "PostgreSQL connection string of the ledger ($"+envDSN+")")
	return root
}

func options(cmd *cobra.Command, args []string) (tui.Options, error) {
	workspacePath := os.Getenv(envWorkspace)
	if len(args) > 0 {
		workspacePath = args[0]
	}
	if workspacePath == "" {
		return tui.Options{}, fmt.Errorf("no workspace file: pass one as an argument or set %s", envWorkspace)
	}
	if _, err := os.Stat(workspacePath); os.IsNotExist(err) {
		return tui.Options{}, fmt.Errorf("workspace file not found: %s", workspacePath)
	}

	parameters, _ := cmd.Flags().GetString("parameters")
	reference, _ := cmd.Flags().GetString("reference")
	csvPath, _ := cmd.Flags().GetString("csv")
	dsn, _ := cmd.Flags().GetString("dsn")

	opts := tui.Options{
		WorkspacePath:  workspacePath,
		ParametersPath: parameters,
		Source:         config.SourceOptions{CSVPath: csvPath, DSN: dsn},
	}
	if reference != "" {
		ref, err := domain.ParseYearMonth(reference)
		if err != nil {
			return tui.Options{}, err
		}
		opts.Reference = ref
	}
	return opts, nil
}

func runProgram(opts tui.Options) error {
	p := tea.NewProgram(
		tui.NewModel(opts),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func main() {
	// a missing .env file is not an error
	_ = godotenv.Load()

	if err := newRootCmd(runProgram).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
