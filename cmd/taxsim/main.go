package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Environment variables read as flag defaults, optionally from a .env file
const (
	envWorkspace = "TAXSIM_WORKSPACE"
	envDSN       = "TAXSIM_DSN"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxsim %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.GoVersion + " " + bi.Main.Path
	}
	return ""
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taxsim",
		Short: "Tax regime simulator and Fator R audit",
		Long: `Simulates the monthly tax burden of a clinical-lab unit under Simples Nacional,
Lucro Presumido, Lucro Real and CBS/IBS, audits the Fator R over the trailing
twelve months and suggests the pro-labore adjustment that reaches Anexo III.

The workspace file may be given as an argument or through ` + envWorkspace + `;
` + envDSN + ` selects a PostgreSQL ledger. Both may be set in a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringP("format", "f", "table", "Output format (table, csv, json, json-compact)")
	flags.StringP("output", "o", "", "Write the report to this file instead of stdout")
	flags.String("parameters", "", "Path to a tax parameters file overriding the workspace")
	flags.String("reference", "", "Reference month YYYY-MM (default: workspace reference)")
	flags.String("csv", "", "Read ledger entries from this CSV export")
	flags.String("dsn", os.Getenv(envDSN), "PostgreSQL connection string of the ledger ($"+envDSN+")")
	flags.Bool("debug", false, "Enable debug output for detailed calculations")

	root.AddCommand(simulateCmd())
	root.AddCommand(adviseCmd())
	root.AddCommand(auditCmd())
	root.AddCommand(trendCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(breakevenCmd())
	root.AddCommand(whatifCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	// a missing .env file is not an error
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
