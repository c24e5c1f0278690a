package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ceres",
	Short: "Ceres - data quality rule engine",
	Long: `Ceres evaluates declarative data-quality rules against record batches.

Rules are simple expressions over record fields:
  - id IS NOT NULL
  - amount > 0 AND currency IN ('USD', 'EUR')
  - email LIKE '%@%'
  - LEN(sku) = 8

Each rule carries a severity: a failed error-level rule fails the run,
a failed warn-level rule is reported without blocking. Reports can be
printed, archived to SQLite and compared across runs.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
