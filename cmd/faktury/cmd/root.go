package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZdruzenieSTROM/faktury/internal/config"
	"github.com/ZdruzenieSTROM/faktury/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose   bool
	debug     bool
	inputDir  string
	outputDir string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "faktury",
	Short: "Issue batches of invoices through faktury-online.com",
	Long: `Faktury issues one invoice per customer of a batch through the
faktury-online.com API and exports ledger files of issued invoices.

A batch NAME is read from two files in the input directory:
  NAME.csv   customers, ';' delimited, one row per invoice
  NAME.yaml  settings shared by the whole batch

Examples:
  # Check a batch without calling the service
  faktury skontroluj jesen

  # Issue the batch in the service's test mode and keep the PDFs
  faktury vytvor jesen --debug --download

  # Export ledger files for March
  faktury dennik 1.3.2024 31.3.2024`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Use the service's test mode (apitest)")
	rootCmd.PersistentFlags().StringVarP(&inputDir, "input", "i", "", "Input directory (env: FAKTURY_INPUT_DIR)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Output directory (env: FAKTURY_OUTPUT_DIR)")
}

func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}

	// Flags win over environment
	if inputDir != "" {
		loaded.InputDir = inputDir
	}
	if outputDir != "" {
		loaded.OutputDir = outputDir
	}

	if err := logger.Setup(loaded.GetLoggerConfig()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		logger.SetVerbose()
	}

	cfg = loaded
	return nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
