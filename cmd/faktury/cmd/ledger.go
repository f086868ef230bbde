package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZdruzenieSTROM/faktury/internal/ledger"
	"github.com/ZdruzenieSTROM/faktury/internal/logger"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
	"github.com/ZdruzenieSTROM/faktury/internal/remote"
)

var workers int

var ledgerCmd = &cobra.Command{
	Use:   "dennik FROM TO",
	Short: "Export ledger files of invoices issued between two dates",
	Long: `List invoices issued between FROM and TO (day.month.year) and write
one ledger file per invoice type to the output directory.

Examples:
  faktury dennik 1.1.2024 31.3.2024
  faktury dennik 1.1.2024 31.12.2024 --workers 8`,
	Aliases: []string{"ledger"},
	Args:    cobra.ExactArgs(2),
	RunE:    runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().IntVar(&workers, "workers", ledger.DefaultWorkers, "Parallel detail requests")
}

func runLedger(cmd *cobra.Command, args []string) error {
	from, to := args[0], args[1]

	fromDate, err := model.ParseDate(from)
	if err != nil {
		return fmt.Errorf("FROM: %w", err)
	}
	toDate, err := model.ParseDate(to)
	if err != nil {
		return fmt.Errorf("TO: %w", err)
	}
	if fromDate.After(toDate) {
		return fmt.Errorf("FROM %s is later than TO %s", from, to)
	}

	if err := cfg.ValidateRemote(); err != nil {
		return err
	}

	ctx := cmd.Context()

	session, err := remote.NewSession(ctx, cfg.RemoteConfig(debug),
		remote.WithLogger(logger.WithComponent("remote")))
	if err != nil {
		return err
	}

	entries, err := ledger.Collect(ctx, session, from, to, workers)
	if err != nil {
		return err
	}
	printVerbose("Collected %d invoices\n", len(entries))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	paths, err := ledger.Export(cfg.OutputDir, entries, from, to)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}
