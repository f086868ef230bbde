package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ZdruzenieSTROM/faktury/internal/batch"
	"github.com/ZdruzenieSTROM/faktury/internal/ledger"
	"github.com/ZdruzenieSTROM/faktury/internal/logger"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
	"github.com/ZdruzenieSTROM/faktury/internal/processor"
	"github.com/ZdruzenieSTROM/faktury/internal/remote"
)

var (
	download     bool
	exportLedger bool
)

var createCmd = &cobra.Command{
	Use:   "vytvor NAME",
	Short: "Issue one invoice per customer of a batch",
	Long: `Validate the batch NAME and issue its invoices one customer at a time.

A customer that fails does not stop the run. Invoices issued before it stay
issued. The results table is written to OUTPUT/NAME.csv and the command
exits non-zero when any customer failed.

Examples:
  faktury vytvor jesen --debug
  faktury vytvor jesen --download --export`,
	Aliases: []string{"create"},
	Args:    cobra.ExactArgs(1),
	RunE:    runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().BoolVar(&download, "download", false, "Download the PDF of every issued invoice to OUTPUT/NAME/")
	createCmd.Flags().BoolVar(&exportLedger, "export", false, "Also export ledger files of the issued invoices")
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := cfg.ValidateRemote(); err != nil {
		return err
	}

	b, err := batch.LoadFromFiles(cfg.InputDir, name, time.Now())
	if err != nil {
		return err
	}
	printVerbose("Loaded batch %s with %d customers\n", name, len(b.Customers))

	// An invalid batch never reaches the service, not even its init call
	if err := batch.Validate(b); err != nil {
		return err
	}

	// Stop between customers on interrupt
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	log := logger.WithRunID(logger.WithComponent("vytvor"), runID)
	log.Info().Str("batch", name).Bool("debug", debug).Int("customers", len(b.Customers)).Msg("run started")

	session, err := remote.NewSession(ctx, cfg.RemoteConfig(debug),
		remote.WithLogger(logger.WithRunID(logger.WithComponent("remote"), runID)))
	if err != nil {
		return err
	}

	opts := []processor.Option{
		processor.WithDestinationID(cfg.DestinationID),
		processor.WithLogger(log),
	}
	if download {
		opts = append(opts, processor.WithDownload(cfg.OutputDir))
	}

	report := processor.NewPipeline(session, opts...).Run(ctx, b)
	if report.Err != nil {
		return report.Err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	resultsPath := filepath.Join(cfg.OutputDir, name+".csv")
	if err := ledger.WriteResults(resultsPath, report.Records); err != nil {
		return err
	}
	printVerbose("Results written to %s\n", resultsPath)

	if exportLedger && len(report.Records) > 0 {
		paths, err := exportRecords(report.Records, b.Config)
		if err != nil {
			return err
		}
		for _, p := range paths {
			printVerbose("Ledger written to %s\n", p)
		}
	}

	fmt.Println(report.Summary())
	log.Info().
		Int("created", len(report.Records)).
		Int("failed", len(report.Failures)).
		Msg("run finished")

	if !report.OK() {
		return fmt.Errorf("%d of %d invoices failed", len(report.Failures), len(b.Customers))
	}
	return nil
}

func exportRecords(records []model.InvoiceRecord, batchConfig model.BatchConfig) ([]string, error) {
	entries := make([]model.LedgerEntry, 0, len(records))
	for _, rec := range records {
		entry, err := ledger.EntryFromRecord(rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return ledger.Export(cfg.OutputDir, entries, batchConfig.DateIssue, batchConfig.DateIssue)
}
