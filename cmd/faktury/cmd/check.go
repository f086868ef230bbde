package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZdruzenieSTROM/faktury/internal/batch"
	"github.com/ZdruzenieSTROM/faktury/internal/builder"
	"github.com/ZdruzenieSTROM/faktury/internal/decimal"
)

var showPayload bool

var checkCmd = &cobra.Command{
	Use:   "skontroluj NAME",
	Short: "Validate a batch and compile its invoices without issuing them",
	Long: `Load the batch NAME, validate it and compile every invoice locally.
Nothing is sent to the invoicing service.

Examples:
  faktury skontroluj jesen
  faktury skontroluj jesen --payload`,
	Aliases: []string{"check"},
	Args:    cobra.ExactArgs(1),
	RunE:    runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&showPayload, "payload", false, "Print the compiled request of every invoice as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	b, err := batch.LoadFromFiles(cfg.InputDir, args[0], time.Now())
	if err != nil {
		return err
	}

	if err := batch.Validate(b); err != nil {
		fmt.Printf("✗ %s: INVALID\n  - %v\n", b.Name, err)
		return fmt.Errorf("batch %s is invalid", b.Name)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	total := decimal.Zero
	failed := 0
	for _, c := range b.Customers {
		req, err := builder.Build(c, b.Config, cfg.DestinationID)
		if err != nil {
			failed++
			fmt.Printf("✗ %s: %v\n", c.Name(), err)
			continue
		}

		total = total.Add(req.Total)
		fmt.Printf("✓ %s: %s (%s)\n", c.Name(), decimal.Format(req.Total), req.Subject)
		if showPayload {
			if err := encoder.Encode(req.Payload); err != nil {
				return err
			}
		}
	}

	fmt.Printf("%d customers, total %s\n", len(b.Customers), decimal.Format(total))
	if failed > 0 {
		return fmt.Errorf("%d invoices cannot be built", failed)
	}
	return nil
}
