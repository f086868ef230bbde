package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZdruzenieSTROM/faktury/internal/document"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about downloaded invoice documents",
	Long: `Display information about invoice PDFs saved by "vytvor --download".

Shows:
  - File size and modification time
  - Page count of the PDF
  - Invoice type and sequence number derived from the file name

Examples:
  faktury info output/jesen/0012024.pdf
  faktury info output/jesen/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, file := range args {
		if !printFileInfo(file) {
			failed++
		}
		fmt.Println()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(args))
	}
	return nil
}

func printFileInfo(filePath string) bool {
	fmt.Printf("File: %s\n", filePath)

	stat, err := os.Stat(filePath)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return false
	}

	fmt.Printf("  Size: %d bytes\n", stat.Size())
	fmt.Printf("  Modified: %s\n", stat.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Printf("  Error reading file: %v\n", err)
		return false
	}

	info, err := document.Inspect(data)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return false
	}
	fmt.Printf("  Pages: %d\n", info.Pages)

	number := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	typ, seq, err := model.ParseInvoiceNumber(number)
	if err != nil {
		printVerbose("  %v\n", err)
		return true
	}
	fmt.Printf("  Invoice: %s\n", number)
	fmt.Printf("  Type: %s\n", typ)
	fmt.Printf("  Sequence: %d\n", seq)
	return true
}
