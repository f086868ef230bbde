package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZdruzenieSTROM/faktury/internal/server"
)

var (
	serverAddr   string
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local preview API",
	Long: `Start an HTTP API for checking batches before they are issued.
The server never calls the invoicing service.

The API provides endpoints for:
  - POST /api/v1/validate         - Validate a batch
  - POST /api/v1/preview          - Compile the invoices of a batch
  - GET  /api/v1/number/:number   - Parse an invoice number
  - GET  /health                  - Health check

Examples:
  # Start server on default port
  faktury serve

  # Start in debug mode
  faktury serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 30*time.Second, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:       serverAddr,
		DestinationID: cfg.DestinationID,
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
		Debug:         debug,
	}

	srv := server.NewServer(config)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting server on %s\n", serverAddr)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	fmt.Println("Server stopped")
	return nil
}
