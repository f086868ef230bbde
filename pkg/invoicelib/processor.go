package invoicelib

import (
	"context"
	"io"
	"time"

	"github.com/ZdruzenieSTROM/faktury/internal/batch"
	"github.com/ZdruzenieSTROM/faktury/internal/builder"
	"github.com/ZdruzenieSTROM/faktury/internal/processor"
	"github.com/ZdruzenieSTROM/faktury/internal/remote"
)

type (
	// Report is the outcome of issuing a batch
	Report = processor.Report
	// Failure is one customer whose invoice was not created
	Failure = processor.Failure
	// Request is a compiled invoice with its local total and subject
	Request = builder.Request
)

// Options configures an Issuer
type Options struct {
	BaseURL       string
	APIKey        string
	Email         string
	DestinationID string
	// Test mode of the service; invoices are not real
	Debug   bool
	Timeout time.Duration
	// Directory for downloaded PDFs, empty disables downloads
	DownloadDir string
}

// DefaultOptions returns options pointing at the production service
func DefaultOptions() Options {
	return Options{
		BaseURL: remote.DefaultBaseURL,
		Timeout: remote.DefaultTimeout,
	}
}

// LoadBatch reads NAME.csv and NAME.yaml from dir
func LoadBatch(dir, name string) (*Batch, error) {
	return batch.LoadFromFiles(dir, name, time.Now())
}

// ReadBatch assembles a batch from a customers table and a settings document
func ReadBatch(name string, customers, settings io.Reader) (*Batch, error) {
	cfg, err := batch.LoadConfig(settings, time.Now())
	if err != nil {
		return nil, err
	}
	rows, err := batch.ReadCustomerRows(customers)
	if err != nil {
		return nil, err
	}
	return batch.New(name, *cfg, rows), nil
}

// Validate checks a batch without any I/O
func Validate(b *Batch) error {
	return batch.Validate(b)
}

// Preview compiles the invoice of every customer without sending it. The
// first build error is returned.
func Preview(b *Batch, destinationID string) ([]*Request, error) {
	if err := batch.Validate(b); err != nil {
		return nil, err
	}

	requests := make([]*Request, 0, len(b.Customers))
	for _, c := range b.Customers {
		req, err := builder.Build(c, b.Config, destinationID)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// Issuer issues batches over one authenticated session
type Issuer struct {
	pipeline *processor.Pipeline
}

// NewIssuer opens a session with the service
func NewIssuer(ctx context.Context, opts Options) (*Issuer, error) {
	session, err := remote.NewSession(ctx, remote.Config{
		BaseURL: opts.BaseURL,
		APIKey:  opts.APIKey,
		Email:   opts.Email,
		Debug:   opts.Debug,
		Timeout: opts.Timeout,
	})
	if err != nil {
		return nil, err
	}

	pipelineOpts := []processor.Option{processor.WithDestinationID(opts.DestinationID)}
	if opts.DownloadDir != "" {
		pipelineOpts = append(pipelineOpts, processor.WithDownload(opts.DownloadDir))
	}

	return &Issuer{pipeline: processor.NewPipeline(session, pipelineOpts...)}, nil
}

// Issue creates the invoices of a batch, one customer at a time
func (i *Issuer) Issue(ctx context.Context, b *Batch) *Report {
	return i.pipeline.Run(ctx, b)
}
