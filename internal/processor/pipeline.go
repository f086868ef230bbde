package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ZdruzenieSTROM/faktury/internal/batch"
	"github.com/ZdruzenieSTROM/faktury/internal/builder"
	"github.com/ZdruzenieSTROM/faktury/internal/document"
	"github.com/ZdruzenieSTROM/faktury/internal/logger"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
	"github.com/ZdruzenieSTROM/faktury/internal/remote"
)

// Invoicer is the part of the remote session used to issue invoices
type Invoicer interface {
	CreateInvoice(ctx context.Context, payload builder.Payload) (*remote.Created, error)
	MarkPaid(ctx context.Context, code, date string) error
	DownloadDocument(ctx context.Context, code string) ([]byte, error)
}

// DocumentFetcher is implemented by invoicers that can also fetch a
// document through its public URL
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, code string) ([]byte, error)
}

// InspectFunc checks a downloaded document
type InspectFunc func(data []byte) (*document.Info, error)

// Pipeline issues the invoices of a batch one customer at a time
type Pipeline struct {
	invoicer      Invoicer
	destinationID string
	downloadDir   string
	inspect       InspectFunc
	log           zerolog.Logger
}

// Option configures the pipeline
type Option func(*Pipeline)

// WithDestinationID sets the merchant id sent as d_id
func WithDestinationID(id string) Option {
	return func(p *Pipeline) {
		p.destinationID = id
	}
}

// WithDownload stores every created document under dir
func WithDownload(dir string) Option {
	return func(p *Pipeline) {
		p.downloadDir = dir
	}
}

// WithInspector replaces the document check run before saving
func WithInspector(fn InspectFunc) Option {
	return func(p *Pipeline) {
		p.inspect = fn
	}
}

// WithLogger sets the pipeline logger
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// NewPipeline creates a pipeline issuing invoices through invoicer
func NewPipeline(invoicer Invoicer, opts ...Option) *Pipeline {
	p := &Pipeline{
		invoicer: invoicer,
		inspect:  document.Inspect,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Failure is a customer whose invoice was not created
type Failure struct {
	Customer string
	Err      error
}

// Report is the outcome of a run
type Report struct {
	Records  []model.InvoiceRecord
	Failures []Failure
	// Err is set when the batch was rejected before any remote call
	Err error
}

// OK reports whether every customer got an invoice
func (r *Report) OK() bool {
	return r.Err == nil && len(r.Failures) == 0
}

// Warnings returns the records that carry a warning
func (r *Report) Warnings() []model.InvoiceRecord {
	var out []model.InvoiceRecord
	for _, rec := range r.Records {
		if rec.Warning != "" {
			out = append(out, rec)
		}
	}
	return out
}

// Summary renders a human readable summary of the run
func (r *Report) Summary() string {
	if r.Err != nil {
		return r.Err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d invoices created, %d failed", len(r.Records), len(r.Failures))
	if w := r.Warnings(); len(w) > 0 {
		fmt.Fprintf(&b, ", %d with warnings", len(w))
	}
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "\n  - %s: %v", f.Customer, f.Err)
	}
	for _, rec := range r.Warnings() {
		fmt.Fprintf(&b, "\n  ! %s (%s): %s", rec.InvoiceNumber, rec.Payer, rec.Warning)
	}
	return b.String()
}

// Run validates the batch and issues one invoice per customer. A failing
// customer does not stop the run; invoices created before it stay created.
func (p *Pipeline) Run(ctx context.Context, b *model.Batch) *Report {
	report := &Report{}

	if err := batch.Validate(b); err != nil {
		report.Err = err
		return report
	}

	for _, c := range b.Customers {
		if err := ctx.Err(); err != nil {
			report.Failures = append(report.Failures, Failure{Customer: c.Name(), Err: err})
			continue
		}

		record, err := p.issue(ctx, c, b)
		if err != nil {
			p.log.Error().Err(err).Str("customer", c.Name()).Msg("invoice not created")
			report.Failures = append(report.Failures, Failure{Customer: c.Name(), Err: err})
			continue
		}

		p.log.Info().
			Str("customer", c.Name()).
			Str("number", record.InvoiceNumber).
			Str("total", record.Total.StringFixed(2)).
			Msg("invoice created")
		report.Records = append(report.Records, *record)
	}

	return report
}

func (p *Pipeline) issue(ctx context.Context, c model.Customer, b *model.Batch) (*model.InvoiceRecord, error) {
	req, err := builder.Build(c, b.Config, p.destinationID)
	if err != nil {
		return nil, err
	}

	created, err := p.invoicer.CreateInvoice(ctx, req.Payload)
	if err != nil {
		return nil, err
	}

	record := NewRecord(created, c, b.Config, req)
	var warnings []string

	if paid := c.DatePaid(); paid != "" {
		if err := p.invoicer.MarkPaid(ctx, record.RemoteCode, paid); err != nil {
			p.log.Warn().Err(err).Str("number", record.InvoiceNumber).Msg("mark paid failed")
			warnings = append(warnings, "mark paid failed: "+err.Error())
		}
	}

	if p.downloadDir != "" {
		path, err := p.download(ctx, record, b.Name)
		if err != nil {
			p.log.Warn().Err(err).Str("number", record.InvoiceNumber).Msg("document download failed")
			warnings = append(warnings, "document: "+err.Error())
		}
		record.DocumentPath = path
	}

	record.Warning = strings.Join(warnings, "; ")
	return &record, nil
}

func (p *Pipeline) download(ctx context.Context, record model.InvoiceRecord, batchName string) (string, error) {
	data, err := p.invoicer.DownloadDocument(ctx, record.RemoteCode)
	if err != nil {
		return "", err
	}
	if !document.IsPDF(data) {
		data = p.fetchFallback(ctx, record, data)
	}

	info, err := p.inspect(data)
	if err != nil {
		if errors.Is(err, document.ErrNotPDF) {
			return "", err
		}
		// keep what the service sent so it can be checked by hand
		path, saveErr := document.Save(filepath.Join(p.downloadDir, batchName), record.InvoiceNumber, data)
		if saveErr != nil {
			return "", saveErr
		}
		return path, err
	}

	p.log.Debug().Int("pages", info.Pages).Int("size", info.Size).Str("number", record.InvoiceNumber).Msg("document downloaded")
	return document.Save(filepath.Join(p.downloadDir, batchName), record.InvoiceNumber, data)
}

// fetchFallback retries through the public document URL, keeping the
// original body when that fails too
func (p *Pipeline) fetchFallback(ctx context.Context, record model.InvoiceRecord, data []byte) []byte {
	fetcher, ok := p.invoicer.(DocumentFetcher)
	if !ok {
		return data
	}

	fetched, err := fetcher.FetchDocument(ctx, record.RemoteCode)
	if err != nil {
		p.log.Debug().Err(err).Str("number", record.InvoiceNumber).Msg("document URL fallback failed")
		return data
	}
	return fetched
}

// NewRecord maps a created invoice to the record written to the results
// table
func NewRecord(created *remote.Created, c model.Customer, cfg model.BatchConfig, req *builder.Request) model.InvoiceRecord {
	return model.InvoiceRecord{
		InvoiceNumber: created.Number.String(),
		Payer:         c.DisplayName(),
		DateIssue:     cfg.DateIssue,
		DateDelivery:  cfg.DateDelivery,
		DateDue:       cfg.DateDue,
		Subject:       req.Subject,
		Total:         req.Total,
		DatePaid:      c.DatePaid(),
		RemoteCode:    created.Code.String(),
	}
}
