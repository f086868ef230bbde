// Package invoicelib provides a public API for issuing invoice batches
// through faktury-online.com.
//
// Example usage:
//
//	b, err := invoicelib.LoadBatch("input", "jesen")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	issuer, err := invoicelib.NewIssuer(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report := issuer.Issue(ctx, b)
//	fmt.Println(report.Summary())
package invoicelib

import "github.com/ZdruzenieSTROM/faktury/internal/model"

// Re-export core types for public API
type (
	Batch              = model.Batch
	BatchConfig        = model.BatchConfig
	Catalog            = model.Catalog
	LineItemDefinition = model.LineItemDefinition
	Customer           = model.Customer
	InvoiceRecord      = model.InvoiceRecord
	LedgerEntry        = model.LedgerEntry
	InvoiceType        = model.InvoiceType
)

// Re-export invoice types
const (
	InvoiceTypeInvoice        = model.InvoiceTypeInvoice
	InvoiceTypeCreditNote     = model.InvoiceTypeCreditNote
	InvoiceTypeDebitNote      = model.InvoiceTypeDebitNote
	InvoiceTypeForeignInvoice = model.InvoiceTypeForeignInvoice
)

// Re-export error types
type (
	ValidationError = model.ValidationError
	BuildError      = model.BuildError
	RemoteError     = model.RemoteError
	AuthError       = model.AuthError
	NumberingError  = model.NumberingError
)

// ParseInvoiceNumber derives the document type and sequence number from an
// invoice number
func ParseInvoiceNumber(number string) (InvoiceType, int, error) {
	return model.ParseInvoiceNumber(number)
}
