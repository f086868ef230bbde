package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvoiceType represents the kind of document issued
type InvoiceType string

const (
	InvoiceTypeInvoice        InvoiceType = "invoice"
	InvoiceTypeCreditNote     InvoiceType = "credit_note"
	InvoiceTypeDebitNote      InvoiceType = "debit_note"
	InvoiceTypeForeignInvoice InvoiceType = "foreign_invoice"
)

// InvoiceTypes lists every type in report order
var InvoiceTypes = []InvoiceType{
	InvoiceTypeInvoice,
	InvoiceTypeCreditNote,
	InvoiceTypeDebitNote,
	InvoiceTypeForeignInvoice,
}

// ParseInvoiceType parses a settings value; empty means an ordinary invoice
func ParseInvoiceType(s string) (InvoiceType, error) {
	if s == "" {
		return InvoiceTypeInvoice, nil
	}
	for _, t := range InvoiceTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown invoice type %q", s)
}

// LineItemDefinition is one catalog entry of billable items
type LineItemDefinition struct {
	NameTemplate string          `json:"name_template"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// Catalog maps item code to its definition
type Catalog map[string]LineItemDefinition

// BatchConfig holds the settings shared by every invoice of a batch
type BatchConfig struct {
	Issuer       string      `json:"issuer"`
	DateDelivery string      `json:"date_delivery"`
	DateIssue    string      `json:"date_issue"`
	DateDue      string      `json:"date_due"`
	InvoiceType  InvoiceType `json:"invoice_type"`
	Tags         []string    `json:"tags,omitempty"`
	Note         string      `json:"note,omitempty"`
	Catalog      Catalog     `json:"catalog"`
}

// Batch is the full set of customers for one run
type Batch struct {
	Name      string
	Config    BatchConfig
	Customers []Customer
}

// InvoiceRecord is the outcome of one successfully created invoice
type InvoiceRecord struct {
	InvoiceNumber string          `json:"invoice_number"`
	Payer         string          `json:"payer"`
	DateIssue     string          `json:"date_issue"`
	DateDelivery  string          `json:"date_delivery"`
	DateDue       string          `json:"date_due"`
	Subject       string          `json:"subject"`
	Total         decimal.Decimal `json:"total"`
	DatePaid      string          `json:"date_paid,omitempty"`
	RemoteCode    string          `json:"remote_code"`
	Warning       string          `json:"warning,omitempty"`
	DocumentPath  string          `json:"document_path,omitempty"`
}

// LedgerEntry is one row of a reconciliation export
type LedgerEntry struct {
	Sequence      int
	InvoiceNumber string
	Payer         string
	DateIssue     string
	DateDelivery  string
	DateDue       string
	Subject       string
	Amount        decimal.Decimal
	DatePaid      string
	Type          InvoiceType
}
