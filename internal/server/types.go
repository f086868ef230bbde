package server

import (
	"github.com/shopspring/decimal"

	"github.com/ZdruzenieSTROM/faktury/internal/builder"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
)

// BatchRequest is the body of the validate and preview endpoints
type BatchRequest struct {
	Config    model.BatchConfig   `json:"config"`
	Customers []map[string]string `json:"customers"`
}

// ValidationResponse is the response for validate endpoint
type ValidationResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// PreviewInvoice is one built invoice of a preview
type PreviewInvoice struct {
	Customer string           `json:"customer"`
	Payload  *builder.Payload `json:"payload,omitempty"`
	Total    decimal.Decimal  `json:"total"`
	Subject  string           `json:"subject"`
	Error    string           `json:"error,omitempty"`
}

// PreviewResponse is the response for preview endpoint
type PreviewResponse struct {
	Invoices []PreviewInvoice `json:"invoices"`
	Total    decimal.Decimal  `json:"total"`
}

// NumberResponse is the response for the invoice number endpoint
type NumberResponse struct {
	Number   string            `json:"number"`
	Type     model.InvoiceType `json:"type"`
	Sequence int               `json:"sequence"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}
