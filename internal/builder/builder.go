// Package builder turns one customer of a batch into the payload of the
// remote "nf" (new invoice) call.
package builder

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	money "github.com/ZdruzenieSTROM/faktury/internal/decimal"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
)

// Invoice-level fields filled from the batch settings
const (
	FieldDateIssue    = "f_date_issue"
	FieldDateDelivery = "f_date_delivery"
	FieldDateDue      = "f_date_due"
	FieldIssuedBy     = "f_issued_by"
	FieldType         = "f_type"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Line is a compiled invoice line
type Line struct {
	Text     string `json:"p_text"`
	Unit     string `json:"p_unit"`
	Price    string `json:"p_price"`
	Quantity string `json:"p_quantity"`
}

// Payload is the body of the remote "nf" call
type Payload struct {
	Destination map[string]string `json:"d"`
	Party       map[string]string `json:"o"`
	Invoice     map[string]string `json:"f"`
	Lines       []Line            `json:"p"`
}

// Request is a built invoice together with the values derived locally
type Request struct {
	Payload Payload
	Total   decimal.Decimal
	Subject string
}

// Build compiles the invoice request for a customer. Catalog codes are
// visited in sorted order and zero quantities are skipped.
func Build(c model.Customer, cfg model.BatchConfig, destinationID string) (*Request, error) {
	name := c.Name()

	codes := make([]string, 0, len(c.Quantities))
	for code := range c.Quantities {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	lines := make([]Line, 0, len(codes))
	totals := make([]decimal.Decimal, 0, len(codes))

	for _, code := range codes {
		item, ok := cfg.Catalog[code]
		if !ok {
			continue
		}

		raw := c.Quantities[code]
		quantity, err := money.FromString(raw)
		if err != nil {
			return nil, model.NewBuildError(name, code, "invalid quantity "+raw, err)
		}
		if quantity.IsZero() {
			continue
		}
		if !money.IsNonNegative(quantity) {
			return nil, model.NewBuildError(name, code, "negative quantity "+raw, nil)
		}

		text, err := ResolveTemplate(item.NameTemplate, c.Info)
		if err != nil {
			return nil, model.NewBuildError(name, code, "cannot resolve item name", err)
		}

		lines = append(lines, Line{
			Text:     text,
			Unit:     item.Unit,
			Price:    money.FormatExact(item.UnitPrice),
			Quantity: quantity.String(),
		})
		totals = append(totals, money.LineTotal(quantity, item.UnitPrice))
	}

	subject := ""
	if len(lines) > 0 {
		subject = lines[0].Text
	}

	return &Request{
		Payload: Payload{
			Destination: map[string]string{"d_id": destinationID},
			Party:       copyMap(c.Identity),
			Invoice:     invoiceFields(c, cfg),
			Lines:       lines,
		},
		Total:   money.Sum(totals),
		Subject: subject,
	}, nil
}

func invoiceFields(c model.Customer, cfg model.BatchConfig) map[string]string {
	f := map[string]string{
		FieldDateIssue:    cfg.DateIssue,
		FieldDateDelivery: cfg.DateDelivery,
		FieldDateDue:      cfg.DateDue,
		FieldIssuedBy:     cfg.Issuer,
	}
	if cfg.InvoiceType != "" {
		f[FieldType] = string(cfg.InvoiceType)
	}
	if cfg.Note != "" {
		f[model.FieldNote] = cfg.Note
	}
	if len(cfg.Tags) > 0 {
		tags := append([]string(nil), cfg.Tags...)
		sort.Strings(tags)
		f[model.FieldTags] = strings.Join(tags, ",")
	}
	// row overrides win over batch defaults
	for k, v := range c.Overrides {
		f[k] = v
	}
	return f
}

// ResolveTemplate substitutes {field} placeholders from values
func ResolveTemplate(tmpl string, values map[string]string) (string, error) {
	var missing []string
	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := values[key]
		if !ok {
			missing = append(missing, key)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", &MissingFieldsError{Fields: missing}
	}
	return out, nil
}

// MissingFieldsError lists template placeholders without a value
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing template fields: " + strings.Join(e.Fields, ", ")
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
