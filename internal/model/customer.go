package model

import (
	"strings"
)

// Field prefixes of a customer row
const (
	PrefixIdentity = "o_"
	PrefixInfo     = "i_"
	PrefixOverride = "f_"
)

// Well-known customer fields
const (
	FieldName     = "o_name"
	FieldStreet   = "o_street"
	FieldZip      = "o_zip"
	FieldCity     = "o_city"
	FieldDatePaid = "i_date_paid"
	FieldPaid     = "f_paid"
	FieldNote     = "f_note"
	FieldTags     = "f_tags"
)

// Customer is a customer row split into its field groups. Only non-empty
// values are kept, so a missing key means the column was blank.
type Customer struct {
	// Identity holds the billing party fields (o_*)
	Identity map[string]string
	// Info holds values for name templates and the paid date (i_*)
	Info map[string]string
	// Overrides holds invoice-level fields sent as is (f_*)
	Overrides map[string]string
	// Quantities holds requested quantity per catalog code
	Quantities map[string]string
	// Extra holds columns that are neither prefixed nor catalog codes
	Extra map[string]string
}

// ParseCustomerRow splits a flat row into field groups
func ParseCustomerRow(row map[string]string, catalog Catalog) Customer {
	c := Customer{
		Identity:   map[string]string{},
		Info:       map[string]string{},
		Overrides:  map[string]string{},
		Quantities: map[string]string{},
		Extra:      map[string]string{},
	}

	for key, value := range row {
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}

		switch {
		case strings.HasPrefix(key, PrefixIdentity):
			c.Identity[key] = value
		case strings.HasPrefix(key, PrefixInfo):
			c.Info[key] = value
		case strings.HasPrefix(key, PrefixOverride):
			c.Overrides[key] = value
		default:
			if _, ok := catalog[key]; ok {
				c.Quantities[key] = value
			} else {
				c.Extra[key] = value
			}
		}
	}

	return c
}

// Name returns the billing party name, empty if missing
func (c Customer) Name() string {
	return c.Identity[FieldName]
}

// DatePaid returns the paid date, empty if missing
func (c Customer) DatePaid() string {
	return c.Info[FieldDatePaid]
}

// MarkedPaid reports whether the row carries the paid flag
func (c Customer) MarkedPaid() bool {
	_, ok := c.Overrides[FieldPaid]
	return ok
}

// DisplayName renders "name, street, zip city" as printed on reports
func (c Customer) DisplayName() string {
	return FormatPayer(c.Identity[FieldName], c.Identity[FieldStreet], c.Identity[FieldZip], c.Identity[FieldCity])
}

// FormatPayer joins payer address parts the way reports show them
func FormatPayer(name, street, zip, city string) string {
	return name + ", " + street + ", " + strings.TrimSpace(zip+" "+city)
}
