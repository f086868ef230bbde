package remote

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Remote method names
const (
	MethodInit     = "init"
	MethodCreate   = "nf"
	MethodMarkPaid = "uf"
	MethodDownload = "detail-subor"
	MethodURL      = "zf"
	MethodStatus   = "status"
	MethodList     = "list/issued"
)

// Text decodes a JSON string or number into a string
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// Created identifies an invoice returned by the "nf" call
type Created struct {
	Code   Text `json:"code"`
	Number Text `json:"number"`
}

// Summary is one invoice of the "list/issued" listing
type Summary struct {
	Code         Text            `json:"code"`
	Number       Text            `json:"invoice_number"`
	Customer     string          `json:"customer"`
	DateIssue    string          `json:"invoice_date_issue"`
	DateDelivery string          `json:"invoice_date_delivery"`
	DateDue      string          `json:"invoice_date_due"`
	Amount       decimal.Decimal `json:"invoice_amount"`
}

type listResponse struct {
	Invoices []Summary `json:"invoices"`
}

// DetailItem is one line of an invoice detail
type DetailItem struct {
	Name string `json:"item_name"`
}

// Detail is the "status" response used to enrich a listed invoice
type Detail struct {
	Street   string       `json:"customer_street"`
	Zip      Text         `json:"customer_zip"`
	City     string       `json:"customer_city"`
	Items    []DetailItem `json:"items"`
	DatePaid string       `json:"date_paid"`
}

// Subject joins the item names of the detail
func (d Detail) Subject() string {
	names := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		names = append(names, it.Name)
	}
	return strings.Join(names, ",")
}

type urlResponse struct {
	URL string `json:"url"`
}
