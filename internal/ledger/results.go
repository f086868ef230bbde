package ledger

import (
	money "github.com/ZdruzenieSTROM/faktury/internal/decimal"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
)

// ResultsHeader is the column order of the results table
var ResultsHeader = []string{
	"cislo_faktury",
	"odberatel",
	"datum_vystavenia",
	"datum_dodania",
	"datum_splatnosti",
	"predmet",
	"suma",
	"datum_uhrady",
	"kod_faktury",
	"upozornenie",
	"dokument",
}

// WriteResults writes the results table of a creation run
func WriteResults(path string, records []model.InvoiceRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.InvoiceNumber,
			r.Payer,
			r.DateIssue,
			r.DateDelivery,
			r.DateDue,
			r.Subject,
			money.Format(r.Total),
			r.DatePaid,
			r.RemoteCode,
			r.Warning,
			r.DocumentPath,
		})
	}
	return writeCSV(path, ResultsHeader, rows)
}
