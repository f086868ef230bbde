// Package ledger writes the per-type reconciliation exports ("denník") and
// the results table of a creation run.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	money "github.com/ZdruzenieSTROM/faktury/internal/decimal"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
	"github.com/ZdruzenieSTROM/faktury/internal/remote"
)

// Header is the fixed column order of a reconciliation export
var Header = []string{
	"Poradové číslo",
	"Číslo faktúry",
	"Odberateľ",
	"Dátum vystavenia",
	"Dátum dodania",
	"Dátum splatnosti",
	"Predmet",
	"Suma",
	"Dátum úhrady",
}

// FileName returns the export file name of one invoice type
func FileName(typ model.InvoiceType, from, to string) string {
	return fmt.Sprintf("export_dennik_%s_%s_%s.csv", typ, from, to)
}

// EntryFromRecord converts a created invoice to a ledger entry
func EntryFromRecord(rec model.InvoiceRecord) (model.LedgerEntry, error) {
	typ, seq, err := model.ParseInvoiceNumber(rec.InvoiceNumber)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	return model.LedgerEntry{
		Sequence:      seq,
		InvoiceNumber: rec.InvoiceNumber,
		Payer:         rec.Payer,
		DateIssue:     rec.DateIssue,
		DateDelivery:  rec.DateDelivery,
		DateDue:       rec.DateDue,
		Subject:       rec.Subject,
		Amount:        rec.Total,
		DatePaid:      rec.DatePaid,
		Type:          typ,
	}, nil
}

// EntryFromListing converts a listed invoice and its detail to a ledger entry
func EntryFromListing(s remote.Summary, d remote.Detail) (model.LedgerEntry, error) {
	number := s.Number.String()
	typ, seq, err := model.ParseInvoiceNumber(number)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	return model.LedgerEntry{
		Sequence:      seq,
		InvoiceNumber: number,
		Payer:         model.FormatPayer(s.Customer, d.Street, d.Zip.String(), d.City),
		DateIssue:     s.DateIssue,
		DateDelivery:  s.DateDelivery,
		DateDue:       s.DateDue,
		Subject:       d.Subject(),
		Amount:        s.Amount,
		DatePaid:      d.DatePaid,
		Type:          typ,
	}, nil
}

// Group splits entries by invoice type, each group sorted by sequence
func Group(entries []model.LedgerEntry) map[model.InvoiceType][]model.LedgerEntry {
	groups := make(map[model.InvoiceType][]model.LedgerEntry)
	for _, e := range entries {
		groups[e.Type] = append(groups[e.Type], e)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			if g[i].Sequence != g[j].Sequence {
				return g[i].Sequence < g[j].Sequence
			}
			return g[i].InvoiceNumber < g[j].InvoiceNumber
		})
	}
	return groups
}

// Export writes one file per invoice type present in entries and returns
// the written paths in type order
func Export(dir string, entries []model.LedgerEntry, from, to string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	groups := Group(entries)
	var paths []string

	for _, typ := range model.InvoiceTypes {
		group, ok := groups[typ]
		if !ok {
			continue
		}

		path := filepath.Join(dir, FileName(typ, from, to))
		if err := writeEntries(path, group); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeEntries(path string, entries []model.LedgerEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Sequence),
			e.InvoiceNumber,
			e.Payer,
			model.LocalizeDate(e.DateIssue),
			model.LocalizeDate(e.DateDelivery),
			model.LocalizeDate(e.DateDue),
			e.Subject,
			money.Format(e.Amount),
			model.LocalizeDate(e.DatePaid),
		})
	}
	return writeCSV(path, Header, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
