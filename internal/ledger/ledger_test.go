package ledger_test

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZdruzenieSTROM/faktury/internal/ledger"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
	"github.com/ZdruzenieSTROM/faktury/internal/remote"
	"github.com/ZdruzenieSTROM/faktury/internal/remote/remotetest"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func entry(number string, seq int, typ model.InvoiceType) model.LedgerEntry {
	return model.LedgerEntry{
		Sequence:      seq,
		InvoiceNumber: number,
		Payer:         "Jan Novák, Hlavná 1, 811 01 Bratislava",
		DateIssue:     "2024-03-07",
		DateDelivery:  "2024-03-07",
		DateDue:       "2024-04-07",
		Subject:       "Item A",
		Amount:        decimal.RequireFromString("37.5"),
		Type:          typ,
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "export_dennik_credit_note_2024-01-01_2024-12-31.csv",
		ledger.FileName(model.InvoiceTypeCreditNote, "2024-01-01", "2024-12-31"))
}

func TestEntryFromRecord(t *testing.T) {
	e, err := ledger.EntryFromRecord(model.InvoiceRecord{
		InvoiceNumber: "DOB0452024",
		Payer:         "Jan",
		DateIssue:     "01.03.2024",
		Total:         decimal.RequireFromString("20.00"),
		DatePaid:      "15.02.2024",
	})
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceTypeCreditNote, e.Type)
	assert.Equal(t, 45, e.Sequence)
	assert.Equal(t, "15.02.2024", e.DatePaid)

	_, err = ledger.EntryFromRecord(model.InvoiceRecord{InvoiceNumber: "7"})
	var numErr *model.NumberingError
	assert.True(t, errors.As(err, &numErr))
}

func TestEntryFromListing(t *testing.T) {
	e, err := ledger.EntryFromListing(remote.Summary{
		Code:      "c1",
		Number:    "ZF1232024",
		Customer:  "Acme GmbH",
		DateIssue: "2024-03-07",
		Amount:    decimal.RequireFromString("100"),
	}, remote.Detail{
		Street: "Hauptstraße 1",
		Zip:    "10115",
		City:   "Berlin",
		Items:  []remote.DetailItem{{Name: "Licencia"}, {Name: "Podpora"}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceTypeForeignInvoice, e.Type)
	assert.Equal(t, 123, e.Sequence)
	assert.Equal(t, "Acme GmbH, Hauptstraße 1, 10115 Berlin", e.Payer)
	assert.Equal(t, "Licencia,Podpora", e.Subject)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	entries := []model.LedgerEntry{
		entry("0032024", 3, model.InvoiceTypeInvoice),
		entry("DOB0452024", 45, model.InvoiceTypeCreditNote),
		entry("0012024", 1, model.InvoiceTypeInvoice),
		entry("T0072024", 7, model.InvoiceTypeDebitNote),
	}
	entries[0].DatePaid = "2024-03-10"

	paths, err := ledger.Export(dir, entries, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "export_dennik_invoice_2024-03-01_2024-03-31.csv"),
		filepath.Join(dir, "export_dennik_credit_note_2024-03-01_2024-03-31.csv"),
		filepath.Join(dir, "export_dennik_debit_note_2024-03-01_2024-03-31.csv"),
	}, paths)

	rows := readCSV(t, paths[0])
	require.Len(t, rows, 3)
	assert.Equal(t, ledger.Header, rows[0])
	assert.Equal(t, []string{
		"1", "0012024", "Jan Novák, Hlavná 1, 811 01 Bratislava",
		"7.3.2024", "7.3.2024", "7.4.2024", "Item A", "37.50", "",
	}, rows[1])
	assert.Equal(t, "3", rows[2][0])
	assert.Equal(t, "10.3.2024", rows[2][8])

	credit := readCSV(t, paths[1])
	require.Len(t, credit, 2)
	assert.Equal(t, "45", credit[1][0])
}

func TestExport_Empty(t *testing.T) {
	paths, err := ledger.Export(t.TempDir(), nil, "a", "b")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jar.csv")
	err := ledger.WriteResults(path, []model.InvoiceRecord{{
		InvoiceNumber: "0012024",
		Payer:         "Jan Novák, , ",
		DateIssue:     "01.03.2024",
		DateDelivery:  "01.03.2024",
		DateDue:       "01.04.2024",
		Subject:       "Item A",
		Total:         decimal.RequireFromString("20"),
		RemoteCode:    "code-1",
		Warning:       "mark paid failed",
	}})
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, ledger.ResultsHeader, rows[0])
	assert.Equal(t, []string{
		"0012024", "Jan Novák, , ", "01.03.2024", "01.03.2024", "01.04.2024",
		"Item A", "20.00", "", "code-1", "mark paid failed", "",
	}, rows[1])
}

func addInvoice(fake *remotetest.Server, code, number string) {
	fake.AddInvoice(map[string]any{
		"code":                  code,
		"invoice_number":        number,
		"customer":              "Customer " + code,
		"invoice_date_issue":    "2024-03-07",
		"invoice_date_delivery": "2024-03-07",
		"invoice_date_due":      "2024-04-07",
		"invoice_amount":        10,
	}, map[string]any{
		"customer_street": "Street",
		"customer_zip":    "81101",
		"customer_city":   "Bratislava",
		"items":           []map[string]any{{"item_name": "Item " + code}},
	})
}

func TestCollect(t *testing.T) {
	fake := remotetest.NewServer("k")
	defer fake.Close()

	addInvoice(fake, "c3", "0032024")
	addInvoice(fake, "c1", "0012024")
	addInvoice(fake, "c2", "DOB0022024")

	session, err := remote.NewSession(context.Background(), remote.Config{BaseURL: fake.URL(), APIKey: "k", Timeout: 2 * time.Second})
	require.NoError(t, err)

	entries, err := ledger.Collect(context.Background(), session, "2024-03-01", "2024-03-31", 2)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "0032024", entries[0].InvoiceNumber)
	assert.Equal(t, "Customer c3, Street, 81101 Bratislava", entries[0].Payer)
	assert.Equal(t, "Item c3", entries[0].Subject)
	assert.Equal(t, model.InvoiceTypeCreditNote, entries[2].Type)
	assert.Len(t, fake.CallsTo(remote.MethodStatus), 3)

	groups := ledger.Group(entries)
	require.Len(t, groups[model.InvoiceTypeInvoice], 2)
	assert.Equal(t, 1, groups[model.InvoiceTypeInvoice][0].Sequence)
	assert.Equal(t, 3, groups[model.InvoiceTypeInvoice][1].Sequence)
}

func TestCollect_DetailFailure(t *testing.T) {
	fake := remotetest.NewServer("k")
	defer fake.Close()

	addInvoice(fake, "c1", "0012024")
	fake.Fail(remote.MethodStatus, http.StatusServiceUnavailable)

	session, err := remote.NewSession(context.Background(), remote.Config{BaseURL: fake.URL(), APIKey: "k", Timeout: 2 * time.Second})
	require.NoError(t, err)

	_, err = ledger.Collect(context.Background(), session, "a", "b", 0)
	require.Error(t, err)

	var remoteErr *model.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusServiceUnavailable, remoteErr.Status)
}

type countingSource struct {
	n        int
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *countingSource) ListInvoices(context.Context, string, string) ([]remote.Summary, error) {
	out := make([]remote.Summary, s.n)
	for i := range out {
		out[i] = remote.Summary{Code: remote.Text("c"), Number: "0012024"}
	}
	return out, nil
}

func (s *countingSource) InvoiceDetail(context.Context, string) (*remote.Detail, error) {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.peak.Load()
		if cur <= peak || s.peak.CompareAndSwap(peak, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return &remote.Detail{}, nil
}

func TestCollect_BoundedParallelism(t *testing.T) {
	src := &countingSource{n: 20}

	entries, err := ledger.Collect(context.Background(), src, "a", "b", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
	assert.LessOrEqual(t, src.peak.Load(), int32(3))
	assert.True(t, strings.HasPrefix(entries[0].Payer, ", "))
}
