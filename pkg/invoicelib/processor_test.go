package invoicelib_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZdruzenieSTROM/faktury/internal/remote/remotetest"
	"github.com/ZdruzenieSTROM/faktury/pkg/invoicelib"
)

const settingsYAML = `vystavil: Jana Kováčová
datum_dodania: 1.3.2024
datum_vystavenia: 1.3.2024
datum_splatnosti: 15.3.2024
polozky:
  ucast:
    nazov_polozky: Účastnícky poplatok {i_event}
    jednotka: ks
    cena: 15.50
`

const customersCSV = "o_name;o_city;i_event;i_date_paid;ucast\n" +
	"Jan Novák;Bratislava;Leto;;2\n" +
	"Eva Malá;Košice;Jeseň;28.2.2024;1\n"

func readBatch(t *testing.T) *invoicelib.Batch {
	t.Helper()
	b, err := invoicelib.ReadBatch("leto", strings.NewReader(customersCSV), strings.NewReader(settingsYAML))
	require.NoError(t, err)
	return b
}

func TestDefaultOptions(t *testing.T) {
	opts := invoicelib.DefaultOptions()

	assert.Equal(t, "https://www.faktury-online.com", opts.BaseURL)
	assert.Positive(t, opts.Timeout)
	assert.False(t, opts.Debug)
	assert.Empty(t, opts.DownloadDir)
}

func TestReadBatch(t *testing.T) {
	b := readBatch(t)

	assert.Equal(t, "leto", b.Name)
	assert.Equal(t, invoicelib.InvoiceTypeInvoice, b.Config.InvoiceType)
	require.Len(t, b.Customers, 2)
	assert.Equal(t, "Eva Malá", b.Customers[1].Name())
	assert.NoError(t, invoicelib.Validate(b))
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leto.csv"), []byte(customersCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leto.yaml"), []byte(settingsYAML), 0o644))

	b, err := invoicelib.LoadBatch(dir, "leto")
	require.NoError(t, err)
	assert.Len(t, b.Customers, 2)

	_, err = invoicelib.LoadBatch(dir, "zima")
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	b := readBatch(t)

	requests, err := invoicelib.Preview(b, "7")
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Equal(t, "31", requests[0].Total.String())
	assert.Equal(t, "Účastnícky poplatok Leto", requests[0].Subject)
	assert.Equal(t, "Účastnícky poplatok Jeseň", requests[1].Subject)
}

func TestPreview_Invalid(t *testing.T) {
	b := readBatch(t)
	b.Config.DateDue = ""

	_, err := invoicelib.Preview(b, "7")

	var vErr *invoicelib.ValidationError
	require.True(t, errors.As(err, &vErr))
}

func TestParseInvoiceNumber(t *testing.T) {
	typ, seq, err := invoicelib.ParseInvoiceNumber("DOB0452024")
	require.NoError(t, err)
	assert.Equal(t, invoicelib.InvoiceTypeCreditNote, typ)
	assert.Equal(t, 45, seq)
}

func TestIssuer(t *testing.T) {
	fake := remotetest.NewServer("secret")
	defer fake.Close()

	opts := invoicelib.DefaultOptions()
	opts.BaseURL = fake.URL()
	opts.APIKey = "secret"
	opts.Email = "info@strom.sk"
	opts.DestinationID = "7"
	opts.Debug = true

	ctx := context.Background()
	issuer, err := invoicelib.NewIssuer(ctx, opts)
	require.NoError(t, err)

	report := issuer.Issue(ctx, readBatch(t))
	require.True(t, report.OK(), report.Summary())
	require.Len(t, report.Records, 2)

	assert.Equal(t, "0012024", report.Records[0].InvoiceNumber)
	assert.Equal(t, "28.2.2024", report.Records[1].DatePaid)
	assert.Len(t, fake.CallsTo("uf"), 1)
}

func TestIssuer_AuthError(t *testing.T) {
	fake := remotetest.NewServer("secret")
	defer fake.Close()

	opts := invoicelib.DefaultOptions()
	opts.BaseURL = fake.URL()
	opts.APIKey = "wrong"

	_, err := invoicelib.NewIssuer(context.Background(), opts)

	var authErr *invoicelib.AuthError
	require.True(t, errors.As(err, &authErr))
}
