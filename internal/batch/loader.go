package batch

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ZdruzenieSTROM/faktury/internal/decimal"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
)

// settingsFile mirrors the YAML settings document of a batch
type settingsFile struct {
	Issuer       string                  `yaml:"vystavil"`
	DateDelivery string                  `yaml:"datum_dodania"`
	DateIssue    string                  `yaml:"datum_vystavenia"`
	DateDue      string                  `yaml:"datum_splatnosti"`
	InvoiceType  string                  `yaml:"typ"`
	Tags         []string                `yaml:"stitky"`
	Note         string                  `yaml:"poznamka"`
	Items        map[string]settingsItem `yaml:"polozky"`
}

type settingsItem struct {
	Name  string `yaml:"nazov_polozky"`
	Unit  string `yaml:"jednotka"`
	Price string `yaml:"cena"`
}

// Paths returns the customer table and settings document of a named batch
func Paths(inputDir, name string) (customers, settings string) {
	return filepath.Join(inputDir, name+".csv"), filepath.Join(inputDir, name+".yaml")
}

// LoadFromFiles loads the batch <inputDir>/<name>.csv + <inputDir>/<name>.yaml
func LoadFromFiles(inputDir, name string, now time.Time) (*model.Batch, error) {
	customerFile, settingsPath := Paths(inputDir, name)

	if _, err := os.Stat(customerFile); err != nil {
		return nil, fmt.Errorf("customer file %s does not exist", customerFile)
	}
	if _, err := os.Stat(settingsPath); err != nil {
		return nil, fmt.Errorf("settings file %s does not exist", settingsPath)
	}

	sf, err := os.Open(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}
	defer sf.Close()

	cfg, err := LoadConfig(sf, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", settingsPath, err)
	}

	cf, err := os.Open(customerFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open customers: %w", err)
	}
	defer cf.Close()

	rows, err := ReadCustomerRows(cf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", customerFile, err)
	}

	return New(name, *cfg, rows), nil
}

// New assembles a batch, parsing every row against the catalog
func New(name string, cfg model.BatchConfig, rows []map[string]string) *model.Batch {
	b := &model.Batch{
		Name:      name,
		Config:    cfg,
		Customers: make([]model.Customer, 0, len(rows)),
	}
	for _, row := range rows {
		b.Customers = append(b.Customers, model.ParseCustomerRow(row, cfg.Catalog))
	}
	return b
}

// LoadConfig decodes a settings document. A missing issue date defaults
// to now.
func LoadConfig(r io.Reader, now time.Time) (*model.BatchConfig, error) {
	var s settingsFile
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	typ, err := model.ParseInvoiceType(s.InvoiceType)
	if err != nil {
		return nil, err
	}

	catalog := make(model.Catalog, len(s.Items))
	for code, item := range s.Items {
		price, err := decimal.FromString(item.Price)
		if err != nil {
			return nil, fmt.Errorf("item %s: invalid price %q: %w", code, item.Price, err)
		}
		catalog[code] = model.LineItemDefinition{
			NameTemplate: item.Name,
			Unit:         item.Unit,
			UnitPrice:    price,
		}
	}

	cfg := &model.BatchConfig{
		Issuer:       s.Issuer,
		DateDelivery: s.DateDelivery,
		DateIssue:    s.DateIssue,
		DateDue:      s.DateDue,
		InvoiceType:  typ,
		Tags:         s.Tags,
		Note:         s.Note,
		Catalog:      catalog,
	}
	if cfg.DateIssue == "" {
		cfg.DateIssue = model.FormatDate(now)
	}
	return cfg, nil
}

// ReadCustomerRows reads a ';' separated customer table with a header row
func ReadCustomerRows(r io.Reader) ([]map[string]string, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	// spreadsheet exports often start with a UTF-8 BOM
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("customer file is empty")
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		blank := true
		for i, value := range record {
			if i >= len(header) || value == "" {
				continue
			}
			row[header[i]] = value
			blank = false
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
