// Package document checks and stores invoice documents downloaded from
// the invoicing service.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNotPDF is returned for documents without a PDF header
var ErrNotPDF = errors.New("document is not a PDF")

var pdfHeader = []byte("%PDF-")

var disableConfig sync.Once

// Info describes an inspected document
type Info struct {
	Pages int
	Size  int
}

// IsPDF reports whether data starts with a PDF header
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfHeader)
}

// Inspect verifies data is a readable PDF and counts its pages
func Inspect(data []byte) (*Info, error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}

	disableConfig.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("unreadable PDF: %w", err)
	}
	return &Info{Pages: pages, Size: len(data)}, nil
}

// Save writes data to <dir>/<number>.pdf and returns the path
func Save(dir, number string, data []byte) (string, error) {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, number)
	if name == "" {
		return "", fmt.Errorf("empty document name")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return path, nil
}
