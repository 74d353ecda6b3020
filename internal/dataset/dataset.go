// Package dataset reads measurement spreadsheets (CSV or XLSX) into domain
// readings, tolerating the quirks of student-exported files: UTF-8 BOMs,
// accented headers, stray whitespace, and the odd unparseable cell.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openhelio/solar-motion/internal/domain"
)

// Required column names after header normalization.
const (
	regionColumn = "regiao"
	adcColumn    = "adc"
)

var (
	// ErrMissingColumn means the file lacks Regiao or ADC. Unlike bad rows,
	// this aborts the whole read: the file is the wrong shape.
	ErrMissingColumn = errors.New("missing required column")

	// ErrUnsupportedFormat means the filename extension is not .csv or .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Report describes what happened to the rows of a file. Skipped rows carry
// one warning each; warnings are user-facing and surface on the result page.
type Report struct {
	Rows     int      `json:"rows"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// Read parses a measurement file, dispatching on the filename extension.
func Read(r io.Reader, filename string) ([]domain.Reading, *Report, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// accentFold maps the accented characters that show up in bench spreadsheet
// headers to their base letters, so "Região" matches "regiao".
var accentFold = strings.NewReplacer(
	"ã", "a", "á", "a", "â", "a", "à", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

// normalizeHeader folds a header cell for matching: BOM stripped, trimmed,
// lower-cased, accents removed.
func normalizeHeader(cell string) string {
	cell = strings.TrimPrefix(cell, "\uFEFF")
	return accentFold.Replace(strings.ToLower(strings.TrimSpace(cell)))
}

// fromRows converts raw sheet rows (header first) into readings. Both the CSV
// and XLSX readers funnel through here so the column and row semantics cannot
// drift apart.
func fromRows(rows [][]string) ([]domain.Reading, *Report, error) {
	report := &Report{}
	if len(rows) == 0 {
		return nil, report, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, cell := range rows[0] {
		cols[normalizeHeader(cell)] = i
	}

	regionIdx, ok := cols[regionColumn]
	if !ok {
		return nil, nil, fmt.Errorf("%w %q", ErrMissingColumn, "Regiao")
	}
	adcIdx, ok := cols[adcColumn]
	if !ok {
		return nil, nil, fmt.Errorf("%w %q", ErrMissingColumn, "ADC")
	}

	readings := make([]domain.Reading, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2 // 1-based, after the header
		report.Rows++

		if len(row) <= regionIdx || len(row) <= adcIdx {
			report.skip("linha %d: células insuficientes", line)
			continue
		}

		adcCell := strings.TrimSpace(row[adcIdx])
		adc, err := strconv.ParseFloat(adcCell, 64)
		if err != nil {
			report.skip("linha %d: valor de ADC inválido %q", line, adcCell)
			continue
		}

		readings = append(readings, domain.Reading{
			Region: strings.TrimSpace(row[regionIdx]),
			ADC:    adc,
		})
	}

	return readings, report, nil
}

func (r *Report) skip(format string, args ...any) {
	r.Skipped++
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
