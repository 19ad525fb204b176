// Package export renders the pending-mint registry as CSV or XLSX for operators.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"aria/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv or xlsx)", s)
	}
}

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the header row.
var columns = []string{
	"ID",
	"Run ID",
	"Status",
	"Recipient",
	"Content ID",
	"Artifact URL",
	"Filename",
	"Attempts",
	"Last Error",
	"Transaction ID",
	"Created At",
	"Updated At",
}

// Columns returns a copy of the header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// RowWriter writes pending mints one batch at a time.
type RowWriter interface {
	WriteHeader() error
	WritePendingMints(items []domain.PendingMint) error
	Close() error
}

// NewRowWriter returns the writer for the given format.
func NewRowWriter(format Format, w io.Writer) (RowWriter, error) {
	switch format {
	case FormatCSV:
		if _, err := w.Write(BOM); err != nil {
			return nil, err
		}
		return NewCSVWriter(w), nil
	case FormatXLSX:
		return NewXLSXWriter(w)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// CSVWriter wraps csv.Writer for exporting pending mints.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WritePendingMints converts a batch to CSV rows and writes them.
func (w *CSVWriter) WritePendingMints(items []domain.PendingMint) error {
	for i := range items {
		if err := w.csv.Write(toRow(&items[i])); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered rows.
func (w *CSVWriter) Close() error {
	w.csv.Flush()
	return w.csv.Error()
}

func toRow(p *domain.PendingMint) []string {
	row := make([]string, len(columns))
	row[0] = p.ID.String()
	row[1] = p.RunID.String()
	row[2] = string(p.Status)
	row[3] = p.Recipient
	row[4] = p.ContentID
	row[5] = p.ArtifactURL
	row[6] = p.Filename
	row[7] = strconv.Itoa(p.Attempts)
	row[8] = p.LastError
	if p.TxID != nil {
		row[9] = *p.TxID
	}
	row[10] = p.CreatedAt.Format(time.RFC3339)
	row[11] = p.UpdatedAt.Format(time.RFC3339)
	return row
}

// BuildFilename returns a dated export filename, e.g. pending_mints_2024-01-31.csv.
func BuildFilename(format Format, now time.Time) string {
	return fmt.Sprintf("pending_mints_%s.%s", now.Format("2006-01-02"), format)
}
