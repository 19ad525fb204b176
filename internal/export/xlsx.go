package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"aria/internal/domain"
)

// SheetName is the worksheet holding exported rows.
const SheetName = "Pending Mints"

// XLSXWriter streams pending mints into a single-sheet workbook written on Close.
type XLSXWriter struct {
	out    io.Writer
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

// NewXLSXWriter creates an XLSXWriter that writes the workbook to w on Close.
func NewXLSXWriter(w io.Writer) (*XLSXWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("opening stream writer: %w", err)
	}
	return &XLSXWriter{out: w, file: f, stream: sw, row: 1}, nil
}

// WriteHeader writes the header row.
func (w *XLSXWriter) WriteHeader() error {
	return w.writeRow(columns)
}

// WritePendingMints appends a batch of rows.
func (w *XLSXWriter) WritePendingMints(items []domain.PendingMint) error {
	for i := range items {
		if err := w.writeRow(toRow(&items[i])); err != nil {
			return err
		}
	}
	return nil
}

func (w *XLSXWriter) writeRow(values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := w.stream.SetRow(cell, row); err != nil {
		return fmt.Errorf("writing row %d: %w", w.row, err)
	}
	w.row++
	return nil
}

// Close finalizes the workbook and writes it out.
func (w *XLSXWriter) Close() error {
	defer func() { _ = w.file.Close() }()
	if err := w.stream.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}
	if err := w.file.Write(w.out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
