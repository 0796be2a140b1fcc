package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Writer streams a headered CSV document, for roster and catalog exports.
type Writer struct {
	csv     *csv.Writer
	columns int
}

// NewWriter writes the header row and returns a writer accepting data rows
// of the same width.
func NewWriter(w io.Writer, headers []string) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &Writer{csv: cw, columns: len(headers)}, nil
}

// WriteRow appends one data row.
func (w *Writer) WriteRow(fields ...string) error {
	if len(fields) != w.columns {
		return fmt.Errorf("row has %d fields, header has %d", len(fields), w.columns)
	}
	return w.csv.Write(fields)
}

// Flush writes any buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
