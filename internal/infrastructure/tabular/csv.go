// Package tabular reads and writes the CSV files used for catalog and
// client roster exchange.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyFile is returned when the uploaded file holds no content
	ErrEmptyFile = errors.New("file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("file is missing a header row")
)

// encodingSampleSize is how many bytes of the stream are inspected for
// UTF-8 validity before parsing begins.
const encodingSampleSize = 4096

// trimPartialRune drops an incomplete trailing rune from a full-length
// sample so a multibyte character cut off at the sample boundary does not
// fail validation. Short samples cover the whole stream and are returned
// unchanged.
func trimPartialRune(sample []byte) []byte {
	if len(sample) < encodingSampleSize {
		return sample
	}
	for i := len(sample) - 1; i >= len(sample)-utf8.UTFMax && i >= 0; i-- {
		if utf8.RuneStart(sample[i]) {
			if !utf8.FullRune(sample[i:]) {
				return sample[:i]
			}
			break
		}
	}
	return sample
}

// Reader parses a headered CSV stream into column-addressable rows.
type Reader struct {
	csv     *csv.Reader
	headers []string
	byName  map[string]int
	line    int
}

// NewReader wraps r, strips a UTF-8 BOM if present, validates the encoding
// and consumes the header row.
func NewReader(r io.Reader) (*Reader, error) {
	buf := bufio.NewReader(r)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	sample, err := buf.Peek(encodingSampleSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(sample) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(sample)) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(buf)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	reader := &Reader{csv: cr, byName: make(map[string]int)}
	if err := reader.readHeader(); err != nil {
		return nil, err
	}
	return reader, nil
}

// NewReaderFromBytes wraps an in-memory upload.
func NewReaderFromBytes(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data))
}

func (r *Reader) readHeader() error {
	record, err := r.csv.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	r.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.TrimSpace(h)
		r.headers[i] = name
		r.byName[name] = i
	}
	r.line = 1
	return nil
}

// Headers returns the header names in file order.
func (r *Reader) Headers() []string {
	return r.headers
}

// HasColumn reports whether a header of that name exists.
func (r *Reader) HasColumn(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// MissingColumns returns the required header names absent from the file.
func (r *Reader) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !r.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Row is one data row, addressable by header name. Values are trimmed.
type Row struct {
	Line int
	data map[string]string
}

// Get returns the trimmed value under the given header, or "" when the
// column or value is absent.
func (row Row) Get(name string) string {
	return row.data[name]
}

// GetOrDefault returns the value under the header, or fallback when empty.
func (row Row) GetOrDefault(name, fallback string) string {
	if v := row.data[name]; v != "" {
		return v
	}
	return fallback
}

// IsEmpty reports whether every cell of the row is blank.
func (row Row) IsEmpty() bool {
	for _, v := range row.data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadAll returns every remaining non-empty data row.
func (r *Reader) ReadAll() ([]Row, error) {
	var rows []Row
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return rows, nil
		}
		r.line++
		if err != nil {
			return rows, fmt.Errorf("error reading row %d: %w", r.line, err)
		}

		row := Row{Line: r.line, data: make(map[string]string, len(r.headers))}
		for i, name := range r.headers {
			if i < len(record) {
				row.data[name] = strings.TrimSpace(record[i])
			} else {
				row.data[name] = ""
			}
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
}
