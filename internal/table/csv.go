package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const bom = "\uFEFF"

// ReadCSV parses csv text with a header row into a table.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("could not read header: %s: %w", err.Error(), ErrMalformed)
	}
	header[0] = strings.TrimPrefix(header[0], bom)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read rows: %s: %w", err.Error(), ErrMalformed)
	}
	return New(header, rows)
}

// WriteCSV encodes the table as csv, header first, without an index column.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.columns); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	if err := writer.WriteAll(t.rows); err != nil {
		return fmt.Errorf("could not write rows: %w", err)
	}
	return nil
}

// Bytes returns the csv encoding of the table.
func (t *Table) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
