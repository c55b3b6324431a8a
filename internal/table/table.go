package table

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when the input has no header row.
	ErrEmpty = errors.New("no columns to parse from file")
	// ErrMalformed is returned when the input is not valid csv.
	ErrMalformed = errors.New("malformed csv")
)

// Table is an ordered set of named columns and rows of raw cell values.
// Columns beyond the ones a consumer asks for are carried along untouched.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// Row is a view on a single row of a table.
type Row struct {
	table  *Table
	values []string
}

// New creates a new table. Every row must have one value per column.
func New(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrEmpty
	}
	cc := make([]string, len(columns))
	copy(cc, columns)
	index := make(map[string]int, len(cc))
	for i, c := range cc {
		// first occurrence wins for duplicate headers
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}
	rr := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) != len(cc) {
			return nil, fmt.Errorf("row %d has %d values for %d columns: %w", i+1, len(row), len(cc), ErrMalformed)
		}
		r := make([]string, len(row))
		copy(r, row)
		rr[i] = r
	}
	return &Table{
		columns: cc,
		index:   index,
		rows:    rr,
	}, nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	cc := make([]string, len(t.columns))
	copy(cc, t.columns)
	return cc
}

// Has checks if the table has a column with exactly the given name.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the row at position i.
func (t *Table) Row(i int) Row {
	return Row{
		table:  t,
		values: t.rows[i],
	}
}

// Column returns the values of the given column in row order.
func (t *Table) Column(column string) ([]string, bool) {
	j, ok := t.index[column]
	if !ok {
		return nil, false
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[j]
	}
	return values, true
}

// Records returns a copy of all rows.
func (t *Table) Records() [][]string {
	records := make([][]string, len(t.rows))
	for i, row := range t.rows {
		r := make([]string, len(row))
		copy(r, row)
		records[i] = r
	}
	return records
}

// Head returns a new table with at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	head, _ := New(t.columns, t.rows[:n])
	return head
}

// WithColumn returns a new table with the given column set to values.
// An existing column keeps its position, otherwise the column is appended.
func (t *Table) WithColumn(column string, values []string) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column '%s' has %d values for %d rows", column, len(values), len(t.rows))
	}
	columns := t.Columns()
	j, exists := t.index[column]
	if !exists {
		columns = append(columns, column)
	}
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		r := make([]string, len(columns))
		copy(r, row)
		if exists {
			r[j] = values[i]
		} else {
			r[len(columns)-1] = values[i]
		}
		rows[i] = r
	}
	return New(columns, rows)
}

// Get returns the value of the given column.
func (r Row) Get(column string) (string, bool) {
	j, ok := r.table.index[column]
	if !ok {
		return "", false
	}
	return r.values[j], true
}

// Values returns a copy of the row values in column order.
func (r Row) Values() []string {
	v := make([]string, len(r.values))
	copy(v, r.values)
	return v
}
