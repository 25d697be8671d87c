package models

import (
	"fmt"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/errs"
)

// Column describes one named, typed column of a Table.
type Column struct {
	// Name is the column header.
	Name string `json:"name"`
	// Kind is the declared kind, KindUnknown when the column is untyped.
	Kind Kind `json:"kind"`
}

// Table is an in-memory relational table.
type Table struct {
	// Name is the table name, used as the sheet name when written.
	Name string `json:"name"`
	// Columns lists the columns in declaration order.
	Columns []Column `json:"columns"`
	// Rows holds one value per column for each row.
	Rows [][]any `json:"rows"`
}

// NewTable creates an empty table with the given columns.
func NewTable(name string, columns ...Column) *Table {
	return &Table{
		Name:    name,
		Columns: columns,
	}
}

// AddColumn appends a column. Existing rows read nil for it.
func (t *Table) AddColumn(name string, kind Kind) *Table {
	t.Columns = append(t.Columns, Column{Name: name, Kind: kind})
	return t
}

// AddRow appends a row. Missing trailing values are nil; extra values are rejected.
func (t *Table) AddRow(values ...any) error {
	if len(values) > len(t.Columns) {
		return fmt.Errorf("%w: row has %d values but table %q has %d columns",
			errs.ErrInvalidInput, len(values), t.Name, len(t.Columns))
	}
	row := make([]any, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
	return nil
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Value returns the value of the named column in the given row (0-based).
// Rows shorter than the column list read nil.
func (t *Table) Value(row int, column string) (any, error) {
	if row < 0 || row >= len(t.Rows) {
		return nil, fmt.Errorf("row %d out of range [0,%d)", row, len(t.Rows))
	}
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found in table %q", column, t.Name)
	}
	if idx >= len(t.Rows[row]) {
		return nil, nil
	}
	return t.Rows[row][idx], nil
}
