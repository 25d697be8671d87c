// Package formula binds row-indexed formula generators to sheet columns.
//
// A Formula receives the 1-based worksheet row number of the cell being written.
// The header occupies row 1, so the first data row is row 2 and a generator such
// as Template("B{row}*2") refers to the cell's own row. Generators must be pure:
// the writer relies on them for deterministic output.
package formula

import (
	"slices"
	"strconv"
	"strings"
)

// RowPlaceholder is replaced with the row number by Template.
const RowPlaceholder = "{row}"

// Formula renders the formula text for a worksheet row.
type Formula func(row uint32) string

// Const returns a formula that ignores the row.
func Const(text string) Formula {
	return func(uint32) string { return text }
}

// Template returns a formula substituting RowPlaceholder with the row number.
func Template(text string) Formula {
	return func(row uint32) string {
		return strings.ReplaceAll(text, RowPlaceholder, strconv.FormatUint(uint64(row), 10))
	}
}

// Func adapts a plain function.
func Func(fn func(row uint32) string) Formula {
	return Formula(fn)
}

// Text renders f for row, dropping a single leading '='.
func Text(f Formula, row uint32) string {
	return strings.TrimPrefix(f(row), "=")
}

// Bindings is the per-sheet lookup table consulted by the writer.
// A nil *Bindings binds nothing.
type Bindings struct {
	columns map[string]Formula
	sheet   Formula
}

// NewBindings creates an empty binding table.
func NewBindings() *Bindings {
	return &Bindings{columns: make(map[string]Formula)}
}

// Column binds f to the named column. A nil f removes the binding.
func (b *Bindings) Column(name string, f Formula) *Bindings {
	if f == nil {
		delete(b.columns, name)
		return b
	}
	if b.columns == nil {
		b.columns = make(map[string]Formula)
	}
	b.columns[name] = f
	return b
}

// Sheet binds f to every column that has no column binding of its own.
func (b *Bindings) Sheet(f Formula) *Bindings {
	b.sheet = f
	return b
}

// Lookup returns the formula that applies to a column.
func (b *Bindings) Lookup(column string) (Formula, bool) {
	if b == nil {
		return nil, false
	}
	if f, ok := b.columns[column]; ok {
		return f, true
	}
	if b.sheet != nil {
		return b.sheet, true
	}
	return nil, false
}

// Columns returns the names of the columns with their own binding, sorted.
func (b *Bindings) Columns() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.columns))
	for name := range b.columns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Empty reports whether nothing is bound.
func (b *Bindings) Empty() bool {
	return b == nil || (len(b.columns) == 0 && b.sheet == nil)
}
