// Package source normalizes tables, table sets and record sequences into ordered
// columns plus lazily produced rows.
package source

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/errs"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/schema"
)

// Kind tags the active variant of a DataSource.
type Kind uint8

const (
	// KindSingleTable is one relational table.
	KindSingleTable Kind = iota + 1
	// KindTableSet is an ordered collection of tables.
	KindTableSet
	// KindTypedSequence is a sequence of records of one type.
	KindTypedSequence
)

func (k Kind) String() string {
	switch k {
	case KindSingleTable:
		return "single table"
	case KindTableSet:
		return "table set"
	case KindTypedSequence:
		return "typed sequence"
	}
	return "unknown"
}

// DefaultSheetName names the sheet of a record sequence.
const DefaultSheetName = "Sheet1"

// PositionalName is the fallback name of the i-th (0-based) unnamed table.
func PositionalName(i int) string {
	return fmt.Sprintf("Sheet%d", i+1)
}

// Part is one sheet worth of data: ordered columns and rows aligned to them.
type Part interface {
	// Name is the sheet name.
	Name() string
	// Columns resolves the schema. It is computed once and cached.
	Columns() ([]schema.ColumnInfo, error)
	// Rows yields one value per column for each record, in source order.
	// Table and slice backed parts may be iterated again; channel backed
	// parts yield nothing once drained.
	Rows() iter.Seq[[]any]
}

// Tabular is implemented by the three data source variants.
type Tabular interface {
	Kind() Kind
	Parts() []Part
}

// DataSource wraps exactly one Tabular variant, fixed at construction.
type DataSource struct {
	tab Tabular
}

// New normalizes src. Accepted shapes:
//   - *models.Table or models.Table (single table)
//   - *models.TableSet or []*models.Table (table set)
//   - a Tabular such as *TypedSequence[T], or a slice, array or receive channel
//     of records (typed sequence)
//
// A nil src fails with errs.ErrInvalidInput; any other shape fails with an
// *errs.UnsupportedSourceError.
func New(src any) (*DataSource, error) {
	if isNil(src) {
		return nil, fmt.Errorf("%w: data source is nil", errs.ErrInvalidInput)
	}

	var (
		tab Tabular
		err error
	)
	switch s := src.(type) {
	case *DataSource:
		return s, nil
	case Tabular:
		tab = s
	case *models.Table:
		tab, err = NewSingleTable(s)
	case models.Table:
		tab, err = NewSingleTable(&s)
	case *models.TableSet:
		tab, err = NewTableSet(s)
	case []*models.Table:
		tab, err = NewTableSet(models.NewTableSet("", s...))
	default:
		tab, err = newRecordSequence(reflect.ValueOf(src))
	}
	if err != nil {
		return nil, err
	}
	return &DataSource{tab: tab}, nil
}

// Wrap exposes a typed variant through the untyped contract.
func Wrap(tab Tabular) (*DataSource, error) {
	return New(tab)
}

// Kind returns the active variant.
func (d *DataSource) Kind() Kind {
	return d.tab.Kind()
}

// Tabular returns the wrapped variant.
func (d *DataSource) Tabular() Tabular {
	return d.tab
}

// Parts returns the sheets of the source in order.
func (d *DataSource) Parts() []Part {
	return d.tab.Parts()
}

// Columns returns the columns of the first part.
func (d *DataSource) Columns() ([]schema.ColumnInfo, error) {
	parts := d.Parts()
	if len(parts) == 0 {
		return nil, nil
	}
	return parts[0].Columns()
}

// Rows returns the rows of the first part.
func (d *DataSource) Rows() iter.Seq[[]any] {
	parts := d.Parts()
	if len(parts) == 0 {
		return func(func([]any) bool) {}
	}
	return parts[0].Rows()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// project reads one row out of a record.
func project(columns []schema.ColumnInfo, record any) []any {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = c.Schema.Get(record)
	}
	return row
}
