// Package writer serializes normalized sheets into an xlsx workbook.
package writer

import (
	"fmt"
	"iter"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/errs"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/formula"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/schema"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/source"
)

// Sheet is one named grid to write.
type Sheet struct {
	// Name is the sheet name. Duplicates are made unique when written.
	Name string
	// Columns are written as the header row, in order.
	Columns []schema.ColumnInfo
	// Rows yields one value per column for each data row.
	Rows iter.Seq[[]any]
	// Formulas optionally replaces column values with generated formulas.
	Formulas *formula.Bindings
}

// Workbook is the ordered list of sheets serialized by Write.
type Workbook struct {
	Sheets []Sheet
}

// Options configures FromSource.
type Options struct {
	// Formulas maps a sheet name, as written after duplicates are renamed, to
	// its formula bindings.
	Formulas map[string]*formula.Bindings
}

// FromSource builds a workbook with one sheet per part of ds.
func FromSource(ds *source.DataSource, opts Options) (*Workbook, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: data source is nil", errs.ErrInvalidInput)
	}
	parts := ds.Parts()
	wb := &Workbook{Sheets: make([]Sheet, 0, len(parts))}
	for _, p := range parts {
		columns, err := p.Columns()
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, Sheet{
			Name:    p.Name(),
			Columns: columns,
			Rows:    p.Rows(),
		})
	}
	for i, name := range uniqueNames(wb.Sheets) {
		wb.Sheets[i].Formulas = opts.Formulas[name]
	}
	return wb, nil
}

// NewFormulas returns Options binding formulas to a single sheet.
func NewFormulas(sheet string, b *formula.Bindings) Options {
	return Options{Formulas: map[string]*formula.Bindings{sheet: b}}
}
