package schema

import (
	"github.com/ukaji3/tabxl-go/pkg/tabxl/coerce"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
)

// ForTable resolves the columns of a table in declaration order.
//
// A column without a declared kind takes the kind of the first non-nil value found
// in it, or KindUnknown when the column holds no values. A table without columns
// resolves to an empty schema.
func ForTable(t *models.Table) ([]ColumnSchema, error) {
	columns := make([]ColumnSchema, len(t.Columns))
	for i, c := range t.Columns {
		kind := c.Kind
		if kind == models.KindUnknown {
			kind = columnKind(t, i)
		}
		columns[i] = ColumnSchema{
			Name: c.Name,
			Kind: kind,
			Get:  rowAccessor(i),
		}
	}
	return columns, nil
}

func columnKind(t *models.Table, col int) models.Kind {
	for _, row := range t.Rows {
		if col >= len(row) {
			continue
		}
		if v := coerce.Unwrap(row[col]); v != nil {
			return KindOfValue(v)
		}
	}
	return models.KindUnknown
}

// rowAccessor reads position i of a []any row. Short rows read nil.
func rowAccessor(i int) Accessor {
	return func(record any) any {
		row, ok := record.([]any)
		if !ok || i >= len(row) {
			return nil
		}
		return row[i]
	}
}
