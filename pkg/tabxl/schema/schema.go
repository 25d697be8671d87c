// Package schema resolves the ordered column schema of tables and record types.
package schema

import (
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
)

// Accessor reads one column value out of a record (a struct value or a table row).
type Accessor func(record any) any

// ColumnSchema is the immutable description of one column.
type ColumnSchema struct {
	// Name is the header text.
	Name string
	// Kind is the declared kind that drives cell coercion.
	Kind models.Kind
	// Get reads the column value from a record.
	Get Accessor
}

// ColumnInfo binds a ColumnSchema to its zero-based position.
type ColumnInfo struct {
	Index  int
	Schema ColumnSchema
}

// Name returns the column name.
func (c ColumnInfo) Name() string {
	return c.Schema.Name
}

// Infos assigns contiguous indices, in order, to a resolved schema.
func Infos(columns []ColumnSchema) []ColumnInfo {
	infos := make([]ColumnInfo, len(columns))
	for i, c := range columns {
		infos[i] = ColumnInfo{Index: i, Schema: c}
	}
	return infos
}

// Names returns the column names in order.
func Names(columns []ColumnInfo) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name()
	}
	return names
}
