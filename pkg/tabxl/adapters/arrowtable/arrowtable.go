// Package arrowtable converts Apache Arrow records and tables into tables.
package arrowtable

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/shopspring/decimal"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
)

// FromRecord converts one record batch. Columns follow the record schema.
func FromRecord(name string, rec arrow.Record) *models.Table {
	table := models.NewTable(name, columns(rec.Schema())...)
	appendRecord(table, rec)
	return table
}

// FromTable converts every chunk of an Arrow table, in order.
func FromTable(name string, tbl arrow.Table) (*models.Table, error) {
	table := models.NewTable(name, columns(tbl.Schema())...)

	tr := array.NewTableReader(tbl, max(tbl.NumRows(), 1))
	defer tr.Release()
	for tr.Next() {
		appendRecord(table, tr.Record())
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("error reading table: %w", err)
	}
	return table, nil
}

func columns(schema *arrow.Schema) []models.Column {
	cols := make([]models.Column, schema.NumFields())
	for i, f := range schema.Fields() {
		cols[i] = models.Column{Name: f.Name, Kind: kindOf(f.Type)}
	}
	return cols
}

func appendRecord(table *models.Table, rec arrow.Record) {
	for r := range int(rec.NumRows()) {
		row := make([]any, rec.NumCols())
		for c, col := range rec.Columns() {
			row[c] = value(col, r)
		}
		table.Rows = append(table.Rows, row)
	}
}

// kindOf maps an Arrow type to a column kind. Nested and interval types are
// written as their display text.
func kindOf(t arrow.DataType) models.Kind {
	switch t.ID() {
	case arrow.STRING, arrow.LARGE_STRING, arrow.BINARY, arrow.LARGE_BINARY:
		return models.KindText
	case arrow.BOOL:
		return models.KindBoolean
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64, arrow.DECIMAL128:
		return models.KindNumber
	case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP:
		return models.KindDate
	}
	return models.KindUnknown
}

// value returns the Go value at pos. Nulls are nil.
func value(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}

	switch a := col.(type) {
	case *array.String:
		return a.Value(pos)
	case *array.LargeString:
		return a.Value(pos)
	case *array.Binary:
		return string(a.Value(pos))
	case *array.LargeBinary:
		return string(a.Value(pos))
	case *array.Boolean:
		return a.Value(pos)
	case *array.Int8:
		return int64(a.Value(pos))
	case *array.Int16:
		return int64(a.Value(pos))
	case *array.Int32:
		return int64(a.Value(pos))
	case *array.Int64:
		return a.Value(pos)
	case *array.Uint8:
		return uint64(a.Value(pos))
	case *array.Uint16:
		return uint64(a.Value(pos))
	case *array.Uint32:
		return uint64(a.Value(pos))
	case *array.Uint64:
		return a.Value(pos)
	case *array.Float16:
		return a.Value(pos).Float32()
	case *array.Float32:
		return a.Value(pos)
	case *array.Float64:
		return a.Value(pos)
	case *array.Decimal128:
		scale := a.DataType().(*arrow.Decimal128Type).Scale
		return decimal.NewFromBigInt(a.Value(pos).BigInt(), -scale)
	case *array.Date32:
		return a.Value(pos).ToTime()
	case *array.Date64:
		return a.Value(pos).ToTime()
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(pos).ToTime(unit)
	}
	return col.ValueStr(pos)
}
