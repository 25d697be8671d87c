// Package output renders read tables as JSON.
package output

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
)

// ToJSON serializes a table set.
func ToJSON(set *models.TableSet, pretty bool) ([]byte, error) {
	return marshal(set, pretty)
}

// TableToJSON serializes a single table.
func TableToJSON(t *models.Table, pretty bool) ([]byte, error) {
	return marshal(t, pretty)
}

// RecordsToJSON serializes the rows of a table as an array of objects keyed by
// column name, keys in column order.
func RecordsToJSON(t *models.Table, pretty bool) ([]byte, error) {
	records := make([]record, len(t.Rows))
	for i, row := range t.Rows {
		records[i] = record{columns: t.Columns, values: row}
	}
	return marshal(records, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

type record struct {
	columns []models.Column
	values  []any
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		var v any
		if i < len(r.values) {
			v = r.values[i]
		}
		value, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
