// Package sqltable converts database/sql result sets into tables.
package sqltable

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/schema"
)

// timeLayouts are tried in order on text read from date columns.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Query runs query and converts its result set.
func Query(ctx context.Context, db *sql.DB, name, query string, args ...any) (*models.Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return FromRows(name, rows)
}

// FromRows drains rows into a table. The caller still owns rows.
func FromRows(name string, rows *sql.Rows) (*models.Table, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	table := models.NewTable(name)
	for _, ct := range types {
		table.AddColumn(ct.Name(), kindOf(ct))
	}

	for rows.Next() {
		values := make([]any, len(types))
		dest := make([]any, len(types))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(table.Rows)+1, err)
		}
		for i, c := range table.Columns {
			values[i] = normalize(values[i], c.Kind)
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return table, nil
}

// kindOf prefers the driver's scan type and falls back to the declared column
// type. Columns of unknown kind are typed later from their values.
func kindOf(ct *sql.ColumnType) models.Kind {
	if t := ct.ScanType(); t != nil && t.Kind() != reflect.Interface {
		if k := schema.KindOf(t); k != models.KindUnknown {
			return k
		}
	}
	return declaredKind(ct.DatabaseTypeName())
}

// declaredKind follows SQL type-name affinity rules.
func declaredKind(decl string) models.Kind {
	decl = strings.ToUpper(decl)
	switch {
	case decl == "":
		return models.KindUnknown
	case strings.Contains(decl, "BOOL"):
		return models.KindBoolean
	case strings.Contains(decl, "DATE"), strings.Contains(decl, "TIME"):
		return models.KindDate
	case strings.Contains(decl, "INT"):
		return models.KindNumber
	case strings.Contains(decl, "CHAR"), strings.Contains(decl, "CLOB"), strings.Contains(decl, "TEXT"):
		return models.KindText
	case strings.Contains(decl, "REAL"), strings.Contains(decl, "FLOA"), strings.Contains(decl, "DOUB"),
		strings.Contains(decl, "NUMERIC"), strings.Contains(decl, "DECIMAL"):
		return models.KindNumber
	}
	return models.KindUnknown
}

func normalize(v any, kind models.Kind) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch kind {
	case models.KindBoolean:
		switch x := v.(type) {
		case int64:
			return x != 0
		case float64:
			return x != 0
		}
	case models.KindDate:
		if s, ok := v.(string); ok {
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t
				}
			}
		}
	}
	return v
}
