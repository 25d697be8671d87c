// Package coerce maps raw field values onto spreadsheet cell values.
//
// Coercion never fails: a value that does not match its declared kind is written as
// its display text.
package coerce

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
)

// maxUnwrap bounds Valuer/pointer chains.
const maxUnwrap = 8

// Value coerces raw according to the declared column kind.
//
// Rules in priority order: nil → empty; number kind with a numeric value → number;
// date kind with a time.Time → date; boolean kind with a bool or a parseable
// string → boolean; anything else → text.
func Value(raw any, kind models.Kind) models.CellValue {
	v := Unwrap(raw)
	if v == nil {
		return Empty()
	}

	switch kind {
	case models.KindNumber:
		if n, ok := number(v); ok {
			return models.CellValue{Kind: models.CellNumber, Value: n}
		}
	case models.KindDate:
		if t, ok := v.(time.Time); ok {
			return models.CellValue{Kind: models.CellDate, Value: t}
		}
	case models.KindBoolean:
		if b, ok := boolean(v); ok {
			return models.CellValue{Kind: models.CellBoolean, Value: b}
		}
	}
	return Text(v)
}

// Empty returns the empty cell value.
func Empty() models.CellValue {
	return models.CellValue{Kind: models.CellEmpty}
}

// Text returns the canonical text form of v as a text cell.
func Text(v any) models.CellValue {
	return models.CellValue{Kind: models.CellText, Value: String(v)}
}

// Formula returns a formula cell. A single leading '=' is dropped.
func Formula(text string) models.CellValue {
	return models.CellValue{Kind: models.CellFormula, Value: strings.TrimPrefix(text, "=")}
}

// Unwrap resolves pointers, nullable wrappers such as sql.NullInt64 and other
// driver.Valuer values.
// Nil pointers, nil slices/maps and invalid Valuers yield nil.
func Unwrap(v any) any {
	for range maxUnwrap {
		if v == nil {
			return nil
		}
		switch v.(type) {
		case time.Time, decimal.Decimal:
			return v
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if rv.IsNil() {
				return nil
			}
		}
		if rv.Kind() == reflect.Pointer {
			if _, ok := NullableType(rv.Type().Elem()); ok {
				v = rv.Elem().Interface()
				continue
			}
		}
		if _, ok := NullableType(rv.Type()); ok {
			if !rv.Field(1).Bool() {
				return nil
			}
			v = rv.Field(0).Interface()
			continue
		}
		if valuer, ok := v.(driver.Valuer); ok {
			inner, err := valuer.Value()
			if err != nil {
				return v
			}
			v = inner
			continue
		}
		if rv.Kind() == reflect.Pointer {
			if pointerMethods(rv.Type()) {
				return v
			}
			v = rv.Elem().Interface()
			continue
		}
		return v
	}
	return v
}

var (
	stringerType = reflect.TypeFor[fmt.Stringer]()
	errorType    = reflect.TypeFor[error]()
	valuerType   = reflect.TypeFor[driver.Valuer]()
)

// NullableType returns the value type of a nullable wrapper such as
// sql.NullInt64, sql.Null[T] or decimal.NullDecimal: a driver.Valuer struct
// holding an exported value field followed by Valid bool.
func NullableType(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct || t.NumField() != 2 || !t.Implements(valuerType) {
		return nil, false
	}
	value, valid := t.Field(0), t.Field(1)
	if !value.IsExported() || valid.Name != "Valid" || valid.Type.Kind() != reflect.Bool {
		return nil, false
	}
	return value.Type, true
}

// pointerMethods reports whether t only satisfies fmt.Stringer or error through its
// pointer receiver, in which case dereferencing would lose the display text.
func pointerMethods(t reflect.Type) bool {
	for _, iface := range []reflect.Type{stringerType, errorType} {
		if t.Implements(iface) && !t.Elem().Implements(iface) {
			return true
		}
	}
	return false
}

// number normalizes numeric values to int64, uint64, float64 or decimal.Decimal.
func number(v any) (any, bool) {
	if d, ok := v.(decimal.Decimal); ok {
		return d, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true
	case reflect.Float32:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		// widen via the shortest float32 text so 0.1f stays 0.1
		f, _ = strconv.ParseFloat(strconv.FormatFloat(f, 'g', -1, 32), 64)
		return f, true
	case reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

func boolean(v any) (bool, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.String:
		b, err := strconv.ParseBool(strings.TrimSpace(rv.String()))
		return b, err == nil
	}
	return false, false
}

// String returns the canonical display text of a value.
func String(v any) string {
	switch x := Unwrap(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case decimal.Decimal:
		return x.String()
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	default:
		return fmt.Sprint(x)
	}
}
