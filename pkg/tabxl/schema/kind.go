package schema

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/coerce"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
)

var (
	timeType    = reflect.TypeFor[time.Time]()
	decimalType = reflect.TypeFor[decimal.Decimal]()
)

// KindOf maps a Go type to the kind of column it declares. Pointers and nullable
// wrappers such as sql.NullInt64 take the kind of the value they hold.
func KindOf(t reflect.Type) models.Kind {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return models.KindUnknown
	}
	if inner, ok := coerce.NullableType(t); ok {
		return KindOf(inner)
	}
	switch t {
	case timeType:
		return models.KindDate
	case decimalType:
		return models.KindNumber
	}
	switch t.Kind() {
	case reflect.String:
		return models.KindText
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return models.KindNumber
	case reflect.Bool:
		return models.KindBoolean
	}
	return models.KindUnknown
}

// KindOfValue maps a runtime value to a column kind.
func KindOfValue(v any) models.Kind {
	v = coerce.Unwrap(v)
	if v == nil {
		return models.KindUnknown
	}
	return KindOf(reflect.TypeOf(v))
}
