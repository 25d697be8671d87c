package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/errs"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
)

// TagName is the struct tag consulted when deriving columns from struct fields.
// `tabxl:"Header"` renames a column and `tabxl:"-"` skips the field.
const TagName = "tabxl"

// Field describes one column of a record type T.
type Field[T any] struct {
	Name string
	Kind models.Kind
	Get  func(T) any
}

// NewField creates a Field.
func NewField[T any](name string, kind models.Kind, get func(T) any) Field[T] {
	return Field[T]{Name: name, Kind: kind, Get: get}
}

// registry maps a record type to its resolved columns.
var registry sync.Map // reflect.Type -> []ColumnSchema

// Register records an explicit, ordered schema for T. It replaces any schema
// previously registered or derived for T.
func Register[T any](fields ...Field[T]) error {
	t := reflect.TypeFor[T]()
	if len(fields) == 0 {
		return &errs.SchemaError{Shape: t.String(), Reason: "no fields registered"}
	}
	columns := make([]ColumnSchema, len(fields))
	for i, f := range fields {
		if f.Get == nil {
			return &errs.SchemaError{Shape: t.String(), Reason: fmt.Sprintf("field %q has no accessor", f.Name)}
		}
		get := f.Get
		columns[i] = ColumnSchema{
			Name: f.Name,
			Kind: f.Kind,
			Get: func(record any) any {
				v, ok := record.(T)
				if !ok {
					return nil
				}
				return get(v)
			},
		}
	}
	if err := checkNames(t, columns); err != nil {
		return err
	}
	registry.Store(t, columns)
	registry.Delete(reflect.PointerTo(t))
	return nil
}

// MustRegister is like Register but panics on error. Intended for package init.
func MustRegister[T any](fields ...Field[T]) {
	if err := Register(fields...); err != nil {
		panic(err)
	}
}

// For resolves the columns of record type T.
func For[T any]() ([]ColumnSchema, error) {
	return ForType(reflect.TypeFor[T]())
}

// ForType resolves the columns of a record type: an explicit registration wins,
// then a registration of the pointed-to type, then the exported struct fields in
// declaration order. Derived schemas are cached.
func ForType(t reflect.Type) ([]ColumnSchema, error) {
	if t == nil {
		return nil, &errs.SchemaError{Shape: "<nil>", Reason: "no type"}
	}
	if cached, ok := registry.Load(t); ok {
		return cached.([]ColumnSchema), nil
	}

	var (
		columns []ColumnSchema
		err     error
	)
	if t.Kind() == reflect.Pointer {
		columns, err = forPointer(t)
	} else {
		columns, err = derive(t)
	}
	if err != nil {
		return nil, err
	}
	actual, _ := registry.LoadOrStore(t, columns)
	return actual.([]ColumnSchema), nil
}

func forPointer(t reflect.Type) ([]ColumnSchema, error) {
	base, err := ForType(t.Elem())
	if err != nil {
		return nil, err
	}
	columns := make([]ColumnSchema, len(base))
	for i, c := range base {
		get := c.Get
		c.Get = func(record any) any {
			rv := reflect.ValueOf(record)
			if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
				return nil
			}
			return get(rv.Elem().Interface())
		}
		columns[i] = c
	}
	return columns, nil
}

func derive(t reflect.Type) ([]ColumnSchema, error) {
	if t.Kind() != reflect.Struct {
		return nil, &errs.SchemaError{Shape: t.String(), Reason: "not a struct and no schema registered"}
	}

	var columns []ColumnSchema
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || (f.Anonymous && isContainer(f.Type)) {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup(TagName); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		columns = append(columns, ColumnSchema{
			Name: name,
			Kind: KindOf(f.Type),
			Get:  fieldAccessor(f.Index),
		})
	}

	if len(columns) == 0 {
		return nil, &errs.SchemaError{Shape: t.String(), Reason: "no exported fields"}
	}
	if err := checkNames(t, columns); err != nil {
		return nil, err
	}
	return columns, nil
}

// isContainer reports whether an embedded field only contributes promoted fields.
func isContainer(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && t != timeType && t != decimalType
}

func fieldAccessor(index []int) Accessor {
	return func(record any) any {
		rv := reflect.ValueOf(record)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil
		}
		fv, err := rv.FieldByIndexErr(index)
		if err != nil || !fv.CanInterface() {
			// nil embedded pointer on the path
			return nil
		}
		return fv.Interface()
	}
}

func checkNames(t reflect.Type, columns []ColumnSchema) error {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c.Name == "" {
			return &errs.SchemaError{Shape: t.String(), Reason: "empty column name"}
		}
		if _, dup := seen[c.Name]; dup {
			return &errs.SchemaError{Shape: t.String(), Reason: fmt.Sprintf("duplicate column %q", c.Name)}
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}
